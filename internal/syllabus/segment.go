package syllabus

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	blankLineRun = regexp.MustCompile(`\n\s*\n`)
	clauseEnd    = regexp.MustCompile(`[\.:;–—]`)
)

// segmentParagraphs is the last parsing stage, engaged when no unit
// boundaries were recognized at all. Blank-line separated paragraphs become
// synthetic units: the paragraph's first short line (or first clause) is the
// title and the remaining lines are topic candidates. Non-empty input always
// produces at least one unit.
func segmentParagraphs(content string) []Unit {
	sections := blankLineRun.Split(content, -1)
	var units []Unit

	for i, section := range sections {
		section = strings.TrimSpace(section)
		if len(section) < 10 {
			continue
		}
		lines := nonEmptyLines(section)
		if len(lines) == 0 {
			continue
		}

		title := lines[0]
		topicLines := lines[1:]
		if len(title) >= maxTitleLen {
			// First line is body text, not a heading. Use its first clause
			// as the title and treat every line as a topic.
			title = firstClause(lines[0], fmt.Sprintf("Section %d", i+1))
			topicLines = lines
		}

		topics := cleanTopics(topicLines)
		if len(topics) == 0 && len(lines) > 1 {
			title = fmt.Sprintf("Section %d", i+1)
			topics = cleanTopics(lines)
		}
		if len(topics) == 0 {
			continue
		}

		units = append(units, Unit{
			Title:  truncate(title, maxTitleLen),
			Topics: topics,
			Order:  len(units) + 1,
		})
	}

	if len(units) == 0 {
		units = lastResortUnit(content)
	}
	return units
}

// lastResortUnit wraps all usable lines of the text into a single unit so
// the pipeline never returns an empty outline for non-empty input.
func lastResortUnit(content string) []Unit {
	lines := nonEmptyLines(content)
	var usable []string
	for _, line := range lines {
		if len(line) > 3 {
			usable = append(usable, line)
		}
	}
	if len(usable) == 0 {
		return nil
	}

	title := truncate(usable[0], maxTitleLen)
	topicLines := usable
	if len(usable) > 1 {
		topicLines = usable[1:]
	}
	topics := cleanTopics(topicLines)
	if len(topics) == 0 {
		topics = []string{title}
	}
	return []Unit{{Title: title, Topics: topics, Order: 1}}
}

// firstClause cuts a line at its first punctuation delimiter. fallback is
// used when the clause is degenerate.
func firstClause(line, fallback string) string {
	if loc := clauseEnd.FindStringIndex(line); loc != nil {
		clause := strings.TrimSpace(line[:loc[0]])
		if len(clause) >= 3 {
			return clause
		}
	}
	if len(line) < maxTitleLen {
		return line
	}
	return fallback
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n])
}
