package syllabus

import (
	"regexp"
	"strings"
)

const (
	minTopicLen      = 5
	maxTopicLen      = 200
	maxTopicsPerUnit = 20
)

var (
	bulletPrefix = regexp.MustCompile(`^[\-\*•\d\.]+\s*`)
	// headerNoise matches section labels that look like topics but are not.
	headerNoise = regexp.MustCompile(`(?i)^(topics?|syllabus|course|objectives?|contents?|unit\s+[IVX]+):?$`)
	innerSpace  = regexp.MustCompile(`\s+`)
)

// ExtractTopics splits one unit's raw body text into an ordered list of topic
// strings. Delimiters are tried in priority order: bullet markers at line
// starts, then blank-line separated lines, then dash-separated clauses of a
// run-on line (the common PDF extraction shape).
func ExtractTopics(body string) []string {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}

	lines := nonEmptyLines(body)

	var candidates []string
	switch {
	case hasBulletLines(lines):
		for _, line := range lines {
			if isBulletLine(line) {
				candidates = append(candidates, line)
			}
		}
	case len(lines) > 1:
		candidates = lines
	default:
		candidates = splitRunOn(lines[0])
	}

	return cleanTopics(candidates)
}

func nonEmptyLines(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func isBulletLine(line string) bool {
	return strings.HasPrefix(line, "-") ||
		strings.HasPrefix(line, "•") ||
		strings.HasPrefix(line, "*")
}

func hasBulletLines(lines []string) bool {
	for _, line := range lines {
		if isBulletLine(line) {
			return true
		}
	}
	return false
}

// splitRunOn breaks a single long line into clauses on spaced dashes. A dash
// directly between two digits is a number range, not a topic delimiter.
func splitRunOn(line string) []string {
	runes := []rune(line)
	var parts []string
	start := 0

	for i := 1; i < len(runes)-1; i++ {
		r := runes[i]
		if r != '–' && r != '—' && r != '-' {
			continue
		}
		if runes[i-1] != ' ' || runes[i+1] != ' ' {
			continue
		}
		if isDigitBoundary(runes, i) {
			continue
		}
		parts = append(parts, string(runes[start:i-1]))
		start = i + 2
	}
	parts = append(parts, string(runes[start:]))
	return parts
}

// isDigitBoundary reports whether the dash at index i sits between two
// numbers, e.g. "pages 9 - 12".
func isDigitBoundary(runes []rune, i int) bool {
	prev, next := i-2, i+2
	return prev >= 0 && next < len(runes) &&
		runes[prev] >= '0' && runes[prev] <= '9' &&
		runes[next] >= '0' && runes[next] <= '9'
}

// cleanTopics trims markers and noise from candidates, drops short or
// duplicated entries, and caps length and count.
func cleanTopics(candidates []string) []string {
	seen := make(map[string]bool, len(candidates))
	var topics []string

	for _, c := range candidates {
		c = strings.TrimSpace(bulletPrefix.ReplaceAllString(strings.TrimSpace(c), ""))
		c = innerSpace.ReplaceAllString(c, " ")
		if len(c) < minTopicLen {
			continue
		}
		if headerNoise.MatchString(c) || sectionBreakPattern.MatchString(c) || noisePattern.MatchString(c) {
			continue
		}
		if len(c) > maxTopicLen {
			c = strings.TrimSpace(c[:maxTopicLen])
		}
		key := strings.ToLower(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		topics = append(topics, c)
		if len(topics) == maxTopicsPerUnit {
			break
		}
	}
	return topics
}
