package syllabus

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	// maxTitleLen caps unit titles produced by fallback segmentation.
	maxTitleLen = 100
	// singleUnitBodyNorm is the body size beyond which a lone matched unit is
	// suspected to actually hold several units' worth of run-on content.
	singleUnitBodyNorm = 800
)

// ErrEmptyInput is returned when the submitted syllabus text is blank.
var ErrEmptyInput = fmt.Errorf("syllabus: empty input text")

// keyword-anchored unit heading patterns, most specific first. Each yields
// (number, title) submatches.
var keywordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^unit\s+(\d+)\s*:\s*(.+)`),
	regexp.MustCompile(`(?i)^unit\s+(\d+)\s+(.+)`),
	regexp.MustCompile(`(?i)^chapter\s+(\d+)\s*[:\-–—]?\s*(.+)`),
	regexp.MustCompile(`(?i)^module\s+(\d+)\s*[:\-–—]?\s*(.+)`),
	regexp.MustCompile(`(?i)^unit\s+([IVXLCDM]+)\s*[:\-–—]?\s*(.+)`),
}

// bareNumberPattern matches "1. Title" headings. It is only consulted when no
// keyword heading appears anywhere in the text, otherwise numbered topic
// lists would be misread as unit boundaries.
var bareNumberPattern = regexp.MustCompile(`^(\d+)\.\s*(.+)`)

// sectionBreakPattern marks reference/textbook/objective/outcome headers.
// Such a header ends the current unit's body; everything until the next unit
// boundary is bibliographic noise.
var sectionBreakPattern = regexp.MustCompile(`(?i)(text\s*books?|references?|bibliography|suggested\s+reading|course\s+objectives?|course\s+outcomes?)`)

// noisePattern matches individual lines of publisher/citation noise.
var noisePattern = regexp.MustCompile(`(?i)(edition|publisher|publication|pearson|mcgraw|wiley|copyright)`)

// trailingPunct strips decoration left at the end of a matched unit title.
var trailingPunct = regexp.MustCompile(`[:\.\-–—]+$`)

// span is a raw unit produced by boundary matching, before topic extraction.
type span struct {
	number int
	title  string
	body   []string
}

// Parser extracts a structured outline from free-form syllabus text.
type Parser struct {
	log *slog.Logger
}

// NewParser creates a Parser. A nil logger falls back to slog.Default.
func NewParser(log *slog.Logger) *Parser {
	if log == nil {
		log = slog.Default()
	}
	return &Parser{log: log}
}

// Parse turns raw syllabus text into an outline. Heuristics are tried in
// decreasing order of specificity: line-anchored headings, inline unit
// markers, then paragraph segmentation. Non-empty input always yields at
// least one unit.
func (p *Parser) Parse(content string) (Outline, error) {
	if strings.TrimSpace(content) == "" {
		return Outline{}, ErrEmptyInput
	}

	content = Normalize(content)
	spans := p.matchLines(content)

	// ≤1 boundary is a degenerate result: retry with inline markers before
	// accepting it. A single span only survives when its body looks like a
	// single unit's worth of text.
	if len(spans) == 0 || (len(spans) == 1 && bodySize(spans[0]) > singleUnitBodyNorm) {
		if inline := extractInlineUnits(content); len(inline) > 1 {
			p.log.Debug("inline unit markers engaged", "units", len(inline))
			return p.finish(inline), nil
		}
	}

	units := p.spansToUnits(spans)

	if len(units) < 2 {
		if inline := extractInlineUnits(content); len(inline) > len(units) {
			p.log.Debug("inline unit markers engaged", "units", len(inline))
			return p.finish(inline), nil
		}
	}
	if len(units) == 0 {
		p.log.Debug("no unit boundaries found, segmenting paragraphs")
		units = segmentParagraphs(content)
	}

	outline := p.finish(units)
	p.log.Info("syllabus parsed", "units", outline.Len())
	return outline, nil
}

// matchLines scans the text line by line for unit boundary headings and
// collects the body lines belonging to each heading.
func (p *Parser) matchLines(content string) []span {
	lines := strings.Split(content, "\n")
	useBareNumbers := !containsKeywordHeading(lines)

	var spans []span
	var current *span
	truncated := false // set once a references/objectives header is seen

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if len(line) < 3 {
			continue
		}

		if number, title, ok := matchHeading(line, useBareNumbers); ok {
			if sectionBreakPattern.MatchString(title) || noisePattern.MatchString(title) {
				continue
			}
			title = strings.TrimSpace(trailingPunct.ReplaceAllString(title, ""))
			if len(title) < 3 {
				continue
			}
			if current != nil {
				spans = append(spans, *current)
			}
			current = &span{number: number, title: title}
			truncated = false
			continue
		}

		if sectionBreakPattern.MatchString(line) {
			// Body ends here; the rest of this unit is bibliography.
			truncated = true
			continue
		}
		if truncated || noisePattern.MatchString(line) {
			continue
		}
		if current != nil {
			current.body = append(current.body, line)
		}
	}
	if current != nil {
		spans = append(spans, *current)
	}
	return spans
}

// matchHeading tries each boundary pattern against a line and returns the
// declared unit number and title.
func matchHeading(line string, useBareNumbers bool) (number int, title string, ok bool) {
	for _, pat := range keywordPatterns {
		m := pat.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, strings.TrimSpace(m[2]), true
		}
		if n, isNum := parseRoman(m[1]); isNum {
			return n, strings.TrimSpace(m[2]), true
		}
	}
	if useBareNumbers {
		if m := bareNumberPattern.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			return n, strings.TrimSpace(m[2]), true
		}
	}
	return 0, "", false
}

func containsKeywordHeading(lines []string) bool {
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		for _, pat := range keywordPatterns {
			if pat.MatchString(line) {
				return true
			}
		}
	}
	return false
}

// spansToUnits runs topic extraction on each span and drops spans whose
// titles are bibliographic noise.
func (p *Parser) spansToUnits(spans []span) []Unit {
	units := make([]Unit, 0, len(spans))
	for _, s := range spans {
		if sectionBreakPattern.MatchString(s.title) {
			continue
		}
		topics := ExtractTopics(strings.Join(s.body, "\n"))
		units = append(units, Unit{
			Title:  s.title,
			Topics: topics,
			Order:  s.number,
		})
	}
	return units
}

// finish enforces the outline invariants: units sorted by declared order,
// Order renumbered contiguously from 1, IDs assigned, and every unit given at
// least its own title as a topic.
func (p *Parser) finish(units []Unit) Outline {
	sort.SliceStable(units, func(i, j int) bool {
		return units[i].Order < units[j].Order
	})
	for i := range units {
		units[i].Order = i + 1
		units[i].ID = unitID(i + 1)
		if len(units[i].Topics) == 0 {
			units[i].Topics = []string{units[i].Title}
		}
	}
	return Outline{Units: units}
}

func bodySize(s span) int {
	n := 0
	for _, line := range s.body {
		n += len(line)
	}
	return n
}
