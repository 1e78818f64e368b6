package syllabus

import (
	"regexp"
	"strings"
)

// inlineMaxTopics caps topics per inline-extracted unit; run-on PDF text
// tends to over-split.
const inlineMaxTopics = 15

// inlineUnitPattern finds "UNIT III STACKS AND QUEUES 9" style markers
// embedded mid-text, where the trailing number is the contact-hours count
// that typically follows a unit heading in PDF-extracted syllabi.
var inlineUnitPattern = regexp.MustCompile(`UNIT\s+([IVXLCDM]+)\s+([A-Z][A-Z\s&,\-]*?)\s+\d+`)

// extractInlineUnits handles syllabi whose entire content was flattened into
// one paragraph by PDF extraction. Each marker's body runs from the end of
// its match to the start of the next marker (or end of text). Fewer than two
// markers means this heuristic does not apply.
func extractInlineUnits(content string) []Unit {
	matches := inlineUnitPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) < 2 {
		return nil
	}

	units := make([]Unit, 0, len(matches))
	for i, m := range matches {
		numeral := content[m[2]:m[3]]
		title := strings.TrimSpace(content[m[4]:m[5]])

		number, ok := parseRoman(numeral)
		if !ok {
			number = i + 1
		}

		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := strings.TrimSpace(content[m[1]:end])

		topics := ExtractTopics(body)
		if len(topics) > inlineMaxTopics {
			topics = topics[:inlineMaxTopics]
		}
		if len(topics) == 0 {
			continue
		}

		units = append(units, Unit{
			Title:  title,
			Topics: topics,
			Order:  number,
		})
	}
	return units
}
