package syllabus

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	artifactPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)downloaded\s+from\s+\S+\.(com|in|org|net)`),
		regexp.MustCompile(`(?i)enggtree\.com`),
		regexp.MustCompile(`(?i)www\.\S+\.(com|in|org|net)`),
	}

	pageNumberLine = regexp.MustCompile(`\n\s*\d+\s*\n`)
	multiSpace     = regexp.MustCompile(` +`)
	headingStart   = regexp.MustCompile(`(?i)^(unit|chapter|module|\d+\.)`)
)

// Normalize cleans raw syllabus text ahead of unit matching: drops PDF
// watermarks and standalone page numbers, rejoins lines broken mid-sentence,
// and collapses repeated spaces. The text is also put into Unicode NFC form so
// that dash and bullet characters compare predictably.
func Normalize(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	for _, p := range artifactPatterns {
		text = p.ReplaceAllString(text, "")
	}

	// Standalone page numbers. Applied twice because adjacent matches share
	// the newline between them.
	text = pageNumberLine.ReplaceAllString(text, "\n")
	text = pageNumberLine.ReplaceAllString(text, "\n")

	text = joinBrokenLines(text)
	text = multiSpace.ReplaceAllString(text, " ")
	return text
}

// joinBrokenLines merges a line into the next when it does not end with
// sentence punctuation and neither line marks a structural boundary. PDF
// extraction routinely breaks sentences across lines; unit matching works on
// whole logical lines. Headings, bullet items, and blank lines are never
// merged.
func joinBrokenLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			out = append(out, "")
			continue
		}

		for i+1 < len(lines) && joinable(line, strings.TrimSpace(lines[i+1])) {
			line += " " + strings.TrimSpace(lines[i+1])
			i++
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

func joinable(line, next string) bool {
	if next == "" || endsWithBreak(line) {
		return false
	}
	if headingStart.MatchString(line) || isBulletLine(line) {
		return false
	}
	return !headingStart.MatchString(next) && !isBulletLine(next)
}

func endsWithBreak(line string) bool {
	for _, suffix := range []string{".", ":", "–", "-", "—"} {
		if strings.HasSuffix(line, suffix) {
			return true
		}
	}
	return false
}
