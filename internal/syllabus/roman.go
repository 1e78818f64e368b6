package syllabus

import "strings"

var romanValues = map[byte]int{
	'I': 1,
	'V': 5,
	'X': 10,
	'L': 50,
	'C': 100,
	'D': 500,
	'M': 1000,
}

// parseRoman converts a Roman numeral to its integer value using standard
// subtractive notation. It returns 0 and false for strings that are empty or
// contain non-numeral characters.
func parseRoman(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	total := 0
	for i := 0; i < len(s); i++ {
		v, ok := romanValues[s[i]]
		if !ok {
			return 0, false
		}
		if i+1 < len(s) {
			if next, ok := romanValues[s[i+1]]; ok && v < next {
				total -= v
				continue
			}
		}
		total += v
	}
	return total, true
}
