package paper

import (
	"encoding/json"
	"fmt"
	"strings"
)

// draft is the structured payload expected from the provider.
type draft struct {
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

// minQuestionLen rejects degenerate question text the provider sometimes
// emits ("N/A", a bare topic word).
const minQuestionLen = 10

// parseDraft extracts and decodes the JSON object from a raw provider
// response. Models routinely wrap JSON in markdown fences or surround it
// with prose, so the object is located before decoding and the decoded
// payload is checked against the per-type schema.
func parseDraft(raw string, qt QuestionType) (draft, error) {
	jsonStr, err := extractJSON(raw)
	if err != nil {
		return draft{}, err
	}

	if err := validateDraftSchema(jsonStr, qt); err != nil {
		return draft{}, err
	}

	var d draft
	if err := json.Unmarshal([]byte(jsonStr), &d); err != nil {
		return draft{}, fmt.Errorf("decode response: %w", err)
	}
	return d, nil
}

// extractJSON locates the JSON object within a model response, stripping
// markdown code fences and surrounding prose.
func extractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	} else if strings.Contains(s, "```") {
		for _, part := range strings.Split(s, "```") {
			part = strings.TrimSpace(part)
			if strings.HasPrefix(part, "{") {
				s = part
				break
			}
		}
	}

	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		start := strings.Index(s, "{")
		end := strings.LastIndex(s, "}")
		if start < 0 || end <= start {
			return "", fmt.Errorf("no JSON object in response")
		}
		s = s[start : end+1]
	}
	return s, nil
}

// acceptDraft applies the semantic acceptance rules on top of the schema
// check: non-trivial question text and, for option-bearing types, a complete
// option set with a correct-answer marker consistent with it.
func acceptDraft(d draft, qt QuestionType) error {
	if len(strings.TrimSpace(d.Question)) < minQuestionLen {
		return fmt.Errorf("question text too short")
	}

	if !qt.HasOptions() {
		return nil
	}

	want := 4
	if qt == TrueFalse {
		want = 2
	}
	if len(d.Options) != want {
		return fmt.Errorf("expected %d options, got %d", want, len(d.Options))
	}
	if d.CorrectAnswer == "" {
		return fmt.Errorf("missing correct answer")
	}
	if !answerMatchesOptions(d.CorrectAnswer, d.Options) {
		return fmt.Errorf("correct answer %q not consistent with options", d.CorrectAnswer)
	}
	return nil
}

// answerMatchesOptions accepts either a bare option letter ("A"), a full
// option string, or an option prefix match ("A) ...").
func answerMatchesOptions(answer string, options []string) bool {
	answer = strings.TrimSpace(answer)
	for i, opt := range options {
		opt = strings.TrimSpace(opt)
		if strings.EqualFold(answer, opt) {
			return true
		}
		letter := string(rune('A' + i))
		if strings.EqualFold(answer, letter) {
			return true
		}
		if strings.HasPrefix(strings.ToUpper(opt), strings.ToUpper(answer)+")") {
			return true
		}
	}
	return false
}
