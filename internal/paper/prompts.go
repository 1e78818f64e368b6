package paper

import (
	"fmt"
	"strings"
)

// maxPromptTopics caps how many topics are listed in a prompt; long topic
// lists dilute the instruction without improving the question.
const maxPromptTopics = 5

// BuildPrompt renders the structured-output generation prompt for one
// allocation. Every variant instructs the model to return a single JSON
// object whose shape matches the per-type schema in schema.go.
func BuildPrompt(a Allocation) string {
	topics := a.Topics
	if len(topics) > maxPromptTopics {
		topics = topics[:maxPromptTopics]
	}
	if len(topics) == 0 {
		topics = []string{a.UnitTitle}
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert educator creating exam questions for a course.

UNIT: %s
TOPICS TO COVER:
- %s

TASK: Create ONE %s difficulty %s question worth %d marks.

REQUIREMENTS:
- Question MUST be specific to the topics listed above
- Use clear, unambiguous language
- Appropriate difficulty for %s level
- Test real understanding, not just recall`,
		a.UnitTitle,
		strings.Join(topics, "\n- "),
		a.Difficulty,
		strings.ReplaceAll(string(a.Type), "_", " "),
		a.Marks,
		a.Difficulty,
	)

	switch a.Type {
	case MultipleChoice:
		if a.Marks == 1 {
			b.WriteString("\n- 1-mark questions should test recall or basic understanding")
		} else {
			fmt.Fprintf(&b, "\n- %d-mark questions should test application or analysis", a.Marks)
		}
		b.WriteString(`
- Create exactly 4 options (A, B, C, D)
- Only ONE option is correct; distractors must be plausible but clearly wrong

IMPORTANT: Return ONLY valid JSON in this exact format (no extra text):
{
  "question": "The question text",
  "options": ["A) First option", "B) Second option", "C) Third option", "D) Fourth option"],
  "correct_answer": "A",
  "explanation": "Why the answer is correct (1-2 sentences)"
}`)

	case TrueFalse:
		b.WriteString(`
- Create a clear statement about a specific concept
- The statement must be clearly true OR clearly false

IMPORTANT: Return ONLY valid JSON in this exact format (no extra text):
{
  "question": "Specific statement about the topic",
  "options": ["True", "False"],
  "correct_answer": "True",
  "explanation": "Why this statement is true or false"
}`)

	case ShortAnswer:
		fmt.Fprintf(&b, `
- %d-mark questions should require a brief explanation with 2-4 key points

IMPORTANT: Return ONLY valid JSON in this exact format (no extra text):
{
  "question": "The question text",
  "correct_answer": "Key points: 1) point one 2) point two 3) point three",
  "explanation": "Marking scheme: 1 mark per key point"
}`, a.Marks)

	case Descriptive:
		fmt.Fprintf(&b, `
- %d-mark questions need a detailed explanation testing deep understanding

IMPORTANT: Return ONLY valid JSON in this exact format (no extra text):
{
  "question": "Explain/Describe/Analyze a specific aspect in detail.",
  "correct_answer": "Expected answer structure with key points",
  "explanation": "Marking scheme: marks for each major point"
}`, a.Marks)

	case Essay:
		fmt.Fprintf(&b, `
- %d-mark questions require a comprehensive essay-type answer

IMPORTANT: Return ONLY valid JSON in this exact format (no extra text):
{
  "question": "Comprehensive question requiring an essay-type answer.",
  "correct_answer": "Structure: introduction, main points, examples, conclusion",
  "explanation": "Marking scheme breakdown"
}`, a.Marks)

	case FillBlank:
		b.WriteString(`
IMPORTANT: Return ONLY valid JSON in this exact format (no extra text):
{
  "question": "Statement with _____ blank to fill",
  "correct_answer": "word or phrase for the blank",
  "explanation": "Why this is the answer"
}`)
	}

	return b.String()
}
