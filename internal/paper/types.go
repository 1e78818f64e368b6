// Package paper turns a parsed syllabus outline and a caller-supplied
// question specification into a complete question paper. The Planner
// allocates every requested question to a unit; the Orchestrator drives
// per-question generation against an AI provider with retry and a
// deterministic fallback, so a plan of N entries always produces exactly N
// questions.
package paper

import (
	"fmt"
	"time"
)

// QuestionType enumerates the supported question formats.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	ShortAnswer    QuestionType = "short_answer"
	Descriptive    QuestionType = "descriptive"
	Essay          QuestionType = "essay"
	TrueFalse      QuestionType = "true_false"
	FillBlank      QuestionType = "fill_blank"
)

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	switch t {
	case MultipleChoice, ShortAnswer, Descriptive, Essay, TrueFalse, FillBlank:
		return true
	}
	return false
}

// HasOptions reports whether questions of this type carry an option set.
func (t QuestionType) HasOptions() bool {
	return t == MultipleChoice || t == TrueFalse
}

// Difficulty enumerates question difficulty buckets.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	return d == Easy || d == Medium || d == Hard
}

// Provenance records how a question was produced.
type Provenance string

const (
	// ProvenanceGenerated marks a question accepted from the AI provider.
	ProvenanceGenerated Provenance = "generated"
	// ProvenanceFallback marks a deterministically synthesized question used
	// after the provider exhausted its attempts.
	ProvenanceFallback Provenance = "fallback"
)

// RuleItem is one entry of the caller's question specification: produce
// Count questions of Type worth Marks each. Difficulty is optional; when
// unset it is derived from the marks value.
type RuleItem struct {
	Marks      int          `json:"marks"`
	Count      int          `json:"count"`
	Type       QuestionType `json:"type"`
	Difficulty Difficulty   `json:"difficulty,omitempty"`
}

// Validate checks a single rule item.
func (r RuleItem) Validate() error {
	if r.Marks <= 0 {
		return fmt.Errorf("marks must be positive, got %d", r.Marks)
	}
	if r.Count <= 0 {
		return fmt.Errorf("count must be positive, got %d", r.Count)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("unknown question type %q", r.Type)
	}
	if r.Difficulty != "" && !r.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", r.Difficulty)
	}
	return nil
}

// Rules is the full generation specification for one paper.
type Rules struct {
	Items            []RuleItem `json:"question_types"`
	TotalMarks       int        `json:"total_marks,omitempty"`
	IncludeAnswerKey bool       `json:"include_answer_key"`
	RandomizeOrder   bool       `json:"randomize_order"`
}

// TotalQuestions returns the number of questions the rules request.
func (r Rules) TotalQuestions() int {
	n := 0
	for _, item := range r.Items {
		n += item.Count
	}
	return n
}

// Validate checks the rules as a whole.
func (r Rules) Validate() error {
	if len(r.Items) == 0 {
		return &StructuralError{Stage: StagePlan, Msg: "no question specification items"}
	}
	for i, item := range r.Items {
		if err := item.Validate(); err != nil {
			return &StructuralError{Stage: StagePlan, Msg: fmt.Sprintf("item %d: %v", i+1, err)}
		}
	}
	return nil
}

// Allocation assigns one planned question to a target unit. It carries the
// unit's topic list so generation does not need the outline again.
type Allocation struct {
	UnitID     string
	UnitTitle  string
	Topics     []string
	Type       QuestionType
	Marks      int
	Difficulty Difficulty
}

// Coverage maps unit IDs to the number of questions assigned to them.
type Coverage map[string]int

// Total returns the sum of all per-unit counts.
func (c Coverage) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Plan is the flat ordered list of allocations for one generation run,
// together with the coverage it implies.
type Plan struct {
	Entries  []Allocation
	Coverage Coverage
}

// Question is one generated exam question. Immutable once produced.
type Question struct {
	ID            string       `json:"id"`
	UnitID        string       `json:"unit_id"`
	UnitTitle     string       `json:"unit_name"`
	Text          string       `json:"question_text"`
	Marks         int          `json:"marks"`
	Type          QuestionType `json:"type"`
	Difficulty    Difficulty   `json:"difficulty"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
	Explanation   string       `json:"answer_explanation,omitempty"`
	CourseOutcome string       `json:"course_outcome,omitempty"`
	BloomsLevel   string       `json:"blooms_level,omitempty"`
	Provenance    Provenance   `json:"provenance"`
}

// Paper is a finished question paper.
type Paper struct {
	ID             string     `json:"id"`
	SyllabusID     string     `json:"syllabus_id"`
	CourseName     string     `json:"course_name"`
	GeneratedAt    time.Time  `json:"generated_at"`
	TotalMarks     int        `json:"total_marks"`
	TotalQuestions int        `json:"total_questions"`
	Questions      []Question `json:"questions"`
	Rules          Rules      `json:"generation_rules"`
	Coverage       Coverage   `json:"units_coverage"`
	Warnings       []string   `json:"warnings,omitempty"`
}
