package paper

import (
	"testing"
)

func sampleResult(n int) *Result {
	res := &Result{Coverage: Coverage{"unit_1": n}}
	for i := 0; i < n; i++ {
		res.Questions = append(res.Questions, Question{
			ID:     string(rune('a' + i)),
			UnitID: "unit_1",
			Marks:  2,
		})
		res.TotalMarks += 2
	}
	return res
}

func TestNewPaper(t *testing.T) {
	rules := Rules{
		Items:      []RuleItem{{Marks: 2, Count: 3, Type: ShortAnswer}},
		TotalMarks: 6,
	}
	res := sampleResult(3)

	p := NewPaper("syl_ab12", "Operating Systems", rules, res)

	if p.ID == "" {
		t.Error("paper has no ID")
	}
	if p.SyllabusID != "syl_ab12" || p.CourseName != "Operating Systems" {
		t.Errorf("paper = %+v", p)
	}
	if p.TotalQuestions != 3 || p.TotalMarks != 6 {
		t.Errorf("totals = %d questions / %d marks", p.TotalQuestions, p.TotalMarks)
	}
	if p.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}

	// Without randomization the plan order is preserved.
	for i, q := range p.Questions {
		if q.ID != res.Questions[i].ID {
			t.Errorf("question %d = %s, order changed", i, q.ID)
		}
	}
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	res := sampleResult(8)

	a := shuffled(res.Questions, "qp_1234")
	b := shuffled(res.Questions, "qp_1234")
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("same seed produced different orders at %d", i)
		}
	}

	// A permutation, not a mutation of the input.
	seen := make(map[string]bool)
	for _, q := range a {
		seen[q.ID] = true
	}
	if len(seen) != len(res.Questions) {
		t.Errorf("shuffle lost questions: %v", a)
	}
	if res.Questions[0].ID != "a" {
		t.Error("shuffle mutated the input slice")
	}
}

func TestCoverageTotal(t *testing.T) {
	c := Coverage{"unit_1": 3, "unit_2": 2}
	if c.Total() != 5 {
		t.Errorf("Total() = %d, want 5", c.Total())
	}
}

func TestRulesTotalQuestions(t *testing.T) {
	r := Rules{Items: []RuleItem{
		{Marks: 1, Count: 10, Type: MultipleChoice},
		{Marks: 8, Count: 5, Type: Essay},
	}}
	if r.TotalQuestions() != 15 {
		t.Errorf("TotalQuestions() = %d, want 15", r.TotalQuestions())
	}
}
