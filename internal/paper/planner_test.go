package paper

import (
	"errors"
	"testing"

	"github.com/examforge/examforge/internal/syllabus"
)

func testOutline(n int) syllabus.Outline {
	units := make([]syllabus.Unit, n)
	for i := range units {
		units[i] = syllabus.Unit{
			ID:     []string{"unit_1", "unit_2", "unit_3", "unit_4"}[i],
			Title:  []string{"Lists", "Stacks", "Trees", "Graphs"}[i],
			Topics: []string{"Topic alpha", "Topic beta"},
			Order:  i + 1,
		}
	}
	return syllabus.Outline{Units: units}
}

func TestBuildPlanRoundRobin(t *testing.T) {
	outline := testOutline(2)
	rules := Rules{Items: []RuleItem{
		{Marks: 2, Count: 4, Type: MultipleChoice},
	}}

	plan, err := BuildPlan(outline, rules)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	if len(plan.Entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(plan.Entries))
	}

	wantUnits := []string{"unit_1", "unit_2", "unit_1", "unit_2"}
	for i, e := range plan.Entries {
		if e.UnitID != wantUnits[i] {
			t.Errorf("entry %d unit = %s, want %s", i, e.UnitID, wantUnits[i])
		}
	}
	if plan.Coverage["unit_1"] != 2 || plan.Coverage["unit_2"] != 2 {
		t.Errorf("coverage = %v, want 2 per unit", plan.Coverage)
	}
}

func TestBuildPlanItemsCycleIndependently(t *testing.T) {
	outline := testOutline(3)
	rules := Rules{Items: []RuleItem{
		{Marks: 1, Count: 2, Type: MultipleChoice},
		{Marks: 8, Count: 2, Type: Essay},
	}}

	plan, err := BuildPlan(outline, rules)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}

	// Each item restarts at the first unit.
	wantUnits := []string{"unit_1", "unit_2", "unit_1", "unit_2"}
	for i, e := range plan.Entries {
		if e.UnitID != wantUnits[i] {
			t.Errorf("entry %d unit = %s, want %s", i, e.UnitID, wantUnits[i])
		}
	}
	if plan.Entries[2].Type != Essay || plan.Entries[2].Marks != 8 {
		t.Errorf("entry 2 = %+v, want essay worth 8", plan.Entries[2])
	}
}

func TestBuildPlanDerivesDifficulty(t *testing.T) {
	outline := testOutline(1)
	rules := Rules{Items: []RuleItem{
		{Marks: 1, Count: 1, Type: MultipleChoice},
		{Marks: 4, Count: 1, Type: ShortAnswer},
		{Marks: 10, Count: 1, Type: Essay},
		{Marks: 10, Count: 1, Type: Essay, Difficulty: Easy},
	}}

	plan, err := BuildPlan(outline, rules)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}

	want := []Difficulty{Easy, Medium, Hard, Easy}
	for i, e := range plan.Entries {
		if e.Difficulty != want[i] {
			t.Errorf("entry %d difficulty = %s, want %s", i, e.Difficulty, want[i])
		}
	}
}

func TestBuildPlanEmptyOutline(t *testing.T) {
	rules := Rules{Items: []RuleItem{{Marks: 2, Count: 1, Type: MultipleChoice}}}

	_, err := BuildPlan(syllabus.Outline{}, rules)
	var structErr *StructuralError
	if !errors.As(err, &structErr) {
		t.Fatalf("BuildPlan() error = %v, want StructuralError", err)
	}
	if structErr.Stage != StagePlan {
		t.Errorf("stage = %s, want %s", structErr.Stage, StagePlan)
	}
}

func TestBuildPlanInvalidRules(t *testing.T) {
	outline := testOutline(1)

	tests := []struct {
		name  string
		rules Rules
	}{
		{"no items", Rules{}},
		{"zero count", Rules{Items: []RuleItem{{Marks: 2, Count: 0, Type: MultipleChoice}}}},
		{"zero marks", Rules{Items: []RuleItem{{Marks: 0, Count: 1, Type: MultipleChoice}}}},
		{"bad type", Rules{Items: []RuleItem{{Marks: 2, Count: 1, Type: "riddle"}}}},
		{"bad difficulty", Rules{Items: []RuleItem{{Marks: 2, Count: 1, Type: MultipleChoice, Difficulty: "brutal"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildPlan(outline, tt.rules); err == nil {
				t.Error("BuildPlan() error = nil, want validation error")
			}
		})
	}
}
