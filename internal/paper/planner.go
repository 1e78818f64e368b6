package paper

import (
	"github.com/examforge/examforge/internal/syllabus"
)

// BuildPlan allocates every requested question to a target unit. Each rule
// item cycles round-robin across units independently, restarting at the first
// unit, so low-count items are still spread over the whole outline instead of
// clustering at the front. The plan preserves the caller's item order; within
// an item, question i targets unit i mod N.
func BuildPlan(outline syllabus.Outline, rules Rules) (Plan, error) {
	if outline.Len() == 0 {
		return Plan{}, &StructuralError{Stage: StagePlan, Msg: "outline has no units"}
	}
	if err := rules.Validate(); err != nil {
		return Plan{}, err
	}

	units := outline.Units
	plan := Plan{
		Entries:  make([]Allocation, 0, rules.TotalQuestions()),
		Coverage: make(Coverage, len(units)),
	}

	for _, item := range rules.Items {
		difficulty := item.Difficulty
		if difficulty == "" {
			difficulty = DifficultyForMarks(item.Marks)
		}
		for i := 0; i < item.Count; i++ {
			unit := units[i%len(units)]
			plan.Entries = append(plan.Entries, Allocation{
				UnitID:     unit.ID,
				UnitTitle:  unit.Title,
				Topics:     unit.Topics,
				Type:       item.Type,
				Marks:      item.Marks,
				Difficulty: difficulty,
			})
			plan.Coverage[unit.ID]++
		}
	}

	return plan, nil
}
