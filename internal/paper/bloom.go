package paper

// Marks thresholds are the single source of truth both for default
// difficulty assignment and for the Course Outcome / Bloom's taxonomy labels
// stamped on each question.

// DifficultyForMarks derives a difficulty bucket from a question's marks
// value: 1-2 easy, 3-5 medium, 6+ hard.
func DifficultyForMarks(marks int) Difficulty {
	switch {
	case marks <= 2:
		return Easy
	case marks <= 5:
		return Medium
	default:
		return Hard
	}
}

// OutcomeLabels returns the Course Outcome (CO1..CO5) and Bloom's level
// (K1..K4) labels for a marks value.
func OutcomeLabels(marks int) (outcome, bloom string) {
	switch {
	case marks == 1:
		return "CO1", "K1"
	case marks <= 2:
		return "CO1", "K2"
	case marks <= 3:
		return "CO2", "K2"
	case marks <= 5:
		return "CO3", "K3"
	case marks <= 8:
		return "CO4", "K3"
	default:
		return "CO5", "K4"
	}
}
