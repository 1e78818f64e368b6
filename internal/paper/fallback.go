package paper

import "fmt"

// The verb and template lists rotate across successive fallbacks so that even
// when a unit receives more fallback questions than it has topics, no two
// share the same text. A fixed constant string here is exactly the failure
// mode this path exists to prevent.
var (
	fallbackVerbs = []string{"Explain", "Describe", "Discuss", "Outline", "Analyze"}

	fallbackChoiceTexts = []string{
		"Which of the following is most closely associated with %s?",
		"Which option best characterizes %s?",
		"Which of the following is a key aspect of %s?",
		"Which of the following belongs to the study of %s?",
		"Which of the following relates directly to %s?",
	}

	// Formatted with (topic, unit title).
	fallbackBoolTexts = []string{
		"%s is one of the topics covered under %s.",
		"%s is listed among the contents of %s.",
		"A question on %s falls within the scope of %s.",
		"%s appears in the topic list for %s.",
		"%s is part of the material covered in %s.",
	}

	// Formatted with (unit title, sibling topic).
	fallbackBlankTexts = []string{
		"In %s, _____ is studied alongside %s.",
		"Within %s, the topic _____ accompanies %s.",
		"The unit %s pairs _____ with %s.",
		"%s covers _____ together with %s.",
		"Under %s, _____ is treated next to %s.",
	}
)

// buildFallback synthesizes a question deterministically from the unit's
// topic list. seq is the zero-based count of fallbacks already produced for
// this unit in the current run; it selects the topic and template variant.
func buildFallback(a Allocation, seq int) Question {
	topics := a.Topics
	if len(topics) == 0 {
		topics = []string{a.UnitTitle}
	}
	topic := topics[seq%len(topics)]
	round := seq / len(topics)
	verb := fallbackVerbs[round%len(fallbackVerbs)]

	q := Question{
		ID:         generateID(),
		UnitID:     a.UnitID,
		UnitTitle:  a.UnitTitle,
		Marks:      a.Marks,
		Type:       a.Type,
		Difficulty: a.Difficulty,
		Provenance: ProvenanceFallback,
	}
	q.CourseOutcome, q.BloomsLevel = OutcomeLabels(a.Marks)

	switch a.Type {
	case MultipleChoice:
		q.Text = fmt.Sprintf(fallbackChoiceTexts[round%len(fallbackChoiceTexts)], topic)
		q.Options = []string{
			"A) " + topic,
			"B) " + siblingTopic(topics, seq, 1),
			"C) None of the above",
			"D) All of the above",
		}
		q.CorrectAnswer = "A"
		q.Explanation = fmt.Sprintf("%s is a topic covered under %s.", topic, a.UnitTitle)

	case TrueFalse:
		q.Text = fmt.Sprintf(fallbackBoolTexts[round%len(fallbackBoolTexts)], topic, a.UnitTitle)
		q.Options = []string{"True", "False"}
		q.CorrectAnswer = "True"
		q.Explanation = fmt.Sprintf("The unit %s covers %s.", a.UnitTitle, topic)

	case FillBlank:
		// The topic is the answer, so the blank is framed by its neighbour
		// in the topic list to keep texts distinct without leaking it.
		q.Text = fmt.Sprintf(fallbackBlankTexts[round%len(fallbackBlankTexts)], a.UnitTitle, siblingTopic(topics, seq, 1))
		q.CorrectAnswer = topic
		q.Explanation = fmt.Sprintf("%s is part of %s.", topic, a.UnitTitle)

	default: // short_answer, descriptive, essay
		q.Text = fmt.Sprintf("%s %s in the context of %s.", verb, topic, a.UnitTitle)
		q.CorrectAnswer = fmt.Sprintf("The answer should cover: %s", topic)
		q.Explanation = fmt.Sprintf("Award marks for a correct treatment of %s.", topic)
	}

	return q
}

// siblingTopic picks a distractor topic different from the one at index seq.
func siblingTopic(topics []string, seq, offset int) string {
	if len(topics) < 2 {
		return "An unrelated concept"
	}
	return topics[(seq+offset)%len(topics)]
}
