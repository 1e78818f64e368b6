// Package syllabus parses free-form course syllabus text into a structured
// outline of ordered units and topics. Real syllabi vary wildly in formatting
// (line-broken headings vs. run-on PDF-extracted text), so parsing is a
// cascade of increasingly permissive heuristics: line-anchored unit patterns,
// then inline unit markers, then blank-line paragraph segmentation. Each stage
// is only engaged when the previous one yields a degenerate result.
package syllabus

import "fmt"

// Unit is one syllabus section with an ordered list of topics.
type Unit struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Topics []string `json:"topics"`
	Order  int      `json:"order"`
}

// Outline is the full ordered set of units parsed from one syllabus
// submission. It is immutable after parsing; a re-upload produces a new
// outline.
type Outline struct {
	Units []Unit `json:"units"`
}

// Len returns the number of units in the outline.
func (o Outline) Len() int {
	return len(o.Units)
}

// Validate checks the outline invariants: at least one unit, every unit has a
// title and at least one topic, and Order values are contiguous from 1.
func (o Outline) Validate() error {
	if len(o.Units) == 0 {
		return fmt.Errorf("outline has no units")
	}
	for i, u := range o.Units {
		if u.ID == "" || u.Title == "" {
			return fmt.Errorf("unit %d: missing id or title", i+1)
		}
		if len(u.Topics) == 0 {
			return fmt.Errorf("unit %q: no topics", u.Title)
		}
		if u.Order != i+1 {
			return fmt.Errorf("unit %q: order %d, want %d", u.Title, u.Order, i+1)
		}
	}
	return nil
}

// unitID formats the stable identifier for a unit at the given order.
func unitID(order int) string {
	return fmt.Sprintf("unit_%d", order)
}
