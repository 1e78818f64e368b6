// Package blueprint loads reusable question-paper generation presets from
// YAML files, so common exam formats (internal assessment, end-semester)
// don't have to be respecified on every request.
package blueprint

import (
	"fmt"

	"github.com/examforge/examforge/internal/paper"
)

// Blueprint is one named generation preset loaded from YAML.
type Blueprint struct {
	ID          string           `yaml:"id" json:"id"`
	Name        string           `yaml:"name" json:"name"`
	Description string           `yaml:"description,omitempty" json:"description,omitempty"`
	TotalMarks  int              `yaml:"total_marks" json:"total_marks"`
	Items       []paper.RuleItem `yaml:"items" json:"items"`
}

// Rules converts the blueprint into a generation rule set.
func (b Blueprint) Rules() paper.Rules {
	return paper.Rules{
		Items:            b.Items,
		TotalMarks:       b.TotalMarks,
		IncludeAnswerKey: true,
	}
}

// Validate checks the blueprint is usable as a generation specification.
func (b Blueprint) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("blueprint id is required")
	}
	if b.Name == "" {
		return fmt.Errorf("blueprint %q: name is required", b.ID)
	}
	if len(b.Items) == 0 {
		return fmt.Errorf("blueprint %q: no items", b.ID)
	}
	for i, item := range b.Items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("blueprint %q item %d: %w", b.ID, i+1, err)
		}
	}
	return nil
}
