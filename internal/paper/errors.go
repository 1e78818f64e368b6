package paper

import "fmt"

// Stage identifies which pipeline stage raised a structural error.
type Stage string

const (
	StageParse    Stage = "parse"
	StagePlan     Stage = "plan"
	StageGenerate Stage = "generate"
)

// StructuralError is fatal to the current operation: the caller's input is
// structurally unusable (empty outline, empty specification) and must be
// fixed before retrying. It is never raised for provider failures, which are
// absorbed by the orchestrator's retry/fallback machinery.
type StructuralError struct {
	Stage Stage
	Msg   string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Msg)
}
