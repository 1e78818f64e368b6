package paper

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// JSON Schemas for the provider's structured output, one per response shape.
// Option-bearing types must include an option array and a correct answer;
// open-ended types only need the question text.

const choiceSchemaJSON = `{
	"type": "object",
	"required": ["question", "options", "correct_answer"],
	"properties": {
		"question": {"type": "string", "minLength": 1},
		"options": {
			"type": "array",
			"minItems": 2,
			"maxItems": 4,
			"items": {"type": "string", "minLength": 1}
		},
		"correct_answer": {"type": "string", "minLength": 1},
		"explanation": {"type": "string"}
	}
}`

const openSchemaJSON = `{
	"type": "object",
	"required": ["question"],
	"properties": {
		"question": {"type": "string", "minLength": 1},
		"correct_answer": {"type": "string"},
		"explanation": {"type": "string"}
	}
}`

var (
	choiceSchema = mustSchema(choiceSchemaJSON)
	openSchema   = mustSchema(openSchemaJSON)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("paper: invalid embedded schema: %v", err))
	}
	return s
}

// validateDraftSchema checks a decoded-JSON response against the schema for
// the requested question type.
func validateDraftSchema(jsonStr string, qt QuestionType) error {
	schema := openSchema
	if qt.HasOptions() {
		schema = choiceSchema
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(jsonStr))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		errs := result.Errors()
		if len(errs) > 0 {
			return fmt.Errorf("schema violation: %s", errs[0])
		}
		return fmt.Errorf("schema violation")
	}
	return nil
}
