package services

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// scoreSchemaJSON describes the only part of the model output we verify:
// an object whose score is a number in [0, 100].
const scoreSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["score"],
  "properties": {
    "score": {"type": "number", "minimum": 0, "maximum": 100}
  }
}`

var scoreSchema = mustCompileScoreSchema()

func mustCompileScoreSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(scoreSchemaJSON))
	if err != nil {
		panic(fmt.Sprintf("score schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("score.json", doc); err != nil {
		panic(fmt.Sprintf("score schema: %v", err))
	}
	schema, err := compiler.Compile("score.json")
	if err != nil {
		panic(fmt.Sprintf("score schema: %v", err))
	}
	return schema
}

// checkScore reports whether text is a JSON object carrying a valid score.
// text must already be known to be valid JSON.
func checkScore(text string) error {
	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(text))
	if err != nil {
		return err
	}
	return scoreSchema.Validate(inst)
}
