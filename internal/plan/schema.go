package plan

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed response.schema.json
var responseSchemaJSON string

var (
	responseSchemaOnce sync.Once
	responseSchema     *jsonschema.Schema
	responseSchemaErr  error
)

func compiledResponseSchema() (*jsonschema.Schema, error) {
	responseSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("response.schema.json", strings.NewReader(responseSchemaJSON)); err != nil {
			responseSchemaErr = err
			return
		}
		responseSchema, responseSchemaErr = compiler.Compile("response.schema.json")
	})
	return responseSchema, responseSchemaErr
}

// ValidateJSON checks raw model output against the response schema:
// required fields, risk enum, numeric ranges and time formats.
// Cross-field invariants the schema cannot express are the job of
// Validate.
func ValidateJSON(raw []byte) error {
	schema, err := compiledResponseSchema()
	if err != nil {
		return fmt.Errorf("failed to compile response schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decode model output: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("response schema validation failed: %w", err)
	}
	return nil
}
