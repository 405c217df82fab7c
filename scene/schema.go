package scene

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/scene.json
var sceneSchema []byte

// Validator validates data against a JSON Schema
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles a validator from schema bytes
func NewValidator(schemaData []byte) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaData))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// MustValidator is NewValidator for schemas compiled into the binary
func MustValidator(schemaData []byte) *Validator {
	v, err := NewValidator(schemaData)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate validates a decoded JSON value against the schema
func (v *Validator) Validate(data interface{}) error {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		var errors []string
		for _, desc := range result.Errors() {
			errors = append(errors, desc.String())
		}
		return fmt.Errorf("validation failed: %v", errors)
	}
	return nil
}

// ValidateBytes validates raw JSON bytes
func (v *Validator) ValidateBytes(data []byte) error {
	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return v.Validate(obj)
}

var sceneValidator = sync.OnceValue(func() *Validator {
	return MustValidator(sceneSchema)
})

// SceneValidator checks JSON scene documents
func SceneValidator() *Validator {
	return sceneValidator()
}
