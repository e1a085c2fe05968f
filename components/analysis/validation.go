package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema is intentionally coarse: it pins down the envelope the
// renderer relies on (an array of section objects) and leaves everything
// inside a section open. Missing ids or types are a per-node concern, the
// renderer skips those nodes instead of failing the document.
const documentSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"id": {"type": ["string", "number"]},
			"type": {"type": "string"},
			"title": {"type": "string"},
			"description": {"type": "string"},
			"sections": {"type": "array"},
			"items": {"type": "array"}
		}
	}
}`

// DocumentValidator checks raw section documents before they reach the
// renderer, so the view never hands the tree a structurally broken payload.
type DocumentValidator struct {
	once    sync.Once
	schema  *jsonschema.Schema
	initErr error
}

// NewDocumentValidator builds a validator; the schema compiles lazily.
func NewDocumentValidator() *DocumentValidator {
	return &DocumentValidator{}
}

// Validate ensures the raw payload is a well-formed section document.
func (v *DocumentValidator) Validate(data []byte) error {
	v.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("analysis-document.json", strings.NewReader(documentSchema)); err != nil {
			v.initErr = fmt.Errorf("analysis: load document schema: %w", err)
			return
		}
		v.schema, v.initErr = compiler.Compile("analysis-document.json")
	})
	if v.initErr != nil {
		return v.initErr
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("analysis: document is not valid JSON: %w", err)
	}
	if err := v.schema.Validate(payload); err != nil {
		return fmt.Errorf("analysis: document failed validation: %w", err)
	}
	return nil
}
