package application

import (
	"encoding/json"
	"regexp"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RecordValidator = (*Validator)(nil)

// idPattern constrains dataset ids to lowercase slugs so they are safe as
// directory names, branch name components, and URL fragments.
var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Validator is the default RecordValidator. The full dataset schema lives
// with the external catalog store; this covers the invariants publishing
// itself depends on. All failures are terminal and never queued.
type Validator struct{}

// NewValidator creates the default record validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks id shape, name presence, and payload well-formedness.
func (v *Validator) Validate(record model.DatasetRecord) error {
	if record.ID == "" {
		return model.ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if !idPattern.MatchString(record.ID) {
		return model.ValidationError{Field: "id", Reason: "must be a lowercase slug (letters, digits, hyphens)"}
	}
	if record.Name == "" {
		return model.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(record.Payload, &payload); err != nil {
		return model.ValidationError{Field: "payload", Reason: "must be a JSON object"}
	}
	return nil
}
