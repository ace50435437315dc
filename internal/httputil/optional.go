package httputil

import (
	"bytes"
	"encoding/json"

	"allmanager/internal/domain/models"
)

// Optional tracks presence and value for JSON PATCH semantics (RFC 7396).
// This enables tri-state handling that a plain pointer cannot express:
//   - Present=false: field absent from JSON (don't change)
//   - Present=true, Value=nil: field is JSON null (clear/set to NULL)
//   - Present=true, Value!=nil: field has value
type Optional[T any] struct {
	Present bool
	Value   *T
}

// OptionalString is the common case for text columns.
type OptionalString = Optional[string]

// OptionalInt64 is used for nullable references such as assignees.
type OptionalInt64 = Optional[int64]

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true

	// Check for JSON null
	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Domain converts to the transport-agnostic form used by services.
func (o Optional[T]) Domain() models.Optional[T] {
	return models.Optional[T]{Present: o.Present, Value: o.Value}
}
