package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RefKind discriminates the two states of a Ref.
type RefKind string

const (
	RefKindID       RefKind = "id"
	RefKindResolved RefKind = "resolved"
)

// Identifiable is implemented by records that can be referenced by ID.
type Identifiable interface {
	RefID() string
}

// Ref points at another record either by ID or as the populated record.
// On the wire it is a bare JSON string or the full object.
type Ref[T Identifiable] struct {
	Kind  RefKind
	ID    string
	Value *T
}

// RefByID builds an unresolved reference.
func RefByID[T Identifiable](id string) Ref[T] {
	return Ref[T]{Kind: RefKindID, ID: id}
}

// Resolved builds a populated reference.
func Resolved[T Identifiable](value T) Ref[T] {
	return Ref[T]{Kind: RefKindResolved, ID: value.RefID(), Value: &value}
}

// IsZero reports whether the reference is unset.
func (r Ref[T]) IsZero() bool {
	return r.Kind == "" && r.ID == ""
}

// Identifier returns the referenced ID for both states.
func (r Ref[T]) Identifier() string {
	if r.Kind == RefKindResolved && r.Value != nil {
		return (*r.Value).RefID()
	}
	return r.ID
}

// Resolve returns the populated record, if any.
func (r Ref[T]) Resolve() (T, bool) {
	if r.Kind == RefKindResolved && r.Value != nil {
		return *r.Value, true
	}
	var zero T
	return zero, false
}

// MarshalJSON implements json.Marshaler.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RefKindResolved:
		if r.Value == nil {
			return []byte("null"), nil
		}
		return json.Marshal(r.Value)
	case RefKindID:
		return json.Marshal(r.ID)
	default:
		if r.ID == "" {
			return []byte("null"), nil
		}
		return json.Marshal(r.ID)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}
	switch data[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = RefByID[T](id)
		return nil
	case '{':
		var value T
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*r = Resolved(value)
		return nil
	default:
		return fmt.Errorf("reference must be a string or an object")
	}
}
