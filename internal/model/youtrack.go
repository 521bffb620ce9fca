package model

import (
	"bytes"
	"encoding/json"
)

// Issue represents a YouTrack issue as returned by the sprint issues API
type Issue struct {
	IDReadable   string        `json:"idReadable"`
	Summary      string        `json:"summary"`
	Description  string        `json:"description"`
	CustomFields []CustomField `json:"customFields"`
}

// CustomField represents a YouTrack custom field
type CustomField struct {
	Name  string     `json:"name"`
	Value FieldValue `json:"value"`
}

// FieldValueKind discriminates the shapes a custom field value arrives in
type FieldValueKind int

const (
	// ValueAbsent covers null and any shape that carries no usable name
	ValueAbsent FieldValueKind = iota
	// ValueScalar is a plain JSON string
	ValueScalar
	// ValueNamed is an object exposing a "name" sub-field (enum-like fields)
	ValueNamed
)

// FieldValue is a YouTrack custom field value. The API returns either a
// plain string, an object with a "name" sub-field, or null depending on the
// field type, so decoding resolves the shape once into a tagged value.
type FieldValue struct {
	Kind FieldValueKind
	Text string
}

// UnmarshalJSON implements json.Unmarshaler
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = FieldValue{}
		return nil
	}

	switch trimmed[0] {
	case '{':
		var obj struct {
			Name any `json:"name"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		if name, ok := obj.Name.(string); ok {
			*v = FieldValue{Kind: ValueNamed, Text: name}
		} else {
			*v = FieldValue{}
		}
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = FieldValue{Kind: ValueScalar, Text: s}
	default:
		// numbers, booleans and arrays carry no state name
		*v = FieldValue{}
	}
	return nil
}

// Name returns the resolved value text and whether one is present
func (v FieldValue) Name() (string, bool) {
	if v.Kind == ValueAbsent {
		return "", false
	}
	return v.Text, true
}
