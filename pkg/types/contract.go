// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "sort"

// FieldType is the semantic type a stage declares for a Record field.
type FieldType string

const (
	FieldString     FieldType = "string"
	FieldStringList FieldType = "string_list"
	FieldFile       FieldType = "file"
)

// Kind returns the Value variant that carries fields of this type.
func (t FieldType) Kind() ValueKind {
	switch t {
	case FieldString:
		return KindString
	case FieldStringList:
		return KindStringList
	case FieldFile:
		return KindFile
	default:
		return KindInvalid
	}
}

// StageContract declares the fields a stage reads and writes. It is
// consumed by the pipeline when stages are assembled; stages do not check
// values against it at run time.
type StageContract struct {
	// Name identifies the stage in logs and validation errors.
	Name string `json:"name" yaml:"name"`

	// Inputs maps field names the stage reads to their expected type.
	Inputs map[string]FieldType `json:"inputs" yaml:"inputs"`

	// Outputs maps field names the stage writes to their produced type.
	Outputs map[string]FieldType `json:"outputs" yaml:"outputs"`
}

// InputNames returns the input field names in sorted order.
func (c StageContract) InputNames() []string {
	return sortedKeys(c.Inputs)
}

// OutputNames returns the output field names in sorted order.
func (c StageContract) OutputNames() []string {
	return sortedKeys(c.Outputs)
}

// Produces reports whether the stage writes name.
func (c StageContract) Produces(name string) bool {
	_, ok := c.Outputs[name]
	return ok
}

func sortedKeys(m map[string]FieldType) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
