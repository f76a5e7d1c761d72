// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paperfetch pipeline:
// the Record passed between stages, the values it holds, stage contracts,
// and per-stage configuration.
package types

import (
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindInvalid ValueKind = iota
	KindString
	KindStringList
	KindFile
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindStringList:
		return "string_list"
	case KindFile:
		return "file"
	default:
		return "invalid"
	}
}

// FileReference points at a file materialized on local storage.
type FileReference struct {
	// Path is the resolved filesystem path of the file.
	Path string `json:"path" yaml:"path"`
}

// Value is a tagged union over the field types a Record can hold.
// The zero Value is invalid.
type Value struct {
	kind ValueKind
	str  string
	list []string
	file FileReference
}

// StringValue wraps s.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// StringListValue wraps a copy of ss. A nil slice becomes an empty list.
func StringListValue(ss []string) Value {
	list := make([]string, len(ss))
	copy(list, ss)
	return Value{kind: KindStringList, list: list}
}

// FileValue wraps f.
func FileValue(f FileReference) Value {
	return Value{kind: KindFile, file: f}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// AsString returns the string variant.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsStringList returns a copy of the string list variant.
func (v Value) AsStringList() ([]string, bool) {
	if v.kind != KindStringList {
		return nil, false
	}
	list := make([]string, len(v.list))
	copy(list, v.list)
	return list, true
}

// AsFile returns the file reference variant.
func (v Value) AsFile() (FileReference, bool) {
	return v.file, v.kind == KindFile
}

// Interface returns the underlying Go value (string, []string, or
// FileReference), suitable for encoding.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindStringList:
		list, _ := v.AsStringList()
		return list
	case KindFile:
		return v.file
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindStringList:
		return "[" + strings.Join(v.list, ", ") + "]"
	case KindFile:
		return v.file.Path
	default:
		return "<invalid>"
	}
}

// Field is a named value, used when attaching several fields at once.
type Field struct {
	Name  string
	Value Value
}

// Record is the unit of data passed between pipeline stages. Fields keep
// their insertion order; overwriting a field keeps its original position.
// A Record is not safe for concurrent mutation.
type Record struct {
	fields *orderedmap.OrderedMap[string, Value]
}

// NewRecord returns an empty Record.
func NewRecord() *Record {
	return &Record{fields: orderedmap.NewOrderedMap[string, Value]()}
}

// Set stores v under name, replacing any previous value.
func (r *Record) Set(name string, v Value) {
	r.fields.Set(name, v)
}

// Get returns the value stored under name.
func (r *Record) Get(name string) (Value, bool) {
	return r.fields.Get(name)
}

// Has reports whether name is set.
func (r *Record) Has(name string) bool {
	_, ok := r.fields.Get(name)
	return ok
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return r.fields.Len()
}

// Names returns the field names in insertion order.
func (r *Record) Names() []string {
	names := make([]string, 0, r.fields.Len())
	for el := r.fields.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}

// Fields returns the fields in insertion order.
func (r *Record) Fields() []Field {
	fields := make([]Field, 0, r.fields.Len())
	for el := r.fields.Front(); el != nil; el = el.Next() {
		fields = append(fields, Field{Name: el.Key, Value: el.Value})
	}
	return fields
}

// Merge sets every field in order. Callers build the full field list
// before merging so a failed stage never leaves a half-written Record.
func (r *Record) Merge(fields []Field) {
	for _, f := range fields {
		r.fields.Set(f.Name, f.Value)
	}
}

// Clone returns an independent copy of r.
func (r *Record) Clone() *Record {
	c := NewRecord()
	c.Merge(r.Fields())
	return c
}

// StringField returns the string field name. It fails if the field is missing
// or holds another variant.
func (r *Record) StringField(name string) (string, error) {
	v, err := r.lookup(name, KindString)
	if err != nil {
		return "", err
	}
	s, _ := v.AsString()
	return s, nil
}

// StringsField returns the string list field name.
func (r *Record) StringsField(name string) ([]string, error) {
	v, err := r.lookup(name, KindStringList)
	if err != nil {
		return nil, err
	}
	list, _ := v.AsStringList()
	return list, nil
}

// FileField returns the file reference field name.
func (r *Record) FileField(name string) (FileReference, error) {
	v, err := r.lookup(name, KindFile)
	if err != nil {
		return FileReference{}, err
	}
	f, _ := v.AsFile()
	return f, nil
}

func (r *Record) lookup(name string, want ValueKind) (Value, error) {
	v, ok := r.fields.Get(name)
	if !ok {
		return Value{}, fmt.Errorf("field %q not set", name)
	}
	if v.Kind() != want {
		return Value{}, fmt.Errorf("field %q holds %s, want %s", name, v.Kind(), want)
	}
	return v, nil
}

// Map returns the record as a plain map of Go values for encoding.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, r.fields.Len())
	for el := r.fields.Front(); el != nil; el = el.Next() {
		m[el.Key] = el.Value.Interface()
	}
	return m
}
