// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks. Each typed error below matches
// exactly one of them.
var (
	ErrIdentifierNotFound = errors.New("identifier not found")
	ErrDownloadFailure    = errors.New("download failed")
	ErrMissingField       = errors.New("missing field")
	ErrMetadataParse      = errors.New("metadata parse error")
)

// IdentifierNotFoundError reports that the catalog returned no entry.
type IdentifierNotFoundError struct {
	Identifier string
}

func (e *IdentifierNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrIdentifierNotFound, e.Identifier)
}

func (e *IdentifierNotFoundError) Unwrap() error { return ErrIdentifierNotFound }

// DownloadFailureError reports that the entry's file could not be materialized.
type DownloadFailureError struct {
	Identifier string
	Err        error
}

func (e *DownloadFailureError) Error() string {
	return fmt.Sprintf("%s for %q: %v", ErrDownloadFailure, e.Identifier, e.Err)
}

func (e *DownloadFailureError) Unwrap() []error { return []error{ErrDownloadFailure, e.Err} }

// MissingFieldError reports that an incoming Record lacks a required field.
type MissingFieldError struct {
	Field string
	Err   error
}

func (e *MissingFieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %q: %v", ErrMissingField, e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q", ErrMissingField, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// MetadataParseError reports a catalog entry whose metadata cannot be
// normalized, such as an author name carrying wrapper syntax.
type MetadataParseError struct {
	Identifier string
	Field      string
	Reason     string
}

func (e *MetadataParseError) Error() string {
	return fmt.Sprintf("%s for %q: field %s: %s", ErrMetadataParse, e.Identifier, e.Field, e.Reason)
}

func (e *MetadataParseError) Unwrap() error { return ErrMetadataParse }
