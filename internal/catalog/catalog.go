// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog looks up papers in a remote catalog and downloads their
// primary documents. Arxiv is the production implementation.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Catalog resolves identifiers to entries and materializes entry files.
type Catalog interface {
	// Search returns the entries matching ids. Unknown ids yield no entry;
	// an empty result is not an error.
	Search(ctx context.Context, ids []string) ([]Entry, error)

	// Download writes the entry's primary document into dir and returns
	// the path of the written file. An existing file is overwritten.
	Download(ctx context.Context, entry Entry, dir string) (string, error)
}

// Author is one entry author as reported by the catalog.
type Author struct {
	Name        string
	Affiliation string
}

// Entry is a catalog record for one paper.
type Entry struct {
	// EntryID is the canonical id, e.g. "http://arxiv.org/abs/2106.12345v1".
	EntryID         string
	Title           string
	Summary         string
	Authors         []Author
	DOI             string
	PDFURL          string
	Published       time.Time
	Updated         time.Time
	PrimaryCategory string
	Categories      []string
	Comment         string
	JournalRef      string
}

// ShortID returns the id portion of EntryID after "arxiv.org/abs/"
// (e.g. "2106.12345v1" or "hep-th/9901001v2"). It returns EntryID unchanged
// when the marker is absent.
func (e Entry) ShortID() string {
	const marker = "arxiv.org/abs/"
	if i := strings.LastIndex(e.EntryID, marker); i >= 0 {
		return e.EntryID[i+len(marker):]
	}
	return e.EntryID
}

// ErrLookup marks a failed catalog query: transport failure, bad status,
// an unparseable response, or an error reported by the catalog itself.
var ErrLookup = errors.New("catalog lookup failed")

// ErrDownload marks a failed file download.
var ErrDownload = errors.New("catalog download failed")

// APIError is an error the catalog reported in its response body, such as
// a malformed identifier.
type APIError struct {
	ID      string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog error %s: %s", e.ID, e.Message)
}

// Is lets errors.Is match ErrLookup.
func (e *APIError) Is(target error) bool { return target == ErrLookup }
