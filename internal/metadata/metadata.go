// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata persists fetched paper metadata next to the downloaded
// PDFs. It is optional: the fetch stage only writes sidecars when a sink is
// configured.
package metadata

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paperfetch/pkg/types"
)

// Sink stores one metadata document per fetched paper.
type Sink interface {
	Write(ctx context.Context, paper types.Paper) error
	Close() error
}

// Open returns the sink for format rooted at dir. MetadataNone and the
// empty format return a nil Sink.
func Open(format types.MetadataFormat, dir string) (Sink, error) {
	switch format {
	case types.MetadataNone, "":
		return nil, nil
	case types.MetadataYAML:
		return NewYAMLSink(dir)
	case types.MetadataSQLite:
		return NewSQLiteSink(dir)
	default:
		return nil, fmt.Errorf("unknown metadata format %q (want none, yaml, or sqlite)", format)
	}
}

// stem returns the PDF file name without its .pdf extension, used to pair
// sidecars with their PDF.
func stem(paper types.Paper) string {
	base := filepath.Base(paper.PDF.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
