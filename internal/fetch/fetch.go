// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch resolves a paper identifier against the catalog, downloads
// the paper's PDF, and writes the normalized metadata onto a Record.
//
// The stage has two entry points sharing one routine: Collect starts a
// pipeline from a bare identifier, Process reads the identifier from an
// upstream Record and enriches it in place.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/paperfetch/internal/catalog"
	"github.com/pdiddy/paperfetch/pkg/types"
)

// StageName identifies the fetch stage in contracts and logs.
const StageName = "arxiv_fetch"

// Contract returns the fields the fetch stage reads and writes.
func Contract() types.StageContract {
	return types.StageContract{
		Name: StageName,
		Inputs: map[string]types.FieldType{
			types.FieldArxivID: types.FieldString,
		},
		Outputs: map[string]types.FieldType{
			types.FieldPDF:         types.FieldFile,
			types.FieldTitle:       types.FieldString,
			types.FieldArxivID:     types.FieldString,
			types.FieldAuthors:     types.FieldStringList,
			types.FieldDOI:         types.FieldString,
			types.FieldDescription: types.FieldString,
		},
	}
}

// MetadataWriter persists fetched metadata outside the Record.
type MetadataWriter interface {
	Write(ctx context.Context, paper types.Paper) error
}

// Stage fetches one paper per call. It holds no per-call state and is safe
// for concurrent use.
type Stage struct {
	catalog catalog.Catalog
	cfg     types.FetchConfig
	meta    MetadataWriter
	log     *zap.Logger
}

// Option configures a Stage.
type Option func(*Stage)

// WithLogger sets the stage logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Stage) { s.log = log }
}

// WithMetadataWriter enables sidecar persistence of each fetched paper.
func WithMetadataWriter(w MetadataWriter) Option {
	return func(s *Stage) { s.meta = w }
}

// New returns a fetch stage downloading into cfg.PDFDir.
func New(cat catalog.Catalog, cfg types.FetchConfig, opts ...Option) *Stage {
	s := &Stage{catalog: cat, cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("fetch")
	return s
}

// Contract returns the stage's field contract.
func (s *Stage) Contract() types.StageContract {
	return Contract()
}

// Collect fetches identifier and returns a new Record holding the six
// output fields.
func (s *Stage) Collect(ctx context.Context, identifier string) (*types.Record, error) {
	paper, err := s.Fetch(ctx, identifier)
	if err != nil {
		return nil, err
	}
	rec := types.NewRecord()
	rec.Merge(paper.Fields())
	return rec, nil
}

// Process reads the identifier from rec's arxiv_id field, fetches it, and
// sets the six output fields on rec. Other fields on rec are left alone.
// On error rec is not modified.
func (s *Stage) Process(ctx context.Context, rec *types.Record) (*types.Record, error) {
	if rec == nil {
		return nil, &MissingFieldError{Field: types.FieldArxivID, Err: errors.New("no record")}
	}
	if !rec.Has(types.FieldArxivID) {
		return nil, &MissingFieldError{Field: types.FieldArxivID}
	}
	identifier, err := rec.StringField(types.FieldArxivID)
	if err != nil {
		return nil, &MissingFieldError{Field: types.FieldArxivID, Err: err}
	}

	paper, err := s.Fetch(ctx, identifier)
	if err != nil {
		return nil, err
	}
	rec.Merge(paper.Fields())
	return rec, nil
}

// Fetch looks up identifier, downloads its PDF, and returns the normalized
// paper. All extraction happens before anything is returned, so callers
// either get every field or an error.
func (s *Stage) Fetch(ctx context.Context, identifier string) (types.Paper, error) {
	if strings.TrimSpace(identifier) == "" {
		return types.Paper{}, &IdentifierNotFoundError{Identifier: identifier}
	}

	entries, err := s.catalog.Search(ctx, []string{identifier})
	if err != nil {
		return types.Paper{}, fmt.Errorf("looking up %q: %w", identifier, err)
	}
	if len(entries) == 0 {
		return types.Paper{}, &IdentifierNotFoundError{Identifier: identifier}
	}
	entry := entries[0]

	// Reject unusable metadata before touching the disk.
	paper, err := normalize(identifier, entry)
	if err != nil {
		return types.Paper{}, err
	}

	pdfPath, err := s.catalog.Download(ctx, entry, s.cfg.PDFDir)
	if err != nil {
		return types.Paper{}, &DownloadFailureError{Identifier: identifier, Err: err}
	}
	paper.PDF = types.FileReference{Path: pdfPath}
	s.log.Info("downloaded pdf", zap.String("arxiv_id", identifier), zap.String("path", pdfPath))

	if s.meta != nil {
		if err := s.meta.Write(ctx, paper); err != nil {
			return types.Paper{}, fmt.Errorf("writing metadata for %q: %w", identifier, err)
		}
		s.log.Debug("wrote metadata", zap.String("arxiv_id", identifier))
	}
	return paper, nil
}

// normalize extracts every metadata field from entry. The PDF reference is
// filled in by the caller after the download.
func normalize(identifier string, entry catalog.Entry) (types.Paper, error) {
	if entry.EntryID == "" {
		return types.Paper{}, &MetadataParseError{Identifier: identifier, Field: types.FieldArxivID, Reason: "entry has no id"}
	}
	authors, err := AuthorNames(entry.Authors)
	if err != nil {
		return types.Paper{}, &MetadataParseError{Identifier: identifier, Field: types.FieldAuthors, Reason: err.Error()}
	}
	return types.Paper{
		Title:       entry.Title,
		ArxivID:     entry.EntryID,
		Authors:     authors,
		DOI:         entry.DOI,
		Description: NormalizeSummary(entry.Summary),
	}, nil
}
