// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paperfetch/pkg/types"
)

const dbFile = "papers.db"

// ErrNotFound is returned by SQLiteSink.Get for an unknown id.
var ErrNotFound = errors.New("paper not found")

// SQLiteSink upserts every paper into a papers table keyed by arxiv_id.
type SQLiteSink struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteSink opens or creates <dir>/papers.db.
func NewSQLiteSink(dir string) (*SQLiteSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating metadata directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s, err := newSQLiteSink(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func newSQLiteSink(db *sql.DB) (*SQLiteSink, error) {
	s := &SQLiteSink{db: db, now: time.Now}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS papers (
		arxiv_id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		authors TEXT NOT NULL,
		doi TEXT,
		description TEXT,
		pdf_path TEXT NOT NULL,
		fetched_at TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Write inserts paper or replaces the row with the same arxiv_id.
func (s *SQLiteSink) Write(ctx context.Context, paper types.Paper) error {
	authors, err := json.Marshal(paper.Authors)
	if err != nil {
		return fmt.Errorf("encoding authors: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO papers
		(arxiv_id, title, authors, doi, description, pdf_path, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(arxiv_id) DO UPDATE SET
			title = excluded.title,
			authors = excluded.authors,
			doi = excluded.doi,
			description = excluded.description,
			pdf_path = excluded.pdf_path,
			fetched_at = excluded.fetched_at`,
		paper.ArxivID, paper.Title, string(authors), paper.DOI, paper.Description,
		paper.PDF.Path, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upserting paper %s: %w", paper.ArxivID, err)
	}
	return nil
}

// Get returns the stored paper for arxivID.
func (s *SQLiteSink) Get(ctx context.Context, arxivID string) (types.Paper, error) {
	var (
		p       types.Paper
		authors string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT arxiv_id, title, authors, doi, description, pdf_path FROM papers WHERE arxiv_id = ?`,
		arxivID,
	).Scan(&p.ArxivID, &p.Title, &authors, &p.DOI, &p.Description, &p.PDF.Path)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Paper{}, fmt.Errorf("%w: %s", ErrNotFound, arxivID)
	}
	if err != nil {
		return types.Paper{}, fmt.Errorf("querying paper %s: %w", arxivID, err)
	}
	if err := json.Unmarshal([]byte(authors), &p.Authors); err != nil {
		return types.Paper{}, fmt.Errorf("decoding authors for %s: %w", arxivID, err)
	}
	return p, nil
}

// Count returns the number of stored papers.
func (s *SQLiteSink) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

// Close releases the database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
