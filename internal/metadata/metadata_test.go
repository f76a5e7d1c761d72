// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperfetch/pkg/types"
)

func samplePaper(dir string) types.Paper {
	return types.Paper{
		PDF:         types.FileReference{Path: filepath.Join(dir, "2106.12345v1.Example_Paper.pdf")},
		Title:       "Example Paper",
		ArxivID:     "http://arxiv.org/abs/2106.12345v1",
		Authors:     []string{"Alice Smith", "Bob Lee"},
		DOI:         "",
		Description: "Line one. Line two.",
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(types.MetadataNone, dir)
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Open("", dir)
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Open(types.MetadataYAML, filepath.Join(dir, "yaml"))
	require.NoError(t, err)
	assert.IsType(t, &YAMLSink{}, s)
	require.NoError(t, s.Close())

	s, err = Open(types.MetadataSQLite, filepath.Join(dir, "sqlite"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteSink{}, s)
	require.NoError(t, s.Close())

	_, err = Open("xml", dir)
	assert.ErrorContains(t, err, `unknown metadata format "xml"`)
}

func TestYAMLSinkWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "metadata")
	sink, err := NewYAMLSink(dir)
	require.NoError(t, err)

	paper := samplePaper("/papers/pdf")
	require.NoError(t, sink.Write(context.Background(), paper))

	path := sink.Path(paper)
	assert.Equal(t, filepath.Join(dir, "2106.12345v1.Example_Paper.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "arxiv_id: http://arxiv.org/abs/2106.12345v1")
	assert.Contains(t, string(data), "path: /papers/pdf/2106.12345v1.Example_Paper.pdf")

	got, err := sink.Read(path)
	require.NoError(t, err)
	assert.Equal(t, paper, got)
}

func TestYAMLSinkOverwrites(t *testing.T) {
	sink, err := NewYAMLSink(t.TempDir())
	require.NoError(t, err)

	paper := samplePaper("/papers/pdf")
	require.NoError(t, sink.Write(context.Background(), paper))
	paper.Title = "Revised Title"
	require.NoError(t, sink.Write(context.Background(), paper))

	got, err := sink.Read(sink.Path(paper))
	require.NoError(t, err)
	assert.Equal(t, "Revised Title", got.Title)
}

func TestSQLiteSinkUpsert(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewSQLiteSink(dir)
	require.NoError(t, err)
	defer sink.Close()

	ctx := context.Background()
	paper := samplePaper(dir)
	require.NoError(t, sink.Write(ctx, paper))

	got, err := sink.Get(ctx, paper.ArxivID)
	require.NoError(t, err)
	assert.Equal(t, paper, got)

	paper.DOI = "10.1000/xyz123"
	require.NoError(t, sink.Write(ctx, paper))

	n, err := sink.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "re-fetch replaces the row")

	got, err = sink.Get(ctx, paper.ArxivID)
	require.NoError(t, err)
	assert.Equal(t, "10.1000/xyz123", got.DOI)

	_, err = os.Stat(filepath.Join(dir, dbFile))
	assert.NoError(t, err)
}

func TestSQLiteSinkGetUnknown(t *testing.T) {
	sink, err := NewSQLiteSink(t.TempDir())
	require.NoError(t, err)
	defer sink.Close()

	_, err = sink.Get(context.Background(), "http://arxiv.org/abs/9999.99999v1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteSinkSchemaError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS papers").WillReturnError(errors.New("disk I/O error"))

	_, err = newSQLiteSink(db)
	assert.ErrorContains(t, err, "creating schema")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteSinkWriteError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS papers").WillReturnResult(sqlmock.NewResult(0, 0))
	sink, err := newSQLiteSink(db)
	require.NoError(t, err)
	sink.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }

	paper := samplePaper("/papers/pdf")
	mock.ExpectExec("INSERT INTO papers").
		WithArgs(paper.ArxivID, paper.Title, `["Alice Smith","Bob Lee"]`, paper.DOI,
			paper.Description, paper.PDF.Path, "2026-10-18T12:00:00Z").
		WillReturnError(errors.New("database is locked"))

	err = sink.Write(context.Background(), paper)
	assert.ErrorContains(t, err, "database is locked")
	assert.ErrorContains(t, err, "upserting paper")
	assert.NoError(t, mock.ExpectationsWereMet())
}
