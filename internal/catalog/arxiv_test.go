// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperfetch/internal/httputil"
	"github.com/pdiddy/paperfetch/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

// sampleFeed is an id_list response; %s is replaced with the server URL so
// the pdf link points back at the test server.
const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"
      xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/"
      xmlns:arxiv="http://arxiv.org/schemas/atom">
  <opensearch:totalResults>1</opensearch:totalResults>
  <entry>
    <id>http://arxiv.org/abs/2106.12345v1</id>
    <updated>2021-06-24T10:00:00Z</updated>
    <published>2021-06-23T17:59:59Z</published>
    <title>Example Paper</title>
    <summary>  Line one.
Line two.
</summary>
    <author><name>Alice Smith</name><arxiv:affiliation>MIT</arxiv:affiliation></author>
    <author><name>Bob Lee</name></author>
    <arxiv:comment>12 pages</arxiv:comment>
    <link href="http://arxiv.org/abs/2106.12345v1" rel="alternate" type="text/html"/>
    <link title="pdf" href="%s/pdf/2106.12345v1" rel="related" type="application/pdf"/>
    <arxiv:primary_category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
    <category term="stat.ML" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
</feed>`

const sampleFeedWithDOI = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/hep-th/9901001v2</id>
    <title>Old Style: Strings &amp; Branes</title>
    <summary>Abstract.</summary>
    <author><name>Carol White</name></author>
    <arxiv:doi>10.1000/xyz123</arxiv:doi>
    <arxiv:journal_ref>Phys. Rev. D 1 (1999)</arxiv:journal_ref>
  </entry>
</feed>`

const emptyFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query: id_list=9999.99999</title>
</feed>`

const errorFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/api/errors#incorrect_id_format_for_bogus</id>
    <title>Error</title>
    <summary>incorrect id format for bogus</summary>
  </entry>
</feed>`

const fakePDFContent = "%PDF-1.4 fake"

type testServer struct {
	*httptest.Server
	feed      string
	apiCalls  atomic.Int32
	pdfCalls  atomic.Int32
	pdfStatus int
	lastQuery atomic.Value
}

func newTestServer(t *testing.T, feed string) *testServer {
	t.Helper()
	s := &testServer{feed: feed, pdfStatus: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/query":
			s.apiCalls.Add(1)
			s.lastQuery.Store(r.URL.RawQuery)
			w.Header().Set("Content-Type", "application/atom+xml")
			if strings.Contains(s.feed, "%s") {
				fmt.Fprintf(w, s.feed, s.URL)
				return
			}
			fmt.Fprint(w, s.feed)
		case strings.HasPrefix(r.URL.Path, "/pdf/"):
			s.pdfCalls.Add(1)
			if s.pdfStatus != http.StatusOK {
				w.WriteHeader(s.pdfStatus)
				return
			}
			w.Header().Set("Content-Type", "application/pdf")
			fmt.Fprint(w, fakePDFContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.Close)

	origAPI, origPDF := arxivAPIBase, arxivPDFBase
	arxivAPIBase = s.URL + "/api/query"
	arxivPDFBase = s.URL + "/pdf/"
	t.Cleanup(func() {
		arxivAPIBase, arxivPDFBase = origAPI, origPDF
	})
	return s
}

func testCatalog(s *testServer) *Arxiv {
	return NewArxiv(s.Client(), types.HTTPConfig{
		Timeout:    5 * time.Second,
		UserAgent:  "paperfetch-test/0.1",
		MaxRetries: 1,
	}, nil)
}

func TestArxivSearch(t *testing.T) {
	s := newTestServer(t, sampleFeed)
	a := testCatalog(s)

	entries, err := a.Search(context.Background(), []string{"2106.12345"})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "http://arxiv.org/abs/2106.12345v1", e.EntryID)
	assert.Equal(t, "2106.12345v1", e.ShortID())
	assert.Equal(t, "Example Paper", e.Title)
	assert.Equal(t, "Line one.\nLine two.", e.Summary)
	assert.Equal(t, []Author{{Name: "Alice Smith", Affiliation: "MIT"}, {Name: "Bob Lee"}}, e.Authors)
	assert.Empty(t, e.DOI)
	assert.Equal(t, s.URL+"/pdf/2106.12345v1", e.PDFURL)
	assert.Equal(t, "cs.LG", e.PrimaryCategory)
	assert.Equal(t, []string{"cs.LG", "stat.ML"}, e.Categories)
	assert.Equal(t, "12 pages", e.Comment)
	assert.Equal(t, time.Date(2021, 6, 23, 17, 59, 59, 0, time.UTC), e.Published)

	q, _ := s.lastQuery.Load().(string)
	assert.Contains(t, q, "id_list=2106.12345")
	assert.Contains(t, q, "max_results=1")
}

func TestArxivSearchNormalizesSpelling(t *testing.T) {
	for _, id := range []string{"arXiv:2106.12345", "https://arxiv.org/abs/2106.12345", " 2106.12345 "} {
		t.Run(id, func(t *testing.T) {
			s := newTestServer(t, sampleFeed)

			entries, err := testCatalog(s).Search(context.Background(), []string{id})
			require.NoError(t, err)
			require.Len(t, entries, 1)

			q, _ := s.lastQuery.Load().(string)
			assert.Contains(t, q, "id_list=2106.12345&")
		})
	}
}

func TestArxivSearchDOIAndJournalRef(t *testing.T) {
	s := newTestServer(t, sampleFeedWithDOI)

	entries, err := testCatalog(s).Search(context.Background(), []string{"hep-th/9901001"})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "10.1000/xyz123", entries[0].DOI)
	assert.Equal(t, "Phys. Rev. D 1 (1999)", entries[0].JournalRef)
	assert.Equal(t, "hep-th/9901001v2", entries[0].ShortID())
	assert.Empty(t, entries[0].PDFURL)
}

func TestArxivSearchUnknownID(t *testing.T) {
	s := newTestServer(t, emptyFeed)

	entries, err := testCatalog(s).Search(context.Background(), []string{"9999.99999"})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestArxivSearchErrorFeed(t *testing.T) {
	s := newTestServer(t, errorFeed)

	_, err := testCatalog(s).Search(context.Background(), []string{"bogus"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLookup)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "incorrect id format for bogus", apiErr.Message)

	q, _ := s.lastQuery.Load().(string)
	assert.Contains(t, q, "id_list=bogus")
}

func TestArxivSearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	orig := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = orig }()

	a := NewArxiv(ts.Client(), types.HTTPConfig{UserAgent: "test"}, nil)
	_, err := a.Search(context.Background(), []string{"2106.12345"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLookup)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestArxivSearchMalformedXML(t *testing.T) {
	s := newTestServer(t, "<feed><entry>")

	_, err := testCatalog(s).Search(context.Background(), []string{"2106.12345"})
	assert.ErrorIs(t, err, ErrLookup)
}

func TestArxivSearchNoIDs(t *testing.T) {
	s := newTestServer(t, sampleFeed)

	entries, err := testCatalog(s).Search(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, int32(0), s.apiCalls.Load())
}

func TestArxivDownload(t *testing.T) {
	s := newTestServer(t, sampleFeed)
	a := testCatalog(s)
	dir := filepath.Join(t.TempDir(), "pdf")

	entries, err := a.Search(context.Background(), []string{"2106.12345"})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	path, err := a.Download(context.Background(), entries[0], dir)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, "2106.12345v1.Example_Paper.pdf", filepath.Base(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fakePDFContent, string(data))

	// A second download overwrites in place and leaves no temp files.
	_, err = a.Download(context.Background(), entries[0], dir)
	require.NoError(t, err)
	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, int32(2), s.pdfCalls.Load())
}

func TestArxivDownloadFallbackURL(t *testing.T) {
	s := newTestServer(t, sampleFeed)
	entry := Entry{EntryID: "http://arxiv.org/abs/hep-th/9901001v2", Title: "Old"}

	path, err := testCatalog(s).Download(context.Background(), entry, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "hep-th_9901001v2.Old.pdf", filepath.Base(path))
}

func TestArxivDownloadFailure(t *testing.T) {
	s := newTestServer(t, sampleFeed)
	s.pdfStatus = http.StatusNotFound
	dir := t.TempDir()

	entry := Entry{EntryID: "http://arxiv.org/abs/2106.12345v1", Title: "Example Paper"}
	_, err := testCatalog(s).Download(context.Background(), entry, dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownload)

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDefaultFilename(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{"simple", Entry{EntryID: "http://arxiv.org/abs/2106.12345v1", Title: "Example Paper"}, "2106.12345v1.Example_Paper.pdf"},
		{"punctuation", Entry{EntryID: "http://arxiv.org/abs/2301.07041v2", Title: "A: B-C (D)?"}, "2301.07041v2.A__B_C__D__.pdf"},
		{"old style id", Entry{EntryID: "http://arxiv.org/abs/math/0211159v1", Title: "Ricci"}, "math_0211159v1.Ricci.pdf"},
		{"empty title", Entry{EntryID: "http://arxiv.org/abs/2106.12345v1"}, "2106.12345v1.UNTITLED.pdf"},
		{"unicode letters kept", Entry{EntryID: "http://arxiv.org/abs/2001.00001v1", Title: "Schrödinger"}, "2001.00001v1.Schrödinger.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultFilename(tt.entry))
		})
	}
}
