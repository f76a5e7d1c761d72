// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paperfetch/internal/httputil"
	"github.com/pdiddy/paperfetch/pkg/types"
)

// Base URLs for the arXiv export API and PDF endpoint. Declared as vars so
// tests can substitute httptest servers.
var (
	arxivAPIBase = "https://export.arxiv.org/api/query"
	arxivPDFBase = "https://arxiv.org/pdf/"
)

// errorIDPrefix marks entries in the arXiv error feed.
const errorIDPrefix = "http://arxiv.org/api/errors"

// Arxiv is a Catalog backed by the arXiv export API.
type Arxiv struct {
	client *http.Client
	cfg    types.HTTPConfig
	log    *zap.Logger
}

// NewArxiv returns an arXiv catalog. A nil log disables logging.
func NewArxiv(client *http.Client, cfg types.HTTPConfig, log *zap.Logger) *Arxiv {
	if log == nil {
		log = zap.NewNop()
	}
	return &Arxiv{client: client, cfg: cfg, log: log.Named("arxiv")}
}

// Search queries the arXiv API with id_list and returns the parsed entries.
func (a *Arxiv) Search(ctx context.Context, ids []string) ([]Entry, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := make([]string, len(ids))
	for i, id := range ids {
		query[i] = canonicalID(id)
	}

	q := url.Values{}
	q.Set("id_list", strings.Join(query, ","))
	q.Set("max_results", strconv.Itoa(len(ids)))
	apiURL := arxivAPIBase + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrLookup, err)
	}
	req.Header.Set("User-Agent", a.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, a.client, req, a.cfg.MaxRetries, a.log)
	if err != nil {
		return nil, fmt.Errorf("%w: arXiv API request: %w", ErrLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: arXiv API returned HTTP %d", ErrLookup, resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("%w: parsing arXiv response: %w", ErrLookup, err)
	}

	var entries []Entry
	for _, raw := range feed.Entries {
		id := strings.TrimSpace(raw.ID)
		if strings.HasPrefix(id, errorIDPrefix) {
			return nil, &APIError{ID: id, Message: strings.TrimSpace(raw.Summary)}
		}
		// arXiv pads id_list responses for unknown ids with empty entries.
		if id == "" {
			continue
		}
		entries = append(entries, raw.toEntry())
	}

	a.log.Debug("search complete", zap.Strings("ids", ids), zap.Int("entries", len(entries)))
	return entries, nil
}

// Download fetches the entry's PDF into dir under DefaultFilename. The body
// is written to a temporary file and renamed into place on success, so a
// failed download never leaves a truncated PDF behind.
func (a *Arxiv) Download(ctx context.Context, entry Entry, dir string) (string, error) {
	pdfURL := entry.PDFURL
	if pdfURL == "" {
		pdfURL = arxivPDFBase + entry.ShortID()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating directory %s: %w", ErrDownload, dir, err)
	}
	destPath, err := filepath.Abs(filepath.Join(dir, DefaultFilename(entry)))
	if err != nil {
		return "", fmt.Errorf("%w: resolving path: %w", ErrDownload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %w", ErrDownload, err)
	}
	req.Header.Set("User-Agent", a.cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, a.client, req, a.cfg.MaxRetries, a.log)
	if err != nil {
		return "", fmt.Errorf("%w: HTTP request: %w", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: HTTP %d from %s", ErrDownload, resp.StatusCode, pdfURL)
	}

	if err := writeAtomic(resp.Body, destPath); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}
	return destPath, nil
}

func writeAtomic(r io.Reader, destPath string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, r)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]`)

// DefaultFilename names a downloaded PDF "<short id>.<title>.pdf", with
// slashes in the id replaced by underscores and every non-word character
// of the title replaced by an underscore. An empty title is written as
// UNTITLED.
func DefaultFilename(e Entry) string {
	id := strings.ReplaceAll(e.ShortID(), "/", "_")
	title := e.Title
	if title == "" {
		title = "UNTITLED"
	}
	title = nonWord.ReplaceAllString(title, "_")
	return id + "." + title + ".pdf"
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID              string          `xml:"id"`
	Title           string          `xml:"title"`
	Summary         string          `xml:"summary"`
	Published       string          `xml:"published"`
	Updated         string          `xml:"updated"`
	Authors         []arxivAuthor   `xml:"author"`
	Links           []arxivLink     `xml:"link"`
	Categories      []arxivCategory `xml:"category"`
	DOI             string          `xml:"http://arxiv.org/schemas/atom doi"`
	Comment         string          `xml:"http://arxiv.org/schemas/atom comment"`
	JournalRef      string          `xml:"http://arxiv.org/schemas/atom journal_ref"`
	PrimaryCategory arxivCategory   `xml:"http://arxiv.org/schemas/atom primary_category"`
}

type arxivAuthor struct {
	Name        string `xml:"name"`
	Affiliation string `xml:"http://arxiv.org/schemas/atom affiliation"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Rel   string `xml:"rel,attr"`
	Type  string `xml:"type,attr"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

func (raw arxivEntry) toEntry() Entry {
	e := Entry{
		EntryID:         strings.TrimSpace(raw.ID),
		Title:           strings.TrimSpace(raw.Title),
		Summary:         strings.TrimSpace(raw.Summary),
		DOI:             strings.TrimSpace(raw.DOI),
		Comment:         strings.TrimSpace(raw.Comment),
		JournalRef:      strings.TrimSpace(raw.JournalRef),
		PrimaryCategory: raw.PrimaryCategory.Term,
	}

	for _, au := range raw.Authors {
		e.Authors = append(e.Authors, Author{
			Name:        au.Name,
			Affiliation: strings.TrimSpace(au.Affiliation),
		})
	}
	for _, l := range raw.Links {
		if l.Title == "pdf" || (e.PDFURL == "" && l.Type == "application/pdf") {
			e.PDFURL = l.Href
		}
	}
	for _, c := range raw.Categories {
		e.Categories = append(e.Categories, c.Term)
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw.Published)); err == nil {
		e.Published = t
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw.Updated)); err == nil {
		e.Updated = t
	}
	return e
}
