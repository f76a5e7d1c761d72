// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidID marks an identifier that cannot name an arXiv paper.
var ErrInvalidID = errors.New("not an arXiv identifier")

var (
	// newStyleID matches "2106.12345" and "2106.12345v2" (0704 onward).
	newStyleID = regexp.MustCompile(`^\d{4}\.\d{4,5}(?:v\d+)?$`)

	// oldStyleID matches archive-prefixed ids such as "hep-th/9901001v2"
	// and "math.GT/0309136".
	oldStyleID = regexp.MustCompile(`^[a-z]+(?:-[a-z]+)?(?:\.[A-Z]{2})?/\d{7}(?:v\d+)?$`)
)

// ParseID reduces the accepted spellings of an arXiv identifier to the bare
// id the API expects. Accepted forms:
//
//	2106.12345
//	arXiv:2106.12345v1
//	hep-th/9901001
//	https://arxiv.org/abs/2106.12345v1
//	https://arxiv.org/pdf/2106.12345v1.pdf
//
// The version suffix is kept when present.
func ParseID(s string) (string, error) {
	s = strings.TrimSpace(s)

	if u, err := url.Parse(s); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		host := strings.TrimPrefix(u.Host, "www.")
		if host != "arxiv.org" && host != "export.arxiv.org" {
			return "", ErrInvalidID
		}
		p := strings.TrimPrefix(u.Path, "/")
		switch {
		case strings.HasPrefix(p, "abs/"):
			s = strings.TrimPrefix(p, "abs/")
		case strings.HasPrefix(p, "pdf/"):
			s = strings.TrimSuffix(strings.TrimPrefix(p, "pdf/"), ".pdf")
		default:
			return "", ErrInvalidID
		}
	}

	if len(s) > 6 && strings.EqualFold(s[:6], "arxiv:") {
		s = s[6:]
	}

	if newStyleID.MatchString(s) || oldStyleID.MatchString(s) {
		return s, nil
	}
	return "", ErrInvalidID
}

// canonicalID is the id sent to the API: the ParseID form when s is a
// recognized spelling, otherwise s trimmed so arXiv reports on it.
func canonicalID(s string) string {
	if id, err := ParseID(s); err == nil {
		return id
	}
	return strings.TrimSpace(s)
}
