// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/paperfetch/internal/catalog"
)

// NormalizeSummary replaces every newline with a single space. No other
// whitespace is touched, so normalizing twice gives the same result.
func NormalizeSummary(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

// reprPattern matches structured representations such as
// "Author(name='X')" or "arxiv.Result.Author('X')".
var reprPattern = regexp.MustCompile(`^[\w.]+\(.*\)$`)

// AuthorNames returns the bare display name of every author in order.
// Names are trimmed; an empty name, a structured repr string, or embedded
// markup is rejected.
func AuthorNames(authors []catalog.Author) ([]string, error) {
	names := make([]string, 0, len(authors))
	for i, a := range authors {
		name := strings.TrimSpace(a.Name)
		switch {
		case name == "":
			return nil, fmt.Errorf("author %d has an empty name", i)
		case reprPattern.MatchString(name):
			return nil, fmt.Errorf("author %d is a structured value %q, not a name", i, name)
		case strings.ContainsAny(name, "<>"):
			return nil, fmt.Errorf("author %d contains markup: %q", i, name)
		}
		names = append(names, name)
	}
	return names, nil
}
