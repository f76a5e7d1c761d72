// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperfetch/pkg/types"
)

// YAMLSink writes <dir>/<pdf stem>.yaml for every paper.
type YAMLSink struct {
	dir string
}

// NewYAMLSink creates dir if needed.
func NewYAMLSink(dir string) (*YAMLSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating metadata directory %s: %w", dir, err)
	}
	return &YAMLSink{dir: dir}, nil
}

// Path returns where paper's sidecar is written.
func (s *YAMLSink) Path(paper types.Paper) string {
	return filepath.Join(s.dir, stem(paper)+".yaml")
}

// Write marshals paper to its sidecar, replacing any previous one.
func (s *YAMLSink) Write(_ context.Context, paper types.Paper) error {
	data, err := yaml.Marshal(paper)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(s.Path(paper), data, 0o644)
}

// Read loads a sidecar written by Write.
func (s *YAMLSink) Read(path string) (types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Paper{}, err
	}
	var paper types.Paper
	if err := yaml.Unmarshal(data, &paper); err != nil {
		return types.Paper{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return paper, nil
}

// Close is a no-op.
func (s *YAMLSink) Close() error { return nil }
