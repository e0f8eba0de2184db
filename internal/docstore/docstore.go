// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docstore provides read access to the user's stored documents
// (reports, notes, converted PDFs) and the relevance filter the pipeline
// uses to pick documents for a query. Two backends exist: a SQLite database
// populated by Ingest, and a plain directory read on demand.
package docstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-agent/internal/rank"
	"github.com/pdiddy/research-agent/pkg/types"
)

// ErrNotFound is returned by Get when no document has the key.
var ErrNotFound = errors.New("document not found")

// Store is the document capability consumed by the pipeline. Stores are
// read-mostly; the pipeline never writes to them.
type Store interface {
	List(ctx context.Context) ([]types.DocumentInfo, error)
	Get(ctx context.Context, key string) (types.StoredDocument, error)
	GetMany(ctx context.Context, keys []string) ([]types.StoredDocument, error)
}

// PDFConverter turns a PDF file into text.
type PDFConverter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// Relevant loads every listed document, ranks it against query and returns
// at most max documents scoring at least minScore. Documents that fail to
// load are skipped.
func Relevant(ctx context.Context, s Store, r rank.Ranker, query string, minScore float64, max int) ([]types.StoredDocument, error) {
	infos, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	keys := make([]string, len(infos))
	for i, info := range infos {
		keys[i] = info.Key
	}
	docs, err := s.GetMany(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("loading documents: %w", err)
	}
	return rank.Top(rank.Rank(r, docs, query, minScore), max), nil
}

// supportedExt reports whether a file extension is readable as a document.
func supportedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown", ".txt", ".pdf":
		return true
	}
	return false
}

func contentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	default:
		return "text/markdown"
	}
}

// frontMatter is the optional YAML header of a markdown document.
type frontMatter struct {
	Title    string            `yaml:"title"`
	Metadata map[string]string `yaml:"metadata"`
}

// splitFrontMatter separates a leading "---" YAML block from the body. A
// malformed header is left in the body.
func splitFrontMatter(data []byte) (frontMatter, string) {
	var fm frontMatter
	text := string(data)
	if !strings.HasPrefix(text, "---\n") {
		return fm, text
	}
	end := strings.Index(text[4:], "\n---")
	if end < 0 {
		return fm, text
	}
	header := text[4 : 4+end]
	if err := yaml.NewDecoder(bytes.NewReader([]byte(header))).Decode(&fm); err != nil {
		return frontMatter{}, text
	}
	body := text[4+end+len("\n---"):]
	return fm, strings.TrimLeft(body, "\r\n")
}

// displayName returns the front matter title or the file name.
func displayName(fm frontMatter, path string) string {
	if fm.Title != "" {
		return fm.Title
	}
	return filepath.Base(path)
}
