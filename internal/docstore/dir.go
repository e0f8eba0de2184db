// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/research-agent/pkg/types"
)

// DirStore serves documents straight from a directory tree. Keys are slash
// separated paths relative to Root. PDFs are converted on every Get when a
// Converter is set and skipped otherwise.
type DirStore struct {
	Root      string
	Converter PDFConverter
}

// List walks Root and returns every supported file in key order.
func (d *DirStore) List(ctx context.Context) ([]types.DocumentInfo, error) {
	var infos []types.DocumentInfo
	err := filepath.WalkDir(d.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if entry.IsDir() {
			if path != d.Root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".") || !supportedExt(entry.Name()) {
			return nil
		}
		if isPDF(path) && d.Converter == nil {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(d.Root, path)
		if err != nil {
			return err
		}
		infos = append(infos, types.DocumentInfo{
			Key:  filepath.ToSlash(rel),
			Name: entry.Name(),
			Size: info.Size(),
			Metadata: map[string]string{
				"content_type":  contentType(path),
				"last_modified": info.ModTime().UTC().Format("2006-01-02T15:04:05Z"),
			},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", d.Root, err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

// Get reads the document at key.
func (d *DirStore) Get(ctx context.Context, key string) (types.StoredDocument, error) {
	path, err := d.resolve(key)
	if err != nil {
		return types.StoredDocument{}, err
	}

	if isPDF(path) {
		if d.Converter == nil {
			return types.StoredDocument{}, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		if _, err := os.Stat(path); err != nil {
			return types.StoredDocument{}, notFound(key, err)
		}
		text, err := d.Converter.Convert(ctx, path)
		if err != nil {
			return types.StoredDocument{}, fmt.Errorf("converting %s: %w", key, err)
		}
		return types.StoredDocument{Key: key, Name: filepath.Base(path), Text: text}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.StoredDocument{}, notFound(key, err)
	}
	fm, body := splitFrontMatter(data)
	return types.StoredDocument{Key: key, Name: displayName(fm, path), Text: body}, nil
}

// GetMany returns the documents for keys in key order, skipping any that are
// missing. Other read errors abort.
func (d *DirStore) GetMany(ctx context.Context, keys []string) ([]types.StoredDocument, error) {
	docs := make([]types.StoredDocument, 0, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := d.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// resolve maps a key to a path inside Root, rejecting escapes.
func (d *DirStore) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid document key %q: %w", key, ErrNotFound)
	}
	return filepath.Join(d.Root, clean), nil
}

func notFound(key string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return fmt.Errorf("reading %s: %w", key, err)
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
