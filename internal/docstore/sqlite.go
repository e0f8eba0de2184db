// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-agent/pkg/types"
)

// SQLiteStore keeps document text in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and its schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			key TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			body TEXT NOT NULL,
			size INTEGER NOT NULL DEFAULT 0,
			content_type TEXT,
			source_path TEXT,
			source_mod_time TEXT,
			metadata TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_source ON documents(source_path)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Document is a row to store.
type Document struct {
	Key           string
	Name          string
	Text          string
	ContentType   string
	SourcePath    string
	SourceModTime string
	Metadata      map[string]string
}

// Put inserts or replaces a document.
func (s *SQLiteStore) Put(ctx context.Context, doc Document) error {
	if doc.Key == "" {
		return errors.New("document key is empty")
	}
	meta, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (key, name, body, size, content_type, source_path, source_mod_time, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			name=excluded.name, body=excluded.body, size=excluded.size,
			content_type=excluded.content_type, source_path=excluded.source_path,
			source_mod_time=excluded.source_mod_time, metadata=excluded.metadata`,
		doc.Key, doc.Name, doc.Text, len(doc.Text), doc.ContentType,
		doc.SourcePath, doc.SourceModTime, string(meta),
	)
	if err != nil {
		return fmt.Errorf("storing document %s: %w", doc.Key, err)
	}
	return nil
}

// List returns all documents ordered by key.
func (s *SQLiteStore) List(ctx context.Context) ([]types.DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, name, size, content_type, source_mod_time, metadata FROM documents ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var infos []types.DocumentInfo
	for rows.Next() {
		var (
			info     types.DocumentInfo
			ctype    sql.NullString
			modTime  sql.NullString
			metaJSON sql.NullString
		)
		if err := rows.Scan(&info.Key, &info.Name, &info.Size, &ctype, &modTime, &metaJSON); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		info.Metadata = map[string]string{}
		if metaJSON.Valid && metaJSON.String != "" && metaJSON.String != "null" {
			if err := json.Unmarshal([]byte(metaJSON.String), &info.Metadata); err != nil {
				return nil, fmt.Errorf("decoding metadata for %s: %w", info.Key, err)
			}
		}
		if ctype.Valid && ctype.String != "" {
			info.Metadata["content_type"] = ctype.String
		}
		if modTime.Valid && modTime.String != "" {
			info.Metadata["last_modified"] = modTime.String
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Get returns the document stored under key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (types.StoredDocument, error) {
	doc := types.StoredDocument{Key: key}
	err := s.db.QueryRowContext(ctx, `SELECT name, body FROM documents WHERE key = ?`, key).
		Scan(&doc.Name, &doc.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return types.StoredDocument{}, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return types.StoredDocument{}, fmt.Errorf("reading document %s: %w", key, err)
	}
	return doc, nil
}

// GetMany returns the documents for keys in key order, skipping unknown keys.
func (s *SQLiteStore) GetMany(ctx context.Context, keys []string) ([]types.StoredDocument, error) {
	docs := make([]types.StoredDocument, 0, len(keys))
	for _, key := range keys {
		doc, err := s.Get(ctx, key)
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

// IngestSummary holds counts from an ingestion run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest loads every supported file under dir into the store. Files whose
// modification time matches the stored row are skipped. PDFs need conv; when
// conv is nil they are counted as skipped. Progress lines go to w.
func (s *SQLiteStore) Ingest(ctx context.Context, dir string, conv PDFConverter, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || !supportedExt(entry.Name()) {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", key, err)
			summary.Failed++
			return nil
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var stored sql.NullString
		lookupErr := s.db.QueryRowContext(ctx,
			`SELECT source_mod_time FROM documents WHERE key = ?`, key).Scan(&stored)
		if lookupErr == nil && stored.String == modTime {
			fmt.Fprintf(w, "skipped %s\n", key)
			summary.Skipped++
			return nil
		}
		isUpdate := lookupErr == nil

		doc, err := loadFile(ctx, path, conv)
		if errors.Is(err, errNoConverter) {
			fmt.Fprintf(w, "skipped %s: no PDF converter\n", key)
			summary.Skipped++
			return nil
		}
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", key, err)
			summary.Failed++
			return nil
		}
		doc.Key = key
		doc.SourcePath = path
		doc.SourceModTime = modTime

		if err := s.Put(ctx, doc); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", key, err)
			summary.Failed++
			return nil
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s\n", key)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s\n", key)
			summary.Indexed++
		}
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("ingesting %s: %w", dir, err)
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}

var errNoConverter = errors.New("no PDF converter configured")

func loadFile(ctx context.Context, path string, conv PDFConverter) (Document, error) {
	if isPDF(path) {
		if conv == nil {
			return Document{}, errNoConverter
		}
		text, err := conv.Convert(ctx, path)
		if err != nil {
			return Document{}, err
		}
		return Document{Name: filepath.Base(path), Text: text, ContentType: contentType(path)}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	fm, body := splitFrontMatter(data)
	return Document{
		Name:        displayName(fm, path),
		Text:        body,
		ContentType: contentType(path),
		Metadata:    fm.Metadata,
	}, nil
}
