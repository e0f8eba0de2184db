// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "documents.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_PutGetList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, Document{
		Key: "reports/q3.md", Name: "Q3", Text: "revenue up",
		ContentType: "text/markdown", Metadata: map[string]string{"owner": "finance"},
	}))
	require.NoError(t, s.Put(ctx, Document{Key: "a.txt", Name: "a.txt", Text: "alpha"}))

	doc, err := s.Get(ctx, "reports/q3.md")
	require.NoError(t, err)
	assert.Equal(t, "Q3", doc.Name)
	assert.Equal(t, "revenue up", doc.Text)

	_, err = s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	infos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "a.txt", infos[0].Key)
	assert.Equal(t, "reports/q3.md", infos[1].Key)
	assert.Equal(t, int64(len("revenue up")), infos[1].Size)
	assert.Equal(t, "finance", infos[1].Metadata["owner"])
	assert.Equal(t, "text/markdown", infos[1].Metadata["content_type"])

	require.NoError(t, s.Put(ctx, Document{Key: "a.txt", Name: "a.txt", Text: "alpha v2"}))
	doc, err = s.Get(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha v2", doc.Text)

	docs, err := s.GetMany(ctx, []string{"reports/q3.md", "ghost", "a.txt"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "reports/q3.md", docs[0].Key)

	assert.Error(t, s.Put(ctx, Document{}))
}

func TestSQLiteStore_Ingest(t *testing.T) {
	src := t.TempDir()
	writeDoc(t, src, "notes.md", "---\ntitle: Notes\n---\nbody text")
	writeDoc(t, src, "sub/plain.txt", "plain")
	writeDoc(t, src, "paper.pdf", "%PDF")
	writeDoc(t, src, "skip.png", "png")

	s := openTestStore(t)
	ctx := context.Background()
	var out bytes.Buffer

	summary, err := s.Ingest(ctx, src, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Indexed: 2, Skipped: 1}, summary)
	assert.Contains(t, out.String(), "no PDF converter")

	doc, err := s.Get(ctx, "notes.md")
	require.NoError(t, err)
	assert.Equal(t, "Notes", doc.Name)
	assert.Equal(t, "body text", doc.Text)

	t.Run("unchanged files are skipped", func(t *testing.T) {
		summary, err := s.Ingest(ctx, src, nil, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, 0, summary.Indexed)
		assert.Equal(t, 3, summary.Skipped)
	})

	t.Run("modified file is updated and PDF converted", func(t *testing.T) {
		path := writeDoc(t, src, "sub/plain.txt", "plain v2")
		later := time.Now().Add(time.Hour)
		require.NoError(t, os.Chtimes(path, later, later))

		summary, err := s.Ingest(ctx, src, &fakeConverter{text: "pdf body"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, IngestSummary{Indexed: 1, Updated: 1, Skipped: 1}, summary)
		assert.Equal(t, 3, summary.Total())

		doc, err := s.Get(ctx, "sub/plain.txt")
		require.NoError(t, err)
		assert.Equal(t, "plain v2", doc.Text)
		doc, err = s.Get(ctx, "paper.pdf")
		require.NoError(t, err)
		assert.Equal(t, "pdf body", doc.Text)
	})

	t.Run("conversion failure is counted", func(t *testing.T) {
		fresh := openTestStore(t)
		summary, err := fresh.Ingest(ctx, src, &fakeConverter{err: errors.New("bad pdf")}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, 2, summary.Indexed)
	})
}
