// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-agent/internal/inference/inferencetest"
	"github.com/pdiddy/research-agent/pkg/types"
)

func TestNotes(t *testing.T) {
	stub := &inferencetest.Scripted{Rules: []inferencetest.Rule{
		{Match: "document analysis", UserMatch: "Document: broken.pdf", Err: errors.New("bad request")},
		{Match: "document analysis", Reply: `{"summary": "EV sales doubled.", "key_points": ["a", "b", "c", "d"], "business_insights": ["expand"], "entities": ["Tesla"], "relevance_score": 1.7}`},
	}}
	docs := []types.StoredDocument{
		{Key: "ev.md", Name: "ev.md", Text: "EV report"},
		{Key: "broken.pdf", Name: "broken.pdf", Text: "???"},
	}
	notes := New(stub, nil).Notes(context.Background(), "EV market", docs)
	require.Len(t, notes, 2)

	assert.Equal(t, "ev.md", notes[0].Key)
	assert.Equal(t, "EV sales doubled.", notes[0].Summary)
	assert.Equal(t, []string{"Tesla"}, notes[0].Entities)
	assert.Equal(t, 1.0, notes[0].RelevanceScore)

	assert.Equal(t, "broken.pdf", notes[1].Key)
	assert.Equal(t, FailedDescription, notes[1].Summary)
	assert.Zero(t, notes[1].RelevanceScore)
}

func TestNotesSummary(t *testing.T) {
	assert.Equal(t, "", NotesSummary(nil))

	got := NotesSummary([]types.DocumentNote{
		{Name: "ev.md", Summary: "EV sales doubled.", KeyPoints: []string{"a", "b", "c", "d"}, BusinessInsights: []string{"expand"}},
		{Name: "broken.pdf", Summary: FailedDescription},
	})
	want := "Document 1: ev.md\n" +
		"  Summary: EV sales doubled.\n" +
		"  Key Points: a, b, c\n" +
		"  Business Insights: expand\n" +
		"\n" +
		"Document 2: broken.pdf\n" +
		"  Summary: Analysis failed"
	assert.Equal(t, want, got)
}

func TestSynthesize(t *testing.T) {
	q := types.ResearchQuery{Original: "Best Python web frameworks", Category: types.CategoryDeveloperTools}
	records := []types.EntityRecord{{Name: "Django", Fields: []types.Field{{Key: "pricing_model", Value: "Free"}}}}

	t.Run("success", func(t *testing.T) {
		stub := &inferencetest.Scripted{Default: "  Use FastAPI.  "}
		got := New(stub, nil).Synthesize(context.Background(), q, records, nil, "Document 1: notes.md")
		assert.Equal(t, "Use FastAPI.", got)

		call := stub.Calls()[0]
		assert.Contains(t, call.System, "senior software engineer")
		assert.Contains(t, call.User, "Developer Query: Best Python web frameworks")
		assert.Contains(t, call.User, `"name":"Django"`)
		assert.Contains(t, call.User, "Document Insights:\nDocument 1: notes.md")
	})

	t.Run("no notes omits the section", func(t *testing.T) {
		stub := &inferencetest.Scripted{Default: "ok"}
		New(stub, nil).Synthesize(context.Background(), q, nil, nil, "")
		assert.NotContains(t, stub.Calls()[0].User, "Document Insights")
	})

	t.Run("failure", func(t *testing.T) {
		stub := &inferencetest.Scripted{DefaultErr: errors.New("down")}
		assert.Equal(t, FailedSynthesis, New(stub, nil).Synthesize(context.Background(), q, records, nil, ""))
	})

	t.Run("blank reply", func(t *testing.T) {
		stub := &inferencetest.Scripted{Default: "   "}
		assert.Equal(t, FailedSynthesis, New(stub, nil).Synthesize(context.Background(), q, records, nil, ""))
	})

	t.Run("every category has guidance", func(t *testing.T) {
		for _, c := range types.Categories {
			_, ok := synthesisGuidance[c]
			assert.True(t, ok, c)
		}
	})
}
