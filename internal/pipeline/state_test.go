// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/research-agent/pkg/types"
)

func TestStageString(t *testing.T) {
	assert.Equal(t, "start", StageStart.String())
	assert.Equal(t, "documents_selected", StageDocumentsSelected.String())
	assert.Equal(t, "done", StageDone.String())
	assert.Equal(t, "unknown", Stage(42).String())
}

func TestStateApply(t *testing.T) {
	q, _ := types.NewResearchQuery("q")
	s := State{Query: q, Analysis: "keep", Content: types.AcquiredContent{{URL: "a", Text: "x"}}}

	empty := ""
	next := s.apply(Update{NotesSummary: &empty, Entities: []types.CandidateEntity{{Name: "E"}}})
	assert.Equal(t, "keep", next.Analysis, "nil fields leave state unchanged")
	assert.Len(t, next.Content, 1)
	assert.Equal(t, []types.CandidateEntity{{Name: "E"}}, next.Entities)
	assert.Empty(t, s.Entities, "apply does not mutate the receiver")

	text := "done"
	next = next.apply(Update{Analysis: &text})
	assert.Equal(t, "done", next.Analysis)
}

func TestStateResult(t *testing.T) {
	q, _ := types.NewResearchQuery("q")
	q = q.Classified(types.CategoryProduct, "", types.StrategyHints{})
	s := State{
		Query:   q,
		Content: types.AcquiredContent{{URL: "https://a"}, {URL: "https://b"}},
	}
	res := s.Result()
	assert.Equal(t, types.CategoryProduct, res.Category)
	assert.Equal(t, []string{"https://a", "https://b"}, res.Sources)
	assert.NotNil(t, res.Entities)
	assert.Empty(t, res.Entities)
}
