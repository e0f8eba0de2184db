// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-agent/internal/inference/inferencetest"
	"github.com/pdiddy/research-agent/pkg/types"
)

var someContent = types.AcquiredContent{
	{URL: "https://a.example", Text: "Django and Flask are popular."},
	{URL: "https://b.example", Text: "FastAPI is fast."},
}

func TestNames(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{name: "trims and drops empty", text: "  Django \n\n Flask\n", limit: 5, want: []string{"Django", "Flask"}},
		{name: "case sensitive dedup", text: "Flask\nflask\nFlask", limit: 5, want: []string{"Flask", "flask"}},
		{name: "list markers", text: "1. Django\n2) Flask\n- FastAPI\n* Pyramid", limit: 5, want: []string{"Django", "Flask", "FastAPI", "Pyramid"}},
		{name: "cap", text: "a\nb\nc\nd\ne", limit: 2, want: []string{"a", "b"}},
		{name: "duplicates do not count toward cap", text: "a\na\na\nb", limit: 2, want: []string{"a", "b"}},
		{name: "empty", text: "", limit: 3, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Names(tt.text, tt.limit))
		})
	}
}

func TestCap(t *testing.T) {
	assert.Equal(t, 2, Cap(types.CategoryMarket))
	assert.Equal(t, 4, Cap(types.CategoryDeveloperTools))
	for _, c := range types.Categories {
		assert.GreaterOrEqual(t, Cap(c), 2, c)
		assert.LessOrEqual(t, Cap(c), 5, c)
		_, ok := instructions[c]
		assert.True(t, ok, "no instruction for %s", c)
	}
}

func TestExtract_RespectsCapForEveryCategory(t *testing.T) {
	var lines []string
	for i := 0; i < 10; i++ {
		lines = append(lines, fmt.Sprintf("Entity %d", i), fmt.Sprintf("Entity %d", i))
	}
	stub := &inferencetest.Scripted{Default: strings.Join(lines, "\n")}
	e := New(stub, nil)

	for _, c := range types.Categories {
		got := e.Extract(context.Background(), c, someContent, "q")
		require.Len(t, got, Cap(c), c)
		seen := map[string]bool{}
		for _, ent := range got {
			assert.False(t, seen[ent.Name], "duplicate %q", ent.Name)
			seen[ent.Name] = true
			assert.Equal(t, "q", ent.Query)
		}
	}
}

func TestExtract_Prompt(t *testing.T) {
	stub := &inferencetest.Scripted{Default: "Django\nFlask"}
	got := New(stub, nil).Extract(context.Background(), types.CategoryDeveloperTools, someContent, "Best Python web frameworks")
	require.Len(t, got, 2)
	assert.Equal(t, "Django", got[0].Name)

	calls := stub.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].System, "tech researcher")
	assert.Contains(t, calls[0].User, "Django and Flask are popular.\n\nFastAPI is fast.")
	assert.Contains(t, calls[0].User, "at most 4 names")
}

func TestExtract_Degrades(t *testing.T) {
	t.Run("empty content skips inference", func(t *testing.T) {
		stub := &inferencetest.Scripted{Default: "X"}
		assert.Nil(t, New(stub, nil).Extract(context.Background(), types.CategoryProduct, nil, "q"))
		assert.Nil(t, New(stub, nil).Extract(context.Background(), types.CategoryProduct, types.AcquiredContent{{URL: "u"}}, "q"))
		assert.Zero(t, stub.CallCount())
	})
	t.Run("inference error", func(t *testing.T) {
		stub := &inferencetest.Scripted{DefaultErr: errors.New("timeout")}
		assert.Nil(t, New(stub, nil).Extract(context.Background(), types.CategoryProduct, someContent, "q"))
	})
	t.Run("blank reply", func(t *testing.T) {
		stub := &inferencetest.Scripted{Default: "\n  \n"}
		assert.Empty(t, New(stub, nil).Extract(context.Background(), types.CategoryProduct, someContent, "q"))
	})
}

func TestFromTitles(t *testing.T) {
	got := FromTitles([]string{"Best Phones 2026", "", "Best Phones 2026", "Phone Review", "Another", "More"}, types.CategoryMarket, "phones")
	require.Len(t, got, 2)
	assert.Equal(t, types.CandidateEntity{Name: "Best Phones 2026", Query: "phones"}, got[0])
	assert.Equal(t, "Phone Review", got[1].Name)
}
