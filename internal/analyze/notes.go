// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/inference"
	"github.com/pdiddy/research-agent/pkg/types"
)

const (
	notesSystem   = "You are a research analyst specializing in technical and business document analysis. Extract key insights, technical details, and business implications relevant to competitive research and market analysis."
	notesMaxChars = 3000
)

var notesSchema = inference.Schema{
	Name: "document_notes",
	Fields: []inference.SchemaField{
		{Name: "summary", Type: "string", Description: "executive summary in 2-3 sentences"},
		{Name: "key_points", Type: "array", Description: "key technical points"},
		{Name: "business_insights", Type: "array", Description: "business insights"},
		{Name: "entities", Type: "array", Description: "companies, products and technologies mentioned"},
		{Name: "recommendations", Type: "array", Description: "recommendations, if any"},
		{Name: "relevance_score", Type: "number", Description: "0 to 1, how relevant the document is to the query"},
	},
}

type notesReply struct {
	Summary          text `json:"summary"`
	KeyPoints        list `json:"key_points"`
	BusinessInsights list `json:"business_insights"`
	Entities         list `json:"entities"`
	Recommendations  list `json:"recommendations"`
	RelevanceScore   text `json:"relevance_score"`
}

// Notes analyzes each document once, in order. A failed call yields a note
// whose summary is FailedDescription.
func (a *Analyzer) Notes(ctx context.Context, query string, docs []types.StoredDocument) []types.DocumentNote {
	notes := make([]types.DocumentNote, 0, len(docs))
	for _, d := range docs {
		notes = append(notes, a.note(ctx, query, d))
	}
	return notes
}

func (a *Analyzer) note(ctx context.Context, query string, d types.StoredDocument) types.DocumentNote {
	note := types.DocumentNote{Key: d.Key, Name: d.Name}
	prompt := fmt.Sprintf("Research Query: %s\nDocument: %s\nContent: %s\n\nAnalyze this document and provide structured notes focused on: %s\n",
		query, d.Name, Truncate(d.Text, notesMaxChars), query)

	var r notesReply
	if err := a.Backend.InvokeStructured(ctx, notesSystem, prompt, notesSchema, &r); err != nil {
		a.log().Warn("document analysis failed", zap.String("document", d.Key), zap.Error(err))
		note.Summary = FailedDescription
		return note
	}

	note.Summary = string(r.Summary)
	note.KeyPoints = r.KeyPoints
	note.BusinessInsights = r.BusinessInsights
	note.Entities = r.Entities
	note.Recommendations = r.Recommendations
	if s, err := strconv.ParseFloat(string(r.RelevanceScore), 64); err == nil {
		note.RelevanceScore = min(max(s, 0), 1)
	}
	return note
}

// NotesSummary renders notes as numbered "Document i: <name>" blocks. It is
// empty when there are no notes.
func NotesSummary(notes []types.DocumentNote) string {
	if len(notes) == 0 {
		return ""
	}
	var b strings.Builder
	for i, n := range notes {
		fmt.Fprintf(&b, "Document %d: %s\n", i+1, n.Name)
		fmt.Fprintf(&b, "  Summary: %s\n", n.Summary)
		if len(n.KeyPoints) > 0 {
			fmt.Fprintf(&b, "  Key Points: %s\n", strings.Join(firstN(n.KeyPoints, 3), ", "))
		}
		if len(n.BusinessInsights) > 0 {
			fmt.Fprintf(&b, "  Business Insights: %s\n", strings.Join(firstN(n.BusinessInsights, 3), ", "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
