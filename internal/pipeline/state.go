// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"github.com/pdiddy/research-agent/pkg/types"
)

// Stage is a position in the fixed stage sequence of a run.
type Stage int

const (
	StageStart Stage = iota
	StageClassified
	StageContentAcquired
	StageDocumentsSelected
	StageEntitiesExtracted
	StageDomainAnalyzed
	StageSynthesized
	StageDone
)

var stageNames = [...]string{
	StageStart:             "start",
	StageClassified:        "classified",
	StageContentAcquired:   "content_acquired",
	StageDocumentsSelected: "documents_selected",
	StageEntitiesExtracted: "entities_extracted",
	StageDomainAnalyzed:    "domain_analyzed",
	StageSynthesized:       "synthesized",
	StageDone:              "done",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// State is the data threaded through one run. Stages read it and return an
// Update; only the orchestrator applies updates.
type State struct {
	RunID string
	Stage Stage

	Query         types.ResearchQuery
	Content       types.AcquiredContent
	SearchTitles  []string
	Documents     []types.StoredDocument
	DocumentNotes []types.DocumentNote
	NotesSummary  string
	Entities      []types.CandidateEntity
	Records       []types.EntityRecord
	Insights      *types.MarketInsights
	Analysis      string
}

// Update is a partial state produced by one stage. Nil fields leave the
// state unchanged.
type Update struct {
	Query         *types.ResearchQuery
	Content       types.AcquiredContent
	SearchTitles  []string
	Documents     []types.StoredDocument
	DocumentNotes []types.DocumentNote
	NotesSummary  *string
	Entities      []types.CandidateEntity
	Records       []types.EntityRecord
	Insights      *types.MarketInsights
	Analysis      *string
}

// apply returns a copy of s with u merged in.
func (s State) apply(u Update) State {
	if u.Query != nil {
		s.Query = *u.Query
	}
	if u.Content != nil {
		s.Content = u.Content
	}
	if u.SearchTitles != nil {
		s.SearchTitles = u.SearchTitles
	}
	if u.Documents != nil {
		s.Documents = u.Documents
	}
	if u.DocumentNotes != nil {
		s.DocumentNotes = u.DocumentNotes
	}
	if u.NotesSummary != nil {
		s.NotesSummary = *u.NotesSummary
	}
	if u.Entities != nil {
		s.Entities = u.Entities
	}
	if u.Records != nil {
		s.Records = u.Records
	}
	if u.Insights != nil {
		s.Insights = u.Insights
	}
	if u.Analysis != nil {
		s.Analysis = *u.Analysis
	}
	return s
}

// Result builds the terminal artifact from the current state.
func (s State) Result() types.ResearchResult {
	sources := make([]string, 0, len(s.Content))
	for _, c := range s.Content {
		sources = append(sources, c.URL)
	}
	records := s.Records
	if records == nil {
		records = []types.EntityRecord{}
	}
	return types.ResearchResult{
		Query:         s.Query,
		Category:      s.Query.Category,
		Sources:       sources,
		Entities:      records,
		Insights:      s.Insights,
		DocumentNotes: s.DocumentNotes,
		NotesSummary:  s.NotesSummary,
		Analysis:      s.Analysis,
	}
}

