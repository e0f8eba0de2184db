// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline is the research orchestrator. A run classifies the
// query, acquires web content, selects stored documents, extracts candidate
// entities, analyzes them with the variant routed from the category and
// synthesizes a recommendation. Stages run strictly in order; each returns a
// partial Update that the orchestrator merges into the run's State.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/analyze"
	"github.com/pdiddy/research-agent/internal/classify"
	"github.com/pdiddy/research-agent/internal/docstore"
	"github.com/pdiddy/research-agent/internal/extract"
	"github.com/pdiddy/research-agent/internal/inference"
	"github.com/pdiddy/research-agent/internal/logging"
	"github.com/pdiddy/research-agent/internal/provider"
	"github.com/pdiddy/research-agent/internal/rank"
	"github.com/pdiddy/research-agent/pkg/types"
)

const tracerName = "github.com/pdiddy/research-agent/internal/pipeline"

// Deps are the collaborators of an Orchestrator. Store may be nil, in which
// case no documents are ever selected. Ranker defaults to rank.Lexical.
type Deps struct {
	Backend  inference.Backend
	Provider provider.Provider
	Store    docstore.Store
	Ranker   rank.Ranker
	Log      *zap.Logger
}

// Config holds the limits the orchestrator enforces.
type Config struct {
	Orchestrator types.OrchestratorConfig
	Documents    types.DocumentConfig
}

// DefaultConfig returns the limits from types.DefaultPipelineConfig.
func DefaultConfig() Config {
	d := types.DefaultPipelineConfig()
	return Config{Orchestrator: d.Orchestrator, Documents: d.Documents}
}

// Orchestrator runs research queries. It holds no per-run state and is safe
// for concurrent use when its collaborators are.
type Orchestrator struct {
	classifier *classify.Classifier
	extractor  *extract.Extractor
	analyzer   *analyze.Analyzer
	provider   provider.Provider
	store      docstore.Store
	ranker     rank.Ranker
	cfg        Config
	log        *zap.Logger
}

// New wires an Orchestrator from its collaborators.
func New(deps Deps, cfg Config) *Orchestrator {
	log := logging.OrNop(deps.Log)
	ranker := deps.Ranker
	if ranker == nil {
		ranker = rank.Lexical{}
	}
	a := analyze.New(deps.Backend, log.Named("analyze"))
	if cfg.Orchestrator.AnalysisChars > 0 {
		a.MaxChars = cfg.Orchestrator.AnalysisChars
	}
	return &Orchestrator{
		classifier: classify.New(deps.Backend, log.Named("classify")),
		extractor:  extract.New(deps.Backend, log.Named("extract")),
		analyzer:   a,
		provider:   deps.Provider,
		store:      deps.Store,
		ranker:     ranker,
		cfg:        cfg,
		log:        log,
	}
}

// Event reports that a run reached a stage.
type Event struct {
	RunID    string
	Stage    Stage
	Category types.Category
	Elapsed  time.Duration
}

// Option configures a single run.
type Option func(*runOptions)

type runOptions struct {
	observer func(Event)
	selected []string
	override bool
}

// WithObserver registers fn to receive one Event per stage, in order. The
// observer runs synchronously and cannot alter the result.
func WithObserver(fn func(Event)) Option {
	return func(o *runOptions) { o.observer = fn }
}

// Run researches query and returns the result. The only errors are
// types.ErrEmptyQuery, returned before any stage runs, and the context
// error when the run is cancelled; in the latter case the partial result
// built so far is returned alongside it.
func (o *Orchestrator) Run(ctx context.Context, query string, opts ...Option) (types.ResearchResult, error) {
	var ro runOptions
	for _, opt := range opts {
		opt(&ro)
	}
	return o.run(ctx, query, ro)
}

// RunWithSelectedDocuments is Run with the document selection replaced by
// exactly keys, loaded without ranking. An empty keys selects nothing.
func (o *Orchestrator) RunWithSelectedDocuments(ctx context.Context, query string, keys []string, opts ...Option) (types.ResearchResult, error) {
	ro := runOptions{selected: append([]string{}, keys...), override: true}
	for _, opt := range opts {
		opt(&ro)
	}
	return o.run(ctx, query, ro)
}

// stage is one transition of the state machine.
type stage struct {
	to Stage
	fn func(*run, context.Context, State) Update
}

var sequence = []stage{
	{StageClassified, (*run).classify},
	{StageContentAcquired, (*run).acquire},
	{StageDocumentsSelected, (*run).selectDocuments},
	{StageEntitiesExtracted, (*run).extractEntities},
	{StageDomainAnalyzed, (*run).analyzeEntities},
	{StageSynthesized, (*run).synthesize},
}

// run carries the per-run resources that are not part of State.
type run struct {
	o      *Orchestrator
	opts   runOptions
	cache  *provider.RunCache
	budget *budget
	log    *zap.Logger
}

func (o *Orchestrator) run(ctx context.Context, query string, opts runOptions) (types.ResearchResult, error) {
	q, err := types.NewResearchQuery(query)
	if err != nil {
		return types.ResearchResult{}, err
	}

	id := uuid.NewString()
	r := &run{
		o:      o,
		opts:   opts,
		cache:  provider.NewRunCache(provider.OrEmpty(o.provider)),
		budget: newBudget(o.cfg.Orchestrator.ScrapeBudget),
		log:    o.log.With(zap.String("run_id", id)),
	}

	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "research.run")
	defer span.End()

	start := time.Now()
	state := State{RunID: id, Stage: StageStart, Query: q}
	r.emit(state, start)

	for _, st := range sequence {
		if err := ctx.Err(); err != nil {
			r.log.Info("run cancelled", zap.Stringer("last_stage", state.Stage), zap.Error(err))
			return state.Result(), err
		}
		stageCtx, stageSpan := tracer.Start(ctx, st.to.String())
		u := st.fn(r, stageCtx, state)
		state = state.apply(u)
		state.Stage = st.to
		stageSpan.SetAttributes(attribute.String("research.category", string(state.Query.Category)))
		stageSpan.End()

		r.log.Debug("stage done", zap.Stringer("stage", st.to), zap.Duration("elapsed", time.Since(start)))
		r.emit(state, start)
	}

	state.Stage = StageDone
	r.emit(state, start)
	span.SetAttributes(
		attribute.String("research.category", string(state.Query.Category)),
		attribute.Int("research.entities", len(state.Records)),
	)
	r.log.Info("run complete",
		zap.String("category", string(state.Query.Category)),
		zap.Int("sources", len(state.Content)),
		zap.Int("documents", len(state.Documents)),
		zap.Int("entities", len(state.Records)),
		zap.Int("scrapes", r.budget.used),
		zap.Duration("elapsed", time.Since(start)))
	return state.Result(), nil
}

func (r *run) emit(s State, start time.Time) {
	if r.opts.observer == nil {
		return
	}
	r.opts.observer(Event{RunID: s.RunID, Stage: s.Stage, Category: s.Query.Category, Elapsed: time.Since(start)})
}

// budget caps scrape calls within one run. Stages run sequentially, so it
// needs no locking.
type budget struct {
	left, used int
}

func newBudget(n int) *budget { return &budget{left: max(n, 0)} }

func (b *budget) take() bool {
	if b.left == 0 {
		return false
	}
	b.left--
	b.used++
	return true
}
