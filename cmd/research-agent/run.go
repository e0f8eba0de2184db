// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/inference"
	"github.com/pdiddy/research-agent/internal/pipeline"
	"github.com/pdiddy/research-agent/internal/provider"
	"github.com/pdiddy/research-agent/internal/report"
	"github.com/pdiddy/research-agent/internal/tracing"
	"github.com/pdiddy/research-agent/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run <query>",
	Short: "Research a question and print a recommendation",
	Long: `Run classifies the query, acquires web content, selects relevant stored
documents, extracts and analyzes candidate entities, and prints the
recommendation with the per-entity records.

Use --documents to pick stored documents by key instead of relevance ranking;
--documents "" analyzes no documents at all.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func init() {
	runCmd.Flags().StringSlice("documents", nil, "analyze exactly these document keys instead of ranking the store")
	runCmd.Flags().String("format", "markdown", "output format: markdown, table or json")
	runCmd.Flags().String("output", "", "also save the result as YAML to this file")
	runCmd.Flags().String("strategy", "", "content strategy: api, crawl, scholar or hybrid")
	runCmd.Flags().Bool("quiet", false, "do not print stage progress")
	_ = viper.BindPFlag("provider.strategy", runCmd.Flags().Lookup("strategy"))

	rootCmd.AddCommand(runCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	quiet, _ := cmd.Flags().GetBool("quiet")
	switch format {
	case "markdown", "table", "json":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cfg := pipelineConfig(viper.GetViper(), loadedSecrets)

	shutdown, err := tracing.Init(ctx, cfg.Tracing, version, logger.Named("tracing"))
	if err != nil {
		logger.Warn("tracing unavailable", zap.Error(err))
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("flushing traces", zap.Error(err))
		}
	}()

	orch, closeAll, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	opts := []pipeline.Option{}
	if !quiet {
		opts = append(opts, pipeline.WithObserver(func(e pipeline.Event) {
			fmt.Fprintf(os.Stderr, "[%6.1fs] %s", e.Elapsed.Seconds(), e.Stage)
			if e.Category != "" {
				fmt.Fprintf(os.Stderr, " (%s)", e.Category)
			}
			fmt.Fprintln(os.Stderr)
		}))
	}

	var res types.ResearchResult
	if cmd.Flags().Changed("documents") {
		keys, _ := cmd.Flags().GetStringSlice("documents")
		res, err = orch.RunWithSelectedDocuments(ctx, query, nonEmpty(keys), opts...)
	} else {
		res, err = orch.Run(ctx, query, opts...)
	}
	if err != nil {
		return fmt.Errorf("research run: %w", err)
	}

	if output != "" {
		if err := report.WriteFile(output, res); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Saved result to", output)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return report.FormatJSON(res, out)
	case "table":
		report.FormatTable(res, out)
		return nil
	default:
		return report.FormatMarkdown(res, out)
	}
}

// newOrchestrator wires the inference backend, the content provider and the
// document store. The returned function releases all of them.
func newOrchestrator(ctx context.Context, cfg types.PipelineConfig) (*pipeline.Orchestrator, func(), error) {
	backend, err := inference.New(ctx, cfg.AI, &http.Client{})
	if err != nil {
		return nil, nil, fmt.Errorf("inference backend: %w", err)
	}

	p, closeProvider, err := provider.Build(cfg.Provider, logger.Named("provider"))
	if err != nil {
		return nil, nil, fmt.Errorf("content provider: %w", err)
	}

	store, closeStore, err := openStore(ctx, cfg.Documents)
	if err != nil {
		logger.Warn("document store unavailable, continuing without documents", zap.Error(err))
		store, closeStore = nil, func() error { return nil }
	}

	orch := pipeline.New(pipeline.Deps{
		Backend:  backend,
		Provider: p,
		Store:    store,
		Log:      logger.Named("pipeline"),
	}, pipeline.Config{Orchestrator: cfg.Orchestrator, Documents: cfg.Documents})

	closeAll := func() {
		if err := closeStore(); err != nil {
			logger.Warn("closing document store", zap.Error(err))
		}
		if err := closeProvider(); err != nil {
			logger.Warn("closing provider", zap.Error(err))
		}
	}
	return orch, closeAll, nil
}

// nonEmpty drops blank entries so --documents "" selects nothing.
func nonEmpty(keys []string) []string {
	out := []string{}
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
