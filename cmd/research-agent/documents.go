// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/container"
	"github.com/pdiddy/research-agent/internal/docstore"
	"github.com/pdiddy/research-agent/internal/rank"
	"github.com/pdiddy/research-agent/internal/report"
	"github.com/pdiddy/research-agent/pkg/types"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage stored documents",
	Long: `Documents are the user's own reports and notes that a research run may
analyze alongside web content. The default store is a SQLite database filled
by "documents ingest"; set documents.backend to dir to read a directory
directly.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig(viper.GetViper(), loadedSecrets)
		store, closeStore, err := openStore(cmd.Context(), cfg.Documents)
		if err != nil {
			return err
		}
		defer closeStore()

		infos, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		report.FormatDocuments(infos, cmd.OutOrStdout())
		return nil
	},
}

var documentsIngestCmd = &cobra.Command{
	Use:   "ingest <dir>",
	Short: "Load .md, .txt and .pdf files into the SQLite store",
	Long: `Ingest walks a directory and stores every supported file. Files whose
modification time has not changed since the last ingest are skipped. PDFs are
converted with the markitdown container image when docker or podman is
available and skipped otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := pipelineConfig(viper.GetViper(), loadedSecrets)
		if cfg.Documents.Backend != types.DocumentsSQLite {
			return fmt.Errorf("ingest requires the sqlite document backend, got %q", cfg.Documents.Backend)
		}

		db, err := docstore.OpenSQLite(cfg.Documents.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		var conv docstore.PDFConverter
		if c := pdfConverter(ctx); c != nil {
			conv = c
		}
		summary, err := db.Ingest(ctx, args[0], conv, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d indexed, %d updated, %d skipped, %d failed\n",
			summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
		return nil
	},
}

var documentsRankCmd = &cobra.Command{
	Use:   "rank <query>",
	Short: "Show stored documents ranked by relevance to a query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := pipelineConfig(viper.GetViper(), loadedSecrets)
		store, closeStore, err := openStore(ctx, cfg.Documents)
		if err != nil {
			return err
		}
		defer closeStore()

		all, _ := cmd.Flags().GetBool("all")
		minScore, limit := cfg.Documents.MinScore, cfg.Documents.MaxSelected
		if all {
			minScore, limit = 0, 0
		}
		docs, err := docstore.Relevant(ctx, store, rank.Lexical{}, strings.Join(args, " "), minScore, limit)
		if err != nil {
			return err
		}
		report.FormatRanked(docs, cmd.OutOrStdout())
		return nil
	},
}

func init() {
	documentsRankCmd.Flags().Bool("all", false, "show every document, ignoring the score threshold and limit")

	documentsCmd.AddCommand(documentsListCmd, documentsIngestCmd, documentsRankCmd)
	rootCmd.AddCommand(documentsCmd)
}

// openStore opens the configured document store. A directory store reads
// PDFs only when a markitdown runtime is at hand.
func openStore(ctx context.Context, cfg types.DocumentConfig) (docstore.Store, func() error, error) {
	switch cfg.Backend {
	case types.DocumentsDir:
		info, err := os.Stat(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("document directory: %w", err)
		}
		if !info.IsDir() {
			return nil, nil, fmt.Errorf("document path %s is not a directory", cfg.Path)
		}
		store := &docstore.DirStore{Root: cfg.Path}
		if c := pdfConverter(ctx); c != nil {
			store.Converter = c
		}
		return store, func() error { return nil }, nil
	case types.DocumentsSQLite, "":
		db, err := docstore.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown document backend %q", cfg.Backend)
	}
}

// pdfConverter returns the markitdown converter, or nil when no container
// runtime or image is available.
func pdfConverter(ctx context.Context) *docstore.MarkitdownConverter {
	rt, err := container.Detect(ctx)
	if err != nil {
		logger.Info("PDF conversion disabled", zap.Error(err))
		return nil
	}
	conv, err := docstore.NewMarkitdownConverter(ctx, rt)
	if err != nil {
		logger.Info("PDF conversion disabled", zap.Error(err))
		return nil
	}
	return conv
}
