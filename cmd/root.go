package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/quote-compare/internal/config"
	"github.com/sells-group/quote-compare/internal/engine"
	"github.com/sells-group/quote-compare/internal/store"
	"github.com/sells-group/quote-compare/internal/vocab"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "quote-compare",
	Short: "Normalize and compare insurance quote extractions",
	Long:  "Maps raw extracted quote fields onto a canonical vocabulary, reconciles units, resolves duplicate mentions, and builds a side-by-side comparison with rankings.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		if err := vocab.Init(cfg.Vocabulary.Path); err != nil {
			return eris.Wrap(err, "init vocabulary")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// buildEngine constructs the comparison engine from configuration and the
// active vocabulary.
func buildEngine() (*engine.Engine, error) {
	return engine.New(vocab.Active(), engine.Config{
		SimilarityThreshold:    cfg.Matcher.SimilarityThreshold,
		AmbiguityMargin:        cfg.Matcher.AmbiguityMargin,
		ConfidenceEpsilon:      cfg.Resolver.ConfidenceEpsilon,
		OutlierMultiplier:      cfg.Compare.OutlierMultiplier,
		DefaultCurrency:        cfg.Reconcile.DefaultCurrency,
		Weights:                cfg.Compare.Weights,
		MaxConcurrentDocuments: cfg.Engine.MaxConcurrentDocuments,
	})
}

// initStore opens the configured run store and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, cfg.Store)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
