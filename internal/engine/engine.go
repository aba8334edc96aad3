// Package engine orchestrates the full comparison: per-document resolution
// fanned out over workers, then a single cross-document comparison pass.
package engine

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/quote-compare/internal/compare"
	"github.com/sells-group/quote-compare/internal/match"
	"github.com/sells-group/quote-compare/internal/model"
	"github.com/sells-group/quote-compare/internal/reconcile"
	"github.com/sells-group/quote-compare/internal/resolve"
)

// Batch-level precondition failures. These abort the whole call; every
// other problem is collected into the result's issue list instead.
var (
	ErrEmptyBatch        = eris.New("engine: empty document batch")
	ErrDuplicateDocument = eris.New("engine: duplicate document id in batch")
)

// DefaultMaxConcurrentDocuments bounds the per-document resolution fan-out.
const DefaultMaxConcurrentDocuments = 4

// Config carries the externally supplied tuning knobs. Zero values select
// package defaults.
type Config struct {
	SimilarityThreshold    float64
	AmbiguityMargin        float64
	ConfidenceEpsilon      float64
	OutlierMultiplier      float64
	DefaultCurrency        string
	Weights                map[string]float64
	MaxConcurrentDocuments int
}

// Engine runs comparisons over a fixed vocabulary. Safe for concurrent use.
type Engine struct {
	vocab         *model.Vocabulary
	resolver      *resolve.Resolver
	compareOpts   compare.Options
	maxConcurrent int
}

// New wires the matcher, reconciler, and resolver over the vocabulary.
func New(v *model.Vocabulary, cfg Config) (*Engine, error) {
	var matchOpts []match.Option
	if cfg.SimilarityThreshold > 0 {
		matchOpts = append(matchOpts, match.WithThreshold(cfg.SimilarityThreshold))
	}
	if cfg.AmbiguityMargin > 0 {
		matchOpts = append(matchOpts, match.WithAmbiguityMargin(cfg.AmbiguityMargin))
	}
	matcher := match.New(v, matchOpts...)

	reconciler, err := reconcile.New(cfg.DefaultCurrency)
	if err != nil {
		return nil, eris.Wrap(err, "engine: build reconciler")
	}

	maxConcurrent := cfg.MaxConcurrentDocuments
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentDocuments
	}

	return &Engine{
		vocab:    v,
		resolver: resolve.New(v, matcher, reconciler, cfg.ConfidenceEpsilon),
		compareOpts: compare.Options{
			OutlierMultiplier: cfg.OutlierMultiplier,
			Weights:           cfg.Weights,
		},
		maxConcurrent: maxConcurrent,
	}, nil
}

// Compare resolves every document concurrently and builds the comparison.
// It fails outright only on an empty batch or a duplicate document id;
// per-field and per-document problems come back as issues on the result.
func (e *Engine) Compare(ctx context.Context, docs []model.DocumentInput) (*model.ComparisonResult, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyBatch
	}
	seen := make(map[string]bool, len(docs))
	for _, d := range docs {
		if d.DocumentID == "" {
			return nil, eris.Wrap(ErrDuplicateDocument, "empty document id")
		}
		if seen[d.DocumentID] {
			return nil, eris.Wrapf(ErrDuplicateDocument, "%s", d.DocumentID)
		}
		seen[d.DocumentID] = true
	}

	start := time.Now()

	// Fan-out: each document's resolution is pure and independent. Results
	// land in per-index slots, so no locking is needed; the comparison pass
	// below is the single-threaded fan-in.
	records := make([]model.DocumentRecord, len(docs))
	docIssues := make([][]model.Issue, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrent)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i], docIssues[i] = e.resolver.Resolve(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "engine: resolve documents")
	}

	var issues []model.Issue
	for _, batch := range docIssues {
		issues = append(issues, batch...)
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].Less(issues[j]) })

	columns, comparisons, ranking := compare.Build(e.vocab, records, e.compareOpts)

	zap.L().Info("engine: comparison complete",
		zap.Int("documents", len(docs)),
		zap.Int("columns", len(columns)),
		zap.Int("issues", len(issues)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return &model.ComparisonResult{
		Columns:          columns,
		Documents:        records,
		FieldComparisons: comparisons,
		Ranking:          ranking,
		Issues:           issues,
	}, nil
}
