// Package resolve turns one document's raw field candidates into a single
// canonical record: label matching, winner selection among duplicate
// mentions, unit reconciliation, and required-field accounting.
package resolve

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/quote-compare/internal/match"
	"github.com/sells-group/quote-compare/internal/model"
	"github.com/sells-group/quote-compare/internal/reconcile"
)

// DefaultConfidenceEpsilon is the band within which two extraction
// confidences are considered tied.
const DefaultConfidenceEpsilon = 0.02

// Resolver builds DocumentRecords. Stateless apart from its collaborators;
// safe for concurrent use across documents.
type Resolver struct {
	vocab      *model.Vocabulary
	matcher    *match.Matcher
	reconciler *reconcile.Reconciler
	epsilon    float64
}

// New creates a Resolver. A zero epsilon selects the default.
func New(v *model.Vocabulary, m *match.Matcher, r *reconcile.Reconciler, epsilon float64) *Resolver {
	if epsilon <= 0 {
		epsilon = DefaultConfidenceEpsilon
	}
	return &Resolver{vocab: v, matcher: m, reconciler: r, epsilon: epsilon}
}

// Resolve processes all candidates for one document. Problems become
// issues; the record is always returned, possibly with gaps.
func (r *Resolver) Resolve(doc model.DocumentInput) (model.DocumentRecord, []model.Issue) {
	var issues []model.Issue

	// Group matched candidates by canonical field.
	grouped := make(map[string][]model.RawFieldCandidate)
	for _, c := range doc.Candidates {
		res, ok := r.matcher.Match(c.RawLabel)
		if !ok {
			code := model.IssueUnmatchedLabel
			detail := "no synonym within similarity threshold"
			if res.Ambiguous {
				code = model.IssueAmbiguousLabel
				detail = "two canonical fields scored too close to call"
			}
			issues = append(issues, model.Issue{
				DocumentID: doc.DocumentID,
				Code:       code,
				RawLabel:   c.RawLabel,
				RawValue:   c.RawValue,
				Detail:     detail,
			})
			continue
		}
		grouped[res.CanonicalID] = append(grouped[res.CanonicalID], c)
	}

	record := model.DocumentRecord{
		DocumentID:  doc.DocumentID,
		InsurerName: doc.InsurerName,
		Fields:      make(map[string]model.ResolvedField, len(grouped)),
	}

	for canonicalID, candidates := range grouped {
		def := r.vocab.ByID(canonicalID)
		winner := r.selectWinner(candidates)

		value, err := r.reconciler.Parse(def, winner.RawValue)
		if err != nil {
			if !errors.Is(err, reconcile.ErrUnitParse) {
				zap.L().Warn("resolve: unexpected reconcile failure",
					zap.String("document", doc.DocumentID),
					zap.String("field", canonicalID),
					zap.Error(err),
				)
			}
			issues = append(issues, model.Issue{
				DocumentID:  doc.DocumentID,
				Code:        model.IssueUnitParse,
				CanonicalID: canonicalID,
				RawLabel:    winner.RawLabel,
				RawValue:    winner.RawValue,
				Detail:      fmt.Sprintf("expected %s", def.Kind),
			})
			continue
		}

		record.Fields[canonicalID] = model.ResolvedField{
			DocumentID:  doc.DocumentID,
			CanonicalID: canonicalID,
			Value:       value,
			Confidence:  winner.Confidence,
			Provenance:  winner,
		}
	}

	// Required fields with no resolved value.
	for _, req := range r.vocab.Required() {
		if _, ok := record.Fields[req.CanonicalID]; ok {
			continue
		}
		record.MissingRequired = append(record.MissingRequired, req.CanonicalID)
		issues = append(issues, model.Issue{
			DocumentID:  doc.DocumentID,
			Code:        model.IssueMissingRequired,
			CanonicalID: req.CanonicalID,
		})
	}
	sort.Strings(record.MissingRequired)

	record.GroupTotals = groupTotals(r.vocab, record.Fields)

	if record.InsurerName == "" {
		if name := inferInsurer(doc); name != "" {
			record.InsurerName = name
			issues = append(issues, model.Issue{
				DocumentID: doc.DocumentID,
				Code:       model.IssueInsurerInferred,
				Detail:     fmt.Sprintf("insurer %q inferred from document content", name),
			})
		}
	}

	return record, issues
}

// selectWinner picks exactly one candidate deterministically:
// highest confidence first; confidences within epsilon of the leader are
// tied, and among the tied the latest source position wins (later mentions
// supersede earlier ones); remaining ties fall to the lexically smallest
// normalized label.
func (r *Resolver) selectWinner(candidates []model.RawFieldCandidate) model.RawFieldCandidate {
	if len(candidates) == 1 {
		return candidates[0]
	}

	maxConf := candidates[0].Confidence
	for _, c := range candidates[1:] {
		if c.Confidence > maxConf {
			maxConf = c.Confidence
		}
	}

	tied := make([]model.RawFieldCandidate, 0, len(candidates))
	for _, c := range candidates {
		if maxConf-c.Confidence <= r.epsilon {
			tied = append(tied, c)
		}
	}

	sort.Slice(tied, func(i, j int) bool {
		if tied[i].SourceOrder != tied[j].SourceOrder {
			return tied[i].SourceOrder > tied[j].SourceOrder
		}
		li := model.NormalizeLabel(tied[i].RawLabel)
		lj := model.NormalizeLabel(tied[j].RawLabel)
		if li != lj {
			return li < lj
		}
		return tied[i].RawValue < tied[j].RawValue
	})
	return tied[0]
}

// groupTotals sums resolved currency fields by registry group for the
// recommendations output (total premium, total coverage).
func groupTotals(v *model.Vocabulary, fields map[string]model.ResolvedField) map[string]int64 {
	totals := make(map[string]int64)
	for id, rf := range fields {
		def := v.ByID(id)
		if def == nil || def.Group == "" || rf.Value.Kind != model.KindCurrency {
			continue
		}
		totals[def.Group] += rf.Value.AmountMinor
	}
	if len(totals) == 0 {
		return nil
	}
	return totals
}
