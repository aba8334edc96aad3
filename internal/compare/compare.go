// Package compare assembles resolved per-document records into the
// cross-insurer comparison matrix: per-field best/worst/outlier verdicts
// and an advisory overall ranking.
package compare

import (
	"math"
	"sort"

	"github.com/sells-group/quote-compare/internal/model"
)

// DefaultOutlierMultiplier flags values more than this many median
// absolute deviations from the field median.
const DefaultOutlierMultiplier = 2.0

// Options tunes the comparison pass. Zero values select defaults.
type Options struct {
	OutlierMultiplier float64
	// Weights overrides per-field ranking weights by canonical id.
	// Fields without an override use the registry weight (default 1).
	Weights map[string]float64
}

// Build computes the column order, per-field comparisons, and the overall
// document ranking. Deterministic for identical inputs: all ties break on
// document id.
func Build(v *model.Vocabulary, records []model.DocumentRecord, opts Options) ([]string, map[string]model.FieldComparison, []model.DocumentScore) {
	if opts.OutlierMultiplier <= 0 {
		opts.OutlierMultiplier = DefaultOutlierMultiplier
	}

	columns := columnOrder(v, records)

	comparisons := make(map[string]model.FieldComparison, len(columns))
	for _, id := range columns {
		def := v.ByID(id)
		comparisons[id] = compareField(def, records, opts.OutlierMultiplier)
	}

	ranking := rankDocuments(v, records, opts.Weights)

	return columns, comparisons, ranking
}

// columnOrder lists canonical ids in registry order, restricted to fields
// that are required or present in at least one document.
func columnOrder(v *model.Vocabulary, records []model.DocumentRecord) []string {
	present := make(map[string]bool)
	for _, rec := range records {
		for id := range rec.Fields {
			present[id] = true
		}
	}

	var columns []string
	for _, f := range v.Fields {
		if f.Required || present[f.CanonicalID] {
			columns = append(columns, f.CanonicalID)
		}
	}
	return columns
}

// compareField computes one field's cross-document verdict. Non-orderable
// kinds and fields with no stated direction get presence flags only.
func compareField(def *model.FieldDefinition, records []model.DocumentRecord, outlierMult float64) model.FieldComparison {
	fc := model.FieldComparison{
		CanonicalID: def.CanonicalID,
		Flags:       make(map[string]model.CellFlags),
	}

	type cell struct {
		docID string
		value float64
	}
	var cells []cell
	for _, rec := range records {
		rf, ok := rec.Fields[def.CanonicalID]
		if !ok {
			continue
		}
		fc.Flags[rec.DocumentID] = model.CellFlags{}
		if mag, ok := rf.Value.Magnitude(); ok {
			cells = append(cells, cell{docID: rec.DocumentID, value: mag})
		}
	}
	if len(cells) == 0 || !def.Kind.Orderable() {
		return fc
	}

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].value != cells[j].value {
			return cells[i].value < cells[j].value
		}
		return cells[i].docID < cells[j].docID
	})

	// Outliers are statistical and apply regardless of direction.
	values := make([]float64, len(cells))
	for i, c := range cells {
		values[i] = c.value
	}
	med := median(values)
	mad := medianAbsDeviation(values, med)
	for _, c := range cells {
		flags := fc.Flags[c.docID]
		flags.IsOutlier = mad > 0 && math.Abs(c.value-med) > outlierMult*mad
		fc.Flags[c.docID] = flags
	}

	if def.Direction == model.DirectionNone {
		return fc
	}

	lowest, highest := cells[0].value, cells[len(cells)-1].value
	bestValue, worstValue := lowest, highest
	if def.Direction == model.DirectionHigher {
		bestValue, worstValue = highest, lowest
	}

	for _, c := range cells {
		flags := fc.Flags[c.docID]
		if c.value == bestValue {
			flags.IsBest = true
			if fc.BestDocumentID == "" || c.docID < fc.BestDocumentID {
				fc.BestDocumentID = c.docID
			}
		}
		if c.value == worstValue && bestValue != worstValue {
			flags.IsWorst = true
			if fc.WorstDocumentID == "" || c.docID < fc.WorstDocumentID {
				fc.WorstDocumentID = c.docID
			}
		}
		fc.Flags[c.docID] = flags
	}

	return fc
}

// rankDocuments scores each document as the weighted mean of per-field
// goodness over required orderable fields: 1.0 for the best value, 0.0 for
// the worst, linear in between. Missing fields contribute zero. The score
// is advisory and always reported alongside the matrix.
func rankDocuments(v *model.Vocabulary, records []model.DocumentRecord, overrides map[string]float64) []model.DocumentScore {
	type fieldSpan struct {
		def      *model.FieldDefinition
		weight   float64
		min, max float64
		seen     bool
	}

	var spans []*fieldSpan
	for _, req := range v.Required() {
		if !req.Kind.Orderable() || req.Direction == model.DirectionNone {
			continue
		}
		weight := req.Weight
		if w, ok := overrides[req.CanonicalID]; ok && w > 0 {
			weight = w
		}
		span := &fieldSpan{def: req, weight: weight}
		for _, rec := range records {
			rf, ok := rec.Fields[req.CanonicalID]
			if !ok {
				continue
			}
			mag, ok := rf.Value.Magnitude()
			if !ok {
				continue
			}
			if !span.seen || mag < span.min {
				span.min = mag
			}
			if !span.seen || mag > span.max {
				span.max = mag
			}
			span.seen = true
		}
		if span.seen {
			spans = append(spans, span)
		}
	}

	var totalWeight float64
	for _, s := range spans {
		totalWeight += s.weight
	}

	scores := make([]model.DocumentScore, 0, len(records))
	for _, rec := range records {
		var score float64
		if totalWeight > 0 {
			for _, s := range spans {
				rf, ok := rec.Fields[s.def.CanonicalID]
				if !ok {
					continue
				}
				mag, ok := rf.Value.Magnitude()
				if !ok {
					continue
				}
				score += s.weight * goodness(mag, s.min, s.max, s.def.Direction)
			}
			score /= totalWeight
		}
		scores = append(scores, model.DocumentScore{
			DocumentID:  rec.DocumentID,
			InsurerName: rec.InsurerName,
			Score:       score,
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].DocumentID < scores[j].DocumentID
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}
	return scores
}

// goodness maps a value to [0,1] within the field's observed span, oriented
// so 1.0 is always the preferable end. A degenerate span (all documents
// equal) scores 1.0 for everyone.
func goodness(v, min, max float64, dir model.Direction) float64 {
	if max == min {
		return 1.0
	}
	g := (v - min) / (max - min)
	if dir == model.DirectionLower {
		g = 1 - g
	}
	return g
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func medianAbsDeviation(values []float64, med float64) float64 {
	devs := make([]float64, len(values))
	for i, v := range values {
		devs[i] = math.Abs(v - med)
	}
	sort.Float64s(devs)
	return median(devs)
}
