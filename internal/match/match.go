// Package match maps raw insurer field labels to canonical field ids.
package match

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/sells-group/quote-compare/internal/model"
)

// Defaults for the fuzzy fallback. Both are configurable; these match the
// values the registry ships with.
const (
	DefaultThreshold       = 0.82
	DefaultAmbiguityMargin = 0.05
)

// Matcher resolves raw labels against a vocabulary. It is a pure function
// of the vocabulary and its thresholds; safe for concurrent use.
type Matcher struct {
	vocab           *model.Vocabulary
	threshold       float64
	ambiguityMargin float64
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithThreshold overrides the minimum fuzzy-match score.
func WithThreshold(t float64) Option {
	return func(m *Matcher) { m.threshold = t }
}

// WithAmbiguityMargin overrides the required gap between the best match and
// the runner-up from a different field.
func WithAmbiguityMargin(g float64) Option {
	return func(m *Matcher) { m.ambiguityMargin = g }
}

// New creates a Matcher over the given vocabulary.
func New(v *model.Vocabulary, opts ...Option) *Matcher {
	m := &Matcher{
		vocab:           v,
		threshold:       DefaultThreshold,
		ambiguityMargin: DefaultAmbiguityMargin,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Result reports how a label was matched.
type Result struct {
	CanonicalID string
	Score       float64 // 1.0 for exact synonym hits
	Exact       bool
	Ambiguous   bool // true when rejected because two fields scored too close
}

// Match maps a raw label to a canonical field id. The boolean is false when
// the label is unmatched: no synonym hit and no fuzzy candidate that is both
// above the threshold and unambiguous. Near misses are never guessed.
func (m *Matcher) Match(rawLabel string) (Result, bool) {
	norm := model.NormalizeLabel(rawLabel)
	if norm == "" {
		return Result{}, false
	}

	if f := m.vocab.ByLabel(rawLabel); f != nil {
		return Result{CanonicalID: f.CanonicalID, Score: 1.0, Exact: true}, true
	}

	// Fuzzy fallback: score every synonym, keep the best per field so the
	// ambiguity check compares distinct fields rather than sibling synonyms.
	bestByField := make(map[string]float64)
	for syn, f := range m.vocab.Synonyms() {
		s := similarity(norm, syn)
		if s > bestByField[f.CanonicalID] {
			bestByField[f.CanonicalID] = s
		}
	}

	type scored struct {
		id    string
		score float64
	}
	ranked := make([]scored, 0, len(bestByField))
	for id, s := range bestByField {
		ranked = append(ranked, scored{id: id, score: s})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})

	if len(ranked) == 0 || ranked[0].score < m.threshold {
		var best float64
		if len(ranked) > 0 {
			best = ranked[0].score
		}
		return Result{Score: best}, false
	}
	if len(ranked) > 1 && ranked[0].score-ranked[1].score < m.ambiguityMargin {
		return Result{Score: ranked[0].score, Ambiguous: true}, false
	}

	return Result{CanonicalID: ranked[0].id, Score: ranked[0].score}, true
}

// similarity scores two normalized labels in [0,1] as the better of
// token-set Jaccard overlap and Levenshtein similarity. Jaccard handles
// reordered multi-word labels; Levenshtein handles short typo'd ones.
func similarity(a, b string) float64 {
	j := jaccard(a, b)
	l := levenshtein.Similarity(a, b, nil)
	if j > l {
		return j
	}
	return l
}

func jaccard(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for w := range wordsA {
		if wordsB[w] {
			intersection++
		}
	}

	union := len(wordsA)
	for w := range wordsB {
		if !wordsA[w] {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[strings.Trim(w, "()[]-")] = true
	}
	delete(set, "")
	return set
}
