package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/quote-compare/internal/model"
)

func testVocabulary(t *testing.T) *model.Vocabulary {
	t.Helper()
	v, err := model.NewVocabulary([]model.FieldDefinition{
		{
			CanonicalID: "annual_premium",
			DisplayName: "Total Annual Premium",
			Kind:        model.KindCurrency,
			Required:    true,
			Direction:   model.DirectionLower,
			Synonyms:    []string{"annual premium", "yearly premium", "total premium"},
		},
		{
			CanonicalID: "liability_limit",
			DisplayName: "Liability Limit",
			Kind:        model.KindCurrency,
			Required:    true,
			Direction:   model.DirectionHigher,
			Synonyms:    []string{"liability limit", "public liability", "liability cover"},
		},
		{
			CanonicalID: "waiting_period",
			DisplayName: "Waiting Period",
			Kind:        model.KindDuration,
			Synonyms:    []string{"waiting period", "deferment period"},
		},
	})
	require.NoError(t, err)
	return v
}

func TestMatch_ExactSynonym(t *testing.T) {
	m := New(testVocabulary(t))

	res, ok := m.Match("Yearly Premium:")
	require.True(t, ok)
	assert.Equal(t, "annual_premium", res.CanonicalID)
	assert.True(t, res.Exact)
	assert.Equal(t, 1.0, res.Score)
}

func TestMatch_FuzzyTypo(t *testing.T) {
	m := New(testVocabulary(t))

	// One transposition away from "annual premium".
	res, ok := m.Match("anual premium")
	require.True(t, ok)
	assert.Equal(t, "annual_premium", res.CanonicalID)
	assert.False(t, res.Exact)
	assert.GreaterOrEqual(t, res.Score, DefaultThreshold)
}

func TestMatch_WordOverlap(t *testing.T) {
	m := New(testVocabulary(t))

	// Reordered words still share the full token set with a synonym.
	res, ok := m.Match("premium yearly")
	require.True(t, ok)
	assert.Equal(t, "annual_premium", res.CanonicalID)
}

func TestMatch_Unmatched(t *testing.T) {
	m := New(testVocabulary(t))

	res, ok := m.Match("underwriter contact phone")
	assert.False(t, ok)
	assert.False(t, res.Ambiguous)
	assert.Empty(t, res.CanonicalID)
}

func TestMatch_EmptyLabel(t *testing.T) {
	m := New(testVocabulary(t))

	_, ok := m.Match("   ")
	assert.False(t, ok)
}

func TestMatch_AmbiguousNearTie(t *testing.T) {
	v, err := model.NewVocabulary([]model.FieldDefinition{
		{CanonicalID: "tpd_any_sum", DisplayName: "TPD Any", Kind: model.KindCurrency,
			Synonyms: []string{"tpd any occupation"}},
		{CanonicalID: "tpd_own_sum", DisplayName: "TPD Own", Kind: model.KindCurrency,
			Synonyms: []string{"tpd own occupation"}},
	})
	require.NoError(t, err)
	m := New(v, WithThreshold(0.7))

	// Shares two of three tokens with both fields; neither may win.
	res, ok := m.Match("tpd occupation")
	assert.False(t, ok)
	assert.True(t, res.Ambiguous)
}

func TestMatch_ThresholdOption(t *testing.T) {
	strict := New(testVocabulary(t), WithThreshold(0.99))
	_, ok := strict.Match("anual premium")
	assert.False(t, ok, "strict threshold should reject a near miss")

	lax := New(testVocabulary(t), WithThreshold(0.5), WithAmbiguityMargin(0.01))
	res, ok := lax.Match("anual premium")
	require.True(t, ok)
	assert.Equal(t, "annual_premium", res.CanonicalID)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("annual premium", "annual premium"))
	assert.Greater(t, similarity("anual premium", "annual premium"), 0.9)
	assert.Less(t, similarity("policy number", "waiting period"), 0.5)
}

func TestJaccard(t *testing.T) {
	assert.Equal(t, 1.0, jaccard("annual premium", "premium annual"))
	assert.Equal(t, 0.5, jaccard("annual premium", "annual"))
	assert.InDelta(t, 1.0/3, jaccard("annual premium", "annual cost"), 1e-9)
	assert.Equal(t, 0.0, jaccard("", "annual premium"))
}
