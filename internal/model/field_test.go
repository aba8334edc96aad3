package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Annual Premium", "annual premium"},
		{"  annual   premium  ", "annual premium"},
		{"Annual Premium:", "annual premium"},
		{"ANNUAL\tPREMIUM ;", "annual premium"},
		{"Waiting Period?", "waiting period"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeLabel(tt.in), "input %q", tt.in)
	}
}

func TestNewVocabulary_Indexes(t *testing.T) {
	v, err := NewVocabulary([]FieldDefinition{
		{
			CanonicalID: "annual_premium",
			DisplayName: "Total Annual Premium",
			Kind:        KindCurrency,
			Required:    true,
			Direction:   DirectionLower,
			Synonyms:    []string{"yearly premium", "Total Premium"},
		},
		{
			CanonicalID: "deductible",
			DisplayName: "Deductible",
			Kind:        KindCurrency,
			Synonyms:    []string{"excess"},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, v.ByID("annual_premium"))
	assert.Nil(t, v.ByID("no_such_field"))

	// Synonyms, display names, and canonical ids all resolve, normalized.
	assert.Equal(t, "annual_premium", v.ByLabel("Yearly Premium:").CanonicalID)
	assert.Equal(t, "annual_premium", v.ByLabel("total annual premium").CanonicalID)
	assert.Equal(t, "annual_premium", v.ByLabel("annual premium").CanonicalID)
	assert.Equal(t, "deductible", v.ByLabel("EXCESS").CanonicalID)
	assert.Nil(t, v.ByLabel("life cover"))

	require.Len(t, v.Required(), 1)
	assert.Equal(t, "annual_premium", v.Required()[0].CanonicalID)
}

func TestNewVocabulary_Defaults(t *testing.T) {
	v, err := NewVocabulary([]FieldDefinition{
		{CanonicalID: "policy_number", DisplayName: "Policy Number", Kind: KindText, Synonyms: []string{"policy no"}},
	})
	require.NoError(t, err)

	def := v.ByID("policy_number")
	assert.Equal(t, DirectionNone, def.Direction)
	assert.Equal(t, 1.0, def.Weight)
}

func TestNewVocabulary_RejectsDuplicateID(t *testing.T) {
	_, err := NewVocabulary([]FieldDefinition{
		{CanonicalID: "deductible", DisplayName: "Deductible", Kind: KindCurrency},
		{CanonicalID: "deductible", DisplayName: "Excess", Kind: KindCurrency},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate canonical_id")
}

func TestNewVocabulary_RejectsOverlappingSynonyms(t *testing.T) {
	_, err := NewVocabulary([]FieldDefinition{
		{CanonicalID: "deductible", DisplayName: "Deductible", Kind: KindCurrency, Synonyms: []string{"excess"}},
		{CanonicalID: "copay", DisplayName: "Copay", Kind: KindCurrency, Synonyms: []string{"Excess"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maps to both")
}

func TestNewVocabulary_RejectsEmptyID(t *testing.T) {
	_, err := NewVocabulary([]FieldDefinition{
		{CanonicalID: "", DisplayName: "Mystery", Kind: KindText},
	})
	require.Error(t, err)
}

func TestValueKindOrderable(t *testing.T) {
	assert.True(t, KindCurrency.Orderable())
	assert.True(t, KindPercentage.Orderable())
	assert.True(t, KindDuration.Orderable())
	assert.True(t, KindCount.Orderable())
	assert.False(t, KindEnum.Orderable())
	assert.False(t, KindText.Orderable())
}
