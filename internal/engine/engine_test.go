package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/quote-compare/internal/model"
	"github.com/sells-group/quote-compare/internal/vocab"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	v, err := vocab.Default()
	require.NoError(t, err)
	eng, err := New(v, Config{})
	require.NoError(t, err)
	return eng
}

func quoteA() model.DocumentInput {
	return model.DocumentInput{
		DocumentID:  "quote-a",
		InsurerName: "Acme Mutual",
		Candidates: []model.RawFieldCandidate{
			{RawLabel: "Annual Premium", RawValue: "$1,000", Confidence: 0.95, SourceOrder: 1},
			{RawLabel: "Public Liability", RawValue: "$500,000", Confidence: 0.9, SourceOrder: 2},
		},
	}
}

func quoteB() model.DocumentInput {
	return model.DocumentInput{
		DocumentID:  "quote-b",
		InsurerName: "Broadside Insurance",
		Candidates: []model.RawFieldCandidate{
			{RawLabel: "Total Annual Premium", RawValue: "$1,200", Confidence: 0.9, SourceOrder: 1},
			{RawLabel: "Liability Limit", RawValue: "$750,000", Confidence: 0.9, SourceOrder: 2},
		},
	}
}

func TestCompare_EndToEnd(t *testing.T) {
	eng := newEngine(t)

	result, err := eng.Compare(context.Background(), []model.DocumentInput{quoteA(), quoteB()})
	require.NoError(t, err)
	require.Len(t, result.Documents, 2)

	premium := result.FieldComparisons["annual_premium"]
	assert.Equal(t, "quote-a", premium.BestDocumentID)
	assert.Equal(t, "quote-b", premium.WorstDocumentID)

	limit := result.FieldComparisons["liability_limit"]
	assert.Equal(t, "quote-b", limit.BestDocumentID)
	assert.Equal(t, "quote-a", limit.WorstDocumentID)

	require.Len(t, result.Ranking, 2)
	assert.Equal(t, 1, result.Ranking[0].Rank)

	assert.Empty(t, result.Issues)
}

func TestCompare_EmptyBatch(t *testing.T) {
	eng := newEngine(t)

	_, err := eng.Compare(context.Background(), nil)
	require.ErrorIs(t, err, ErrEmptyBatch)
}

func TestCompare_DuplicateDocumentID(t *testing.T) {
	eng := newEngine(t)

	_, err := eng.Compare(context.Background(), []model.DocumentInput{quoteA(), quoteA()})
	require.ErrorIs(t, err, ErrDuplicateDocument)
}

func TestCompare_EmptyDocumentID(t *testing.T) {
	eng := newEngine(t)

	doc := quoteA()
	doc.DocumentID = ""
	_, err := eng.Compare(context.Background(), []model.DocumentInput{doc})
	require.ErrorIs(t, err, ErrDuplicateDocument)
}

func TestCompare_ProblemsBecomeIssuesNotErrors(t *testing.T) {
	eng := newEngine(t)

	doc := model.DocumentInput{
		DocumentID:  "quote-c",
		InsurerName: "Acme Mutual",
		Candidates: []model.RawFieldCandidate{
			{RawLabel: "Annual Premium", RawValue: "included", Confidence: 0.9, SourceOrder: 1},
			{RawLabel: "Underwriter Phone", RawValue: "555-0100", Confidence: 0.9, SourceOrder: 2},
		},
	}

	result, err := eng.Compare(context.Background(), []model.DocumentInput{doc})
	require.NoError(t, err, "bad values and labels must not fail the batch")

	codes := make(map[model.IssueCode]bool)
	for _, issue := range result.Issues {
		codes[issue.Code] = true
	}
	assert.True(t, codes[model.IssueUnitParse])
	assert.True(t, codes[model.IssueUnmatchedLabel])
	assert.True(t, codes[model.IssueMissingRequired])
}

func TestCompare_IssuesSortedDeterministically(t *testing.T) {
	eng := newEngine(t)

	mystery := func(id string) model.DocumentInput {
		return model.DocumentInput{
			DocumentID:  id,
			InsurerName: "Acme Mutual",
			Candidates: []model.RawFieldCandidate{
				{RawLabel: "Mystery Field", RawValue: "???", Confidence: 0.5, SourceOrder: 1},
			},
		}
	}

	r1, err := eng.Compare(context.Background(), []model.DocumentInput{mystery("quote-a"), mystery("quote-b")})
	require.NoError(t, err)
	r2, err := eng.Compare(context.Background(), []model.DocumentInput{mystery("quote-b"), mystery("quote-a")})
	require.NoError(t, err)

	assert.Equal(t, r1.Issues, r2.Issues)
	for i := 1; i < len(r1.Issues); i++ {
		assert.False(t, r1.Issues[i].Less(r1.Issues[i-1]), "issues must be sorted")
	}
}

func TestCompare_Cancelled(t *testing.T) {
	eng := newEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Compare(ctx, []model.DocumentInput{quoteA(), quoteB()})
	require.Error(t, err)
}
