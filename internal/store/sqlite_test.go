package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/quote-compare/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleInput() []model.DocumentInput {
	return []model.DocumentInput{
		{
			DocumentID:  "quote-a",
			InsurerName: "Acme Mutual",
			Candidates: []model.RawFieldCandidate{
				{RawLabel: "Annual Premium", RawValue: "$1,000", Confidence: 0.9, SourceOrder: 1},
			},
		},
	}
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, sampleInput())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.Equal(t, 1, run.DocumentCount)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, model.RunStatusRunning, got.Status)
	require.Len(t, got.Input, 1)
	assert.Equal(t, "quote-a", got.Input[0].DocumentID)
	assert.Nil(t, got.Result)
}

func TestSQLite_CompleteRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, sampleInput())
	require.NoError(t, err)

	result := &model.ComparisonResult{
		Columns: []string{"annual_premium"},
		Ranking: []model.DocumentScore{{DocumentID: "quote-a", Rank: 1, Score: 1.0}},
	}
	require.NoError(t, s.CompleteRun(ctx, run.ID, result))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, []string{"annual_premium"}, got.Result.Columns)
}

func TestSQLite_FailRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, sampleInput())
	require.NoError(t, err)

	require.NoError(t, s.FailRun(ctx, run.ID, eris.New("duplicate document id")))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Contains(t, got.Error, "duplicate document id")
}

func TestSQLite_NotFound(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.GetRun(ctx, "no-such-run")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrRunNotFound))

	err = s.CompleteRun(ctx, "no-such-run", &model.ComparisonResult{})
	assert.True(t, eris.Is(err, ErrRunNotFound))

	err = s.FailRun(ctx, "no-such-run", eris.New("boom"))
	assert.True(t, eris.Is(err, ErrRunNotFound))
}

func TestSQLite_ListRuns(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	first, err := s.CreateRun(ctx, sampleInput())
	require.NoError(t, err)
	second, err := s.CreateRun(ctx, sampleInput())
	require.NoError(t, err)
	require.NoError(t, s.CompleteRun(ctx, second.ID, &model.ComparisonResult{}))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	complete, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, second.ID, complete[0].ID)

	running, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusRunning})
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, first.ID, running[0].ID)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
