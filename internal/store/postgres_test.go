package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/quote-compare/internal/model"
)

func newMockPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock), mock
}

func TestPostgres_Migrate(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS comparison_runs").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CreateRun(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("INSERT INTO comparison_runs").
		WithArgs(pgxmock.AnyArg(), string(model.RunStatusRunning), 1,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.Equal(t, 1, run.DocumentCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CompleteRun(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("UPDATE comparison_runs SET result").
		WithArgs(pgxmock.AnyArg(), string(model.RunStatusComplete), pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.CompleteRun(context.Background(), "run-1", &model.ComparisonResult{})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CompleteRun_NotFound(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("UPDATE comparison_runs SET result").
		WithArgs(pgxmock.AnyArg(), string(model.RunStatusComplete), pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.CompleteRun(context.Background(), "missing", &model.ComparisonResult{})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrRunNotFound))
}

func TestPostgres_FailRun(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("UPDATE comparison_runs SET error").
		WithArgs("boom", string(model.RunStatusFailed), pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.FailRun(context.Background(), "run-1", eris.New("boom")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetRun(t *testing.T) {
	s, mock := newMockPostgres(t)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "status", "document_count", "input", "result", "error", "created_at", "updated_at",
	}).AddRow(
		"run-1", "complete", 1,
		[]byte(`[{"document_id":"quote-a","insurer_name":"Acme Mutual","candidates":null}]`),
		[]byte(`{"columns":["annual_premium"]}`),
		(*string)(nil), now, now,
	)

	mock.ExpectQuery("SELECT (.+) FROM comparison_runs WHERE id").
		WithArgs("run-1").
		WillReturnRows(rows)

	run, err := s.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	require.Len(t, run.Input, 1)
	assert.Equal(t, "quote-a", run.Input[0].DocumentID)
	require.NotNil(t, run.Result)
	assert.Equal(t, []string{"annual_premium"}, run.Result.Columns)
	assert.Empty(t, run.Error)
}

func TestPostgres_GetRun_NotFound(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery("SELECT (.+) FROM comparison_runs WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrRunNotFound))
}

func TestPostgres_ListRuns(t *testing.T) {
	s, mock := newMockPostgres(t)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "status", "document_count", "input", "result", "error", "created_at", "updated_at",
	}).AddRow(
		"run-2", "failed", 2, []byte(`[]`), []byte(nil), ptr("duplicate document id"), now, now,
	).AddRow(
		"run-1", "complete", 1, []byte(`[]`), []byte(`{}`), (*string)(nil), now, now,
	)

	mock.ExpectQuery("SELECT (.+) FROM comparison_runs").
		WithArgs("failed", 10).
		WillReturnRows(rows)

	runs, err := s.ListRuns(context.Background(), RunFilter{Status: model.RunStatusFailed, Limit: 10})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "duplicate document id", runs[0].Error)
	require.NoError(t, mock.ExpectationsWereMet())
}

func ptr(s string) *string { return &s }
