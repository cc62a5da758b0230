package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockReportRepo(t *testing.T) (*reportRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &reportRepository{db: sqlx.NewDb(db, "sqlmock")}, mock
}

func TestReportRepository_ListActiveClients(t *testing.T) {
	repo, mock := newMockReportRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM clients WHERE status = 'ACTIVE' ORDER BY name`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "Acme").
			AddRow(2, "Globex"))

	clients, err := repo.ListActiveClients(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Globex", clients[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_GetRequirementSummary(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT title, no_of_rounds, status FROM requirements WHERE id = $1`)

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockReportRepo(t)
		mock.ExpectQuery(query).WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"title", "no_of_rounds", "status"}).
				AddRow("Go Developer", 3, "OPEN"))

		summary, err := repo.GetRequirementSummary(context.Background(), 9)
		require.NoError(t, err)
		require.NotNil(t, summary)
		assert.Equal(t, 3, summary.NoOfRounds)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing is nil without error", func(t *testing.T) {
		repo, mock := newMockReportRepo(t)
		mock.ExpectQuery(query).WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"title", "no_of_rounds", "status"}))

		summary, err := repo.GetRequirementSummary(context.Background(), 404)
		assert.NoError(t, err)
		assert.Nil(t, summary)
	})
}

func TestReportRepository_CountSelections(t *testing.T) {
	repo, mock := newMockReportRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM candidate_progress WHERE status = ANY($1)`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountSelections(context.Background(), []string{"COMPLETED"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_RecentSelections(t *testing.T) {
	repo, mock := newMockReportRepo(t)
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT cp.candidate_id, c.name AS candidate_name`).
		WithArgs(sqlmock.AnyArg(), 10).
		WillReturnRows(sqlmock.NewRows([]string{"candidate_id", "candidate_name", "requirement_title", "updated_at"}).
			AddRow(7, "Asha", "Go Developer", at))

	selections, err := repo.RecentSelections(context.Background(), []string{"COMPLETED"}, 10)
	require.NoError(t, err)
	require.Len(t, selections, 1)
	assert.Equal(t, "Asha", selections[0].CandidateName)
	assert.Equal(t, at, selections[0].UpdatedAt)
}

func TestReportRepository_RequirementTotals(t *testing.T) {
	repo, mock := newMockReportRepo(t)

	mock.ExpectQuery(`COUNT\(\*\) FILTER \(WHERE status = 'OPEN'\)`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "open_reqs", "closed_reqs"}).AddRow(5, 3, 2))

	totals, err := repo.RequirementTotals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), totals.Total)
	assert.Equal(t, int64(3), totals.Open)
	assert.Equal(t, int64(2), totals.Closed)
}
