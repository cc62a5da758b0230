package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"thinqor-ats/internal/domain"
	"thinqor-ats/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) ListActiveClients(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockReportRepo) ListClientRequirements(ctx context.Context, clientID int64) ([]domain.Requirement, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]domain.Requirement), args.Error(1)
}

func (m *MockReportRepo) GetRequirementSummary(ctx context.Context, requirementID int64) (*domain.RequirementSummary, error) {
	args := m.Called(ctx, requirementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RequirementSummary), args.Error(1)
}

func (m *MockReportRepo) CountProgressByStage(ctx context.Context, requirementID int64) ([]domain.StageCount, error) {
	args := m.Called(ctx, requirementID)
	return args.Get(0).([]domain.StageCount), args.Error(1)
}

func (m *MockReportRepo) CountRequirementCandidates(ctx context.Context, requirementID int64) (int64, error) {
	args := m.Called(ctx, requirementID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepo) RequirementTotals(ctx context.Context) (domain.RequirementTotals, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.RequirementTotals), args.Error(1)
}

func (m *MockReportRepo) CandidateTotals(ctx context.Context) (domain.CandidateTotals, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.CandidateTotals), args.Error(1)
}

func (m *MockReportRepo) CountSelections(ctx context.Context, statuses []string) (int64, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepo) RecentSelections(ctx context.Context, statuses []string, limit int) ([]domain.Selection, error) {
	args := m.Called(ctx, statuses, limit)
	return args.Get(0).([]domain.Selection), args.Error(1)
}

func (m *MockReportRepo) ClientRequirementCounts(ctx context.Context) ([]domain.ClientRequirementCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ClientRequirementCount), args.Error(1)
}

func TestReportRequirementStats(t *testing.T) {
	ctx := context.Background()

	t.Run("Should combine summary, stages and candidate total", func(t *testing.T) {
		repo := new(MockReportRepo)
		uc := usecase.NewReportUsecase(repo, nil)

		repo.On("GetRequirementSummary", ctx, int64(3)).Return(&domain.RequirementSummary{Title: "Go Dev", NoOfRounds: 3, Status: "OPEN"}, nil)
		repo.On("CountProgressByStage", ctx, int64(3)).Return([]domain.StageCount{{StageName: "L1", Status: "COMPLETED", Count: 2}}, nil)
		repo.On("CountRequirementCandidates", ctx, int64(3)).Return(int64(4), nil)

		stats, err := uc.RequirementStats(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "Go Dev", stats.Requirement.Title)
		assert.Len(t, stats.Stats, 1)
		assert.Equal(t, int64(4), stats.TotalCandidates)
	})

	t.Run("Should return not found for an unknown requirement", func(t *testing.T) {
		repo := new(MockReportRepo)
		uc := usecase.NewReportUsecase(repo, nil)

		repo.On("GetRequirementSummary", ctx, int64(9)).Return(nil, nil)

		_, err := uc.RequirementStats(ctx, 9)
		assert.Equal(t, http.StatusNotFound, appErrorCode(t, err))
		repo.AssertNotCalled(t, "CountProgressByStage", mock.Anything, mock.Anything)
	})
}

func TestReportGeneralStats(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportRepo)
	uc := usecase.NewReportUsecase(repo, nil)

	statuses := []string{"COMPLETED"}
	repo.On("RequirementTotals", ctx).Return(domain.RequirementTotals{Total: 5, Open: 3, Closed: 2}, nil)
	repo.On("CandidateTotals", ctx).Return(domain.CandidateTotals{Total: 12}, nil)
	repo.On("CountSelections", ctx, statuses).Return(int64(2), nil)
	repo.On("RecentSelections", ctx, statuses, 10).Return([]domain.Selection{{CandidateID: 1, CandidateName: "Asha"}}, nil)
	repo.On("ClientRequirementCounts", ctx).Return([]domain.ClientRequirementCount{{ClientName: "Acme", ReqCount: 5}}, nil)

	stats, err := uc.GeneralStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Requirements.Open)
	assert.Equal(t, int64(12), stats.Candidates.Total)
	assert.Equal(t, int64(2), stats.SelectionsCount)
	assert.Len(t, stats.Selections, 1)
	assert.Equal(t, "Acme", stats.ClientStats[0].ClientName)
	repo.AssertExpectations(t)
}
