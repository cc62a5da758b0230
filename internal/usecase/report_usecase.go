package usecase

import (
	"context"

	"thinqor-ats/internal/domain"
	"thinqor-ats/pkg/apperror"
)

const recentSelectionsLimit = 10

type reportUsecase struct {
	repo              domain.ReportRepository
	selectionStatuses []string
}

// NewReportUsecase counts progress rows in any of selectionStatuses as selections.
func NewReportUsecase(repo domain.ReportRepository, selectionStatuses []string) domain.ReportUsecase {
	if len(selectionStatuses) == 0 {
		selectionStatuses = []string{"COMPLETED"}
	}
	return &reportUsecase{repo: repo, selectionStatuses: selectionStatuses}
}

func (u *reportUsecase) Clients(ctx context.Context) ([]domain.Client, error) {
	return u.repo.ListActiveClients(ctx)
}

func (u *reportUsecase) ClientRequirements(ctx context.Context, clientID int64) ([]domain.Requirement, error) {
	return u.repo.ListClientRequirements(ctx, clientID)
}

func (u *reportUsecase) RequirementStats(ctx context.Context, requirementID int64) (*domain.RequirementStats, error) {
	summary, err := u.repo.GetRequirementSummary(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, apperror.NotFound("Requirement not found")
	}

	stages, err := u.repo.CountProgressByStage(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	total, err := u.repo.CountRequirementCandidates(ctx, requirementID)
	if err != nil {
		return nil, err
	}

	return &domain.RequirementStats{
		Requirement:     *summary,
		Stats:           stages,
		TotalCandidates: total,
	}, nil
}

func (u *reportUsecase) GeneralStats(ctx context.Context) (*domain.GeneralStats, error) {
	var stats domain.GeneralStats
	var err error

	if stats.Requirements, err = u.repo.RequirementTotals(ctx); err != nil {
		return nil, err
	}
	if stats.Candidates, err = u.repo.CandidateTotals(ctx); err != nil {
		return nil, err
	}
	if stats.SelectionsCount, err = u.repo.CountSelections(ctx, u.selectionStatuses); err != nil {
		return nil, err
	}
	if stats.Selections, err = u.repo.RecentSelections(ctx, u.selectionStatuses, recentSelectionsLimit); err != nil {
		return nil, err
	}
	if stats.ClientStats, err = u.repo.ClientRequirementCounts(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}
