package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"thinqor-ats/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) domain.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) ListActiveClients(ctx context.Context) ([]domain.Client, error) {
	clients := []domain.Client{}
	err := r.db.SelectContext(ctx, &clients,
		`SELECT id, name FROM clients WHERE status = 'ACTIVE' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (r *reportRepository) ListClientRequirements(ctx context.Context, clientID int64) ([]domain.Requirement, error) {
	reqs := []domain.Requirement{}
	err := r.db.SelectContext(ctx, &reqs,
		`SELECT id, title, status, created_at FROM requirements WHERE client_id = $1 ORDER BY created_at DESC`,
		clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	return reqs, nil
}

func (r *reportRepository) GetRequirementSummary(ctx context.Context, requirementID int64) (*domain.RequirementSummary, error) {
	var summary domain.RequirementSummary
	err := r.db.GetContext(ctx, &summary,
		`SELECT title, no_of_rounds, status FROM requirements WHERE id = $1`, requirementID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get requirement: %w", err)
	}
	return &summary, nil
}

func (r *reportRepository) CountProgressByStage(ctx context.Context, requirementID int64) ([]domain.StageCount, error) {
	counts := []domain.StageCount{}
	err := r.db.SelectContext(ctx, &counts, `
		SELECT stage_name, status, COUNT(*) AS count
		FROM candidate_progress
		WHERE requirement_id = $1
		GROUP BY stage_name, status
		ORDER BY stage_name, status`, requirementID)
	if err != nil {
		return nil, fmt.Errorf("failed to count progress: %w", err)
	}
	return counts, nil
}

func (r *reportRepository) CountRequirementCandidates(ctx context.Context, requirementID int64) (int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(DISTINCT candidate_id) FROM candidate_progress WHERE requirement_id = $1`, requirementID)
	if err != nil {
		return 0, fmt.Errorf("failed to count requirement candidates: %w", err)
	}
	return total, nil
}

func (r *reportRepository) RequirementTotals(ctx context.Context) (domain.RequirementTotals, error) {
	var totals domain.RequirementTotals
	err := r.db.GetContext(ctx, &totals, `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'OPEN') AS open_reqs,
			COUNT(*) FILTER (WHERE status = 'CLOSED') AS closed_reqs
		FROM requirements`)
	if err != nil {
		return totals, fmt.Errorf("failed to count requirements: %w", err)
	}
	return totals, nil
}

func (r *reportRepository) CandidateTotals(ctx context.Context) (domain.CandidateTotals, error) {
	var totals domain.CandidateTotals
	if err := r.db.GetContext(ctx, &totals, `SELECT COUNT(*) AS total FROM candidates`); err != nil {
		return totals, fmt.Errorf("failed to count candidates: %w", err)
	}
	return totals, nil
}

func (r *reportRepository) CountSelections(ctx context.Context, statuses []string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM candidate_progress WHERE status = ANY($1)`, pq.Array(statuses))
	if err != nil {
		return 0, fmt.Errorf("failed to count selections: %w", err)
	}
	return count, nil
}

func (r *reportRepository) RecentSelections(ctx context.Context, statuses []string, limit int) ([]domain.Selection, error) {
	selections := []domain.Selection{}
	err := r.db.SelectContext(ctx, &selections, `
		SELECT cp.candidate_id, c.name AS candidate_name, rq.title AS requirement_title, cp.updated_at
		FROM candidate_progress cp
		JOIN candidates c ON c.id = cp.candidate_id
		JOIN requirements rq ON rq.id = cp.requirement_id
		WHERE cp.status = ANY($1)
		ORDER BY cp.updated_at DESC
		LIMIT $2`, pq.Array(statuses), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list selections: %w", err)
	}
	return selections, nil
}

func (r *reportRepository) ClientRequirementCounts(ctx context.Context) ([]domain.ClientRequirementCount, error) {
	counts := []domain.ClientRequirementCount{}
	err := r.db.SelectContext(ctx, &counts, `
		SELECT c.name AS client_name, COUNT(rq.id) AS req_count
		FROM clients c
		LEFT JOIN requirements rq ON rq.client_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to count client requirements: %w", err)
	}
	return counts, nil
}
