package postgres

import (
	"context"
	"errors"
	"fmt"

	"thinqor-ats/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const candidateColumns = `
	id, name, email, phone, skills, education, experience,
	ctc, ectc, resume_path, created_by, created_at, updated_at`

type candidateRepository struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

func scanCandidate(row pgx.Row) (*domain.Candidate, error) {
	var c domain.Candidate
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Skills, &c.Education, &c.Experience,
		&c.CTC, &c.ECTC, &c.ResumePath, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *candidateRepository) List(ctx context.Context, scope domain.ListScope) ([]domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates`
	var args []any
	if !scope.Unrestricted() {
		query += ` WHERE created_by = $1`
		args = append(args, *scope.UserID)
	}
	query += ` ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]domain.Candidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return candidates, nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`

	c, err := scanCandidate(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, nil
}

func (r *candidateRepository) Create(ctx context.Context, c *domain.Candidate) error {
	query := `
		INSERT INTO candidates (
			name, email, phone, skills, education, experience,
			ctc, ectc, resume_path, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		c.Name, c.Email, c.Phone, c.Skills, c.Education, c.Experience,
		c.CTC, c.ECTC, c.ResumePath, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

// Update rewrites the editable columns and returns the resume_path the row
// held just before the write. created_by is never part of the statement.
func (r *candidateRepository) Update(ctx context.Context, c *domain.Candidate) (string, error) {
	query := `
		WITH prev AS (
			SELECT id, resume_path FROM candidates WHERE id = $10 FOR UPDATE
		)
		UPDATE candidates c SET
			name = $1, email = $2, phone = $3, skills = $4, education = $5,
			experience = $6, ctc = $7, ectc = $8, resume_path = $9, updated_at = NOW()
		FROM prev
		WHERE c.id = prev.id
		RETURNING c.updated_at, prev.resume_path`

	var previous string
	err := r.db.QueryRow(ctx, query,
		c.Name, c.Email, c.Phone, c.Skills, c.Education,
		c.Experience, c.CTC, c.ECTC, c.ResumePath, c.ID,
	).Scan(&c.UpdatedAt, &previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrCandidateNotFound
		}
		if isUniqueViolation(err) {
			return "", domain.ErrDuplicateEmail
		}
		return "", fmt.Errorf("failed to update candidate: %w", err)
	}
	return previous, nil
}

func (r *candidateRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCandidateNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
