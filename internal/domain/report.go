package domain

import (
	"context"
	"time"
)

type Client struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Requirement struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type RequirementSummary struct {
	Title      string `json:"title" db:"title"`
	NoOfRounds int    `json:"no_of_rounds" db:"no_of_rounds"`
	Status     string `json:"status" db:"status"`
}

// StageCount is the number of progress rows for one stage and status.
type StageCount struct {
	StageName string `json:"stage_name" db:"stage_name"`
	Status    string `json:"status" db:"status"`
	Count     int64  `json:"count" db:"count"`
}

type RequirementStats struct {
	Requirement     RequirementSummary `json:"requirement"`
	Stats           []StageCount       `json:"stats"`
	TotalCandidates int64              `json:"total_candidates"`
}

type RequirementTotals struct {
	Total  int64 `json:"total" db:"total"`
	Open   int64 `json:"open_reqs" db:"open_reqs"`
	Closed int64 `json:"closed_reqs" db:"closed_reqs"`
}

type ClientRequirementCount struct {
	ClientName string `json:"client_name" db:"client_name"`
	ReqCount   int64  `json:"req_count" db:"req_count"`
}

// Selection is a candidate whose progress on a requirement reached a selection status.
type Selection struct {
	CandidateID      int64     `json:"candidate_id" db:"candidate_id"`
	CandidateName    string    `json:"candidate_name" db:"candidate_name"`
	RequirementTitle string    `json:"requirement_title" db:"requirement_title"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

type GeneralStats struct {
	Requirements    RequirementTotals        `json:"requirements"`
	Candidates      CandidateTotals          `json:"candidates"`
	SelectionsCount int64                    `json:"selections_count"`
	Selections      []Selection              `json:"selections"`
	ClientStats     []ClientRequirementCount `json:"client_stats"`
}

type CandidateTotals struct {
	Total int64 `json:"total" db:"total"`
}

type ReportRepository interface {
	ListActiveClients(ctx context.Context) ([]Client, error)
	ListClientRequirements(ctx context.Context, clientID int64) ([]Requirement, error)
	GetRequirementSummary(ctx context.Context, requirementID int64) (*RequirementSummary, error)
	CountProgressByStage(ctx context.Context, requirementID int64) ([]StageCount, error)
	CountRequirementCandidates(ctx context.Context, requirementID int64) (int64, error)
	RequirementTotals(ctx context.Context) (RequirementTotals, error)
	CandidateTotals(ctx context.Context) (CandidateTotals, error)
	CountSelections(ctx context.Context, statuses []string) (int64, error)
	RecentSelections(ctx context.Context, statuses []string, limit int) ([]Selection, error)
	ClientRequirementCounts(ctx context.Context) ([]ClientRequirementCount, error)
}

type ReportUsecase interface {
	Clients(ctx context.Context) ([]Client, error)
	ClientRequirements(ctx context.Context, clientID int64) ([]Requirement, error)
	RequirementStats(ctx context.Context, requirementID int64) (*RequirementStats, error)
	GeneralStats(ctx context.Context) (*GeneralStats, error)
}
