package domain

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// Roles that see every candidate regardless of who created it.
const (
	RoleAdmin           = "ADMIN"
	RoleDeliveryManager = "DELIVERY_MANAGER"
	RoleRecruiter       = "RECRUITER"
)

var (
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrDuplicateEmail    = errors.New("candidate email already exists")
	ErrNoResume          = errors.New("candidate has no resume")
)

// Candidate is a job applicant record as stored and as listed by /get-candidates.
type Candidate struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Skills     string    `json:"skills"`
	Education  string    `json:"education"`
	Experience string    `json:"experience"`
	CTC        *float64  `json:"ctc"`
	ECTC       *float64  `json:"ectc"`
	ResumePath string    `json:"resume_path,omitempty"`
	CreatedBy  *int64    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasResume reports whether an attachment is stored for the candidate.
func (c Candidate) HasResume() bool {
	return c.ResumePath != ""
}

// CandidateInput carries the editable fields of a create or update.
type CandidateInput struct {
	Name       string   `json:"name" validate:"required,max=255"`
	Email      string   `json:"email" validate:"required,email,max=255"`
	Phone      string   `json:"phone" validate:"max=32"`
	Skills     string   `json:"skills" validate:"max=2000"`
	Education  string   `json:"education" validate:"max=4000"`
	Experience string   `json:"experience" validate:"max=4000"`
	CTC        *float64 `json:"ctc" validate:"omitempty,gte=0"`
	ECTC       *float64 `json:"ectc" validate:"omitempty,gte=0"`
	// CreatedBy is honoured on create only.
	CreatedBy *int64        `json:"created_by" validate:"omitempty,gt=0"`
	Resume    *ResumeUpload `json:"-"`
}

// Normalize trims surrounding whitespace from every text field.
func (in *CandidateInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Skills = strings.TrimSpace(in.Skills)
	in.Education = strings.TrimSpace(in.Education)
	in.Experience = strings.TrimSpace(in.Experience)
}

// ResumeUpload is a resume file received with a create or update.
type ResumeUpload struct {
	Filename string
	Data     []byte
}

// ListScope narrows /get-candidates to what the requesting actor may see.
type ListScope struct {
	UserID *int64
	Role   string
}

// Unrestricted reports whether the scope sees every candidate.
func (s ListScope) Unrestricted() bool {
	if s.UserID == nil {
		return true
	}
	switch strings.ToUpper(strings.TrimSpace(s.Role)) {
	case RoleAdmin, RoleDeliveryManager:
		return true
	}
	return false
}

type CandidateRepository interface {
	List(ctx context.Context, scope ListScope) ([]Candidate, error)
	GetByID(ctx context.Context, id int64) (*Candidate, error)
	Create(ctx context.Context, c *Candidate) error
	// Update returns the resume_path the row held before the write.
	Update(ctx context.Context, c *Candidate) (string, error)
	Delete(ctx context.Context, id int64) error
}

// ResumeStore keeps resume objects by key.
type ResumeStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

type CandidateUsecase interface {
	List(ctx context.Context, scope ListScope) ([]Candidate, error)
	Create(ctx context.Context, in CandidateInput) (*Candidate, error)
	Update(ctx context.Context, id int64, in CandidateInput) (*Candidate, error)
	Delete(ctx context.Context, id int64) error
	OpenResume(ctx context.Context, id int64) (io.ReadCloser, string, string, error)
	Export(ctx context.Context, scope ListScope) ([]byte, string, error)
}
