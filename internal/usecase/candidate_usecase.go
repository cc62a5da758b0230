package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"thinqor-ats/internal/domain"
	"thinqor-ats/pkg/apperror"
	"thinqor-ats/pkg/logger"
	"thinqor-ats/pkg/metrics"
	"thinqor-ats/pkg/security"
	"thinqor-ats/pkg/security/antivirus"
	"thinqor-ats/pkg/storage"
	"thinqor-ats/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type candidateUsecase struct {
	repo     domain.CandidateRepository
	store    domain.ResumeStore
	validate *validator.Validate
	audit    *security.AuditLogger
	scanner  antivirus.Scanner
	newKey   func(ext string) string
	now      func() time.Time
}

// NewCandidateUsecase wires the candidate operations. scanner may be nil, in which case uploads are only checked by content signature.
func NewCandidateUsecase(repo domain.CandidateRepository, store domain.ResumeStore, validate *validator.Validate, audit *security.AuditLogger, scanner antivirus.Scanner) domain.CandidateUsecase {
	return &candidateUsecase{
		repo:     repo,
		store:    store,
		validate: validate,
		audit:    audit,
		scanner:  scanner,
		newKey: func(ext string) string {
			return "resumes/" + uuid.NewString() + ext
		},
		now: time.Now,
	}
}

func (u *candidateUsecase) List(ctx context.Context, scope domain.ListScope) ([]domain.Candidate, error) {
	return u.repo.List(ctx, scope)
}

func (u *candidateUsecase) Create(ctx context.Context, in domain.CandidateInput) (c *domain.Candidate, err error) {
	defer func() { recordMutation("create", err) }()

	in.Normalize()
	if err := u.validate.Struct(in); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	c = &domain.Candidate{CreatedBy: in.CreatedBy}
	applyInput(c, in)

	if in.Resume != nil {
		key, err := u.storeResume(ctx, in.Resume)
		if err != nil {
			return nil, err
		}
		c.ResumePath = key
	}

	if err := u.repo.Create(ctx, c); err != nil {
		u.discardResume(ctx, c.ResumePath)
		return nil, mapRepoError(err)
	}

	u.audit.Log(ctx, security.AuditEvent{
		Event:        security.EventCandidateCreated,
		SubjectType:  "candidate",
		SubjectValue: strconv.FormatInt(c.ID, 10),
		ActorID:      formatOptionalID(c.CreatedBy),
		RequestID:    requestID(ctx),
		Details:      map[string]any{"has_resume": c.HasResume()},
	})
	return c, nil
}

// Update replaces the editable fields. The stored resume is kept unless a new one is uploaded,
// and created_by is never touched.
func (u *candidateUsecase) Update(ctx context.Context, id int64, in domain.CandidateInput) (c *domain.Candidate, err error) {
	defer func() { recordMutation("update", err) }()

	in.Normalize()
	in.CreatedBy = nil
	if err := u.validate.Struct(in); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	existing, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperror.NotFound("Candidate not found")
	}

	updated := *existing
	applyInput(&updated, in)

	if in.Resume != nil {
		key, err := u.storeResume(ctx, in.Resume)
		if err != nil {
			return nil, err
		}
		updated.ResumePath = key
	}

	// The row may have changed since the read above; only the path the
	// update actually replaced is safe to remove.
	previousResume, err := u.repo.Update(ctx, &updated)
	if err != nil {
		if in.Resume != nil {
			u.discardResume(ctx, updated.ResumePath)
		}
		return nil, mapRepoError(err)
	}
	if in.Resume != nil && previousResume != updated.ResumePath {
		u.discardResume(ctx, previousResume)
	}

	u.audit.Log(ctx, security.AuditEvent{
		Event:        security.EventCandidateUpdated,
		SubjectType:  "candidate",
		SubjectValue: strconv.FormatInt(id, 10),
		RequestID:    requestID(ctx),
		Details:      map[string]any{"resume_replaced": in.Resume != nil},
	})
	return &updated, nil
}

func (u *candidateUsecase) Delete(ctx context.Context, id int64) (err error) {
	defer func() { recordMutation("delete", err) }()

	existing, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperror.NotFound("Candidate not found")
	}

	if err := u.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	u.discardResume(ctx, existing.ResumePath)

	u.audit.Log(ctx, security.AuditEvent{
		Event:        security.EventCandidateDeleted,
		SubjectType:  "candidate",
		SubjectValue: strconv.FormatInt(id, 10),
		RequestID:    requestID(ctx),
	})
	return nil
}

// OpenResume returns the stored resume with its content type and a download file name.
func (u *candidateUsecase) OpenResume(ctx context.Context, id int64) (io.ReadCloser, string, string, error) {
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", "", err
	}
	if c == nil {
		return nil, "", "", apperror.NotFound("Candidate not found")
	}
	if !c.HasResume() {
		return nil, "", "", apperror.New(http.StatusNotFound, "Resume not found", domain.ErrNoResume)
	}

	body, contentType, err := u.store.Get(ctx, c.ResumePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, "", "", apperror.New(http.StatusNotFound, "Resume not found", err)
		}
		return nil, "", "", fmt.Errorf("failed to open resume: %w", err)
	}
	return body, contentType, resumeFilename(c.Name, c.ResumePath), nil
}

func (u *candidateUsecase) storeResume(ctx context.Context, upload *domain.ResumeUpload) (string, error) {
	result := security.ValidateResume(upload.Filename, upload.Data)
	if !result.Valid {
		u.audit.Log(ctx, security.AuditEvent{
			Event:     security.EventUploadRejected,
			RequestID: requestID(ctx),
			Details: map[string]any{
				"filename": upload.Filename,
				"reason":   result.Error,
				"mime":     result.DetectedMIME,
			},
		})
		return "", apperror.BadRequest("Invalid resume: " + result.Error)
	}

	if u.scanner != nil {
		verdict, err := u.scanner.Scan(ctx, upload.Filename, upload.Data)
		if err != nil {
			logger.Log.Error("Resume scan failed", "scanner", u.scanner.Name(), "error", err)
			return "", apperror.Unavailable("Resume scanning is unavailable. Please try again later.", err)
		}
		if verdict.Infected {
			u.audit.Log(ctx, security.AuditEvent{
				Event:     security.EventUploadRejected,
				RequestID: requestID(ctx),
				Details: map[string]any{
					"filename": upload.Filename,
					"reason":   "malware",
					"threat":   verdict.ThreatName,
				},
			})
			return "", apperror.BadRequest("Invalid resume: file failed the malware scan")
		}
	}

	key := u.newKey(result.Extension)
	if err := u.store.Put(ctx, key, upload.Data, security.ResumeContentTypes[result.Extension]); err != nil {
		return "", fmt.Errorf("failed to store resume: %w", err)
	}
	metrics.ResumeBytesStored.Add(float64(len(upload.Data)))
	return key, nil
}

// discardResume removes an object that is no longer referenced. Failures only leave an orphan.
func (u *candidateUsecase) discardResume(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := u.store.Delete(ctx, key); err != nil {
		logger.Log.Warn("Failed to delete resume object", "key", key, "error", err)
	}
}

func applyInput(c *domain.Candidate, in domain.CandidateInput) {
	c.Name = in.Name
	c.Email = in.Email
	c.Phone = in.Phone
	c.Skills = in.Skills
	c.Education = in.Education
	c.Experience = in.Experience
	c.CTC = in.CTC
	c.ECTC = in.ECTC
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return apperror.New(http.StatusConflict, "Candidate with this email already exists", err)
	case errors.Is(err, domain.ErrCandidateNotFound):
		return apperror.New(http.StatusNotFound, "Candidate not found", err)
	default:
		return err
	}
}

func recordMutation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code < http.StatusInternalServerError {
			outcome = "rejected"
		}
	}
	metrics.CandidateMutationsTotal.WithLabelValues(operation, outcome).Inc()
}

func resumeFilename(name, key string) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '_'
		default:
			return -1
		}
	}, strings.TrimSpace(name))
	if base == "" {
		base = "candidate"
	}
	return base + "_resume" + path.Ext(key)
}

func formatOptionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(domain.KeyRequestID).(string)
	return id
}
