package usecase_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"thinqor-ats/internal/domain"
	"thinqor-ats/internal/usecase"
	"thinqor-ats/pkg/apperror"
	"thinqor-ats/pkg/security"
	"thinqor-ats/pkg/security/antivirus"
	"thinqor-ats/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mock Repositories
type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) List(ctx context.Context, scope domain.ListScope) ([]domain.Candidate, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCandidateRepo) Update(ctx context.Context, c *domain.Candidate) (string, error) {
	args := m.Called(ctx, c)
	return args.String(0), args.Error(1)
}

func (m *MockCandidateRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockResumeStore struct {
	mock.Mock
}

func (m *MockResumeStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}

func (m *MockResumeStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}

func (m *MockResumeStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

var pdfBytes = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

func newCandidateUsecase(repo *MockCandidateRepo, store *MockResumeStore) domain.CandidateUsecase {
	audit := security.WrapAuditLogger(zap.NewNop(), "ats-api", "test")
	return usecase.NewCandidateUsecase(repo, store, validation.New(), audit, nil)
}

type stubScanner struct {
	result antivirus.Result
	err    error
}

func (s stubScanner) Scan(context.Context, string, []byte) (antivirus.Result, error) {
	return s.result, s.err
}

func (s stubScanner) Name() string { return "stub" }

func ptr[T any](v T) *T { return &v }

func appErrorCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func isResumeKey(ext string) any {
	return mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "resumes/") && strings.HasSuffix(key, ext)
	})
}

func TestCandidateCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Should persist created_by and store the resume", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		store := new(MockResumeStore)
		uc := newCandidateUsecase(repo, store)

		store.On("Put", ctx, isResumeKey(".pdf"), pdfBytes, "application/pdf").Return(nil)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Candidate")).Return(nil).Run(func(args mock.Arguments) {
			c := args.Get(1).(*domain.Candidate)
			c.ID = 42
		})

		c, err := uc.Create(ctx, domain.CandidateInput{
			Name:      "  Asha Rao ",
			Email:     "asha@example.com",
			CTC:       ptr(6.5),
			CreatedBy: ptr(int64(7)),
			Resume:    &domain.ResumeUpload{Filename: "asha.pdf", Data: pdfBytes},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(42), c.ID)
		assert.Equal(t, "Asha Rao", c.Name)
		assert.Equal(t, int64(7), *c.CreatedBy)
		assert.True(t, strings.HasPrefix(c.ResumePath, "resumes/"))
		repo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("Should reject missing name and invalid email before touching storage", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		store := new(MockResumeStore)
		uc := newCandidateUsecase(repo, store)

		_, err := uc.Create(ctx, domain.CandidateInput{Email: "asha@example.com"})
		assert.Equal(t, http.StatusBadRequest, appErrorCode(t, err))
		assert.Equal(t, "name is required", err.Error())

		_, err = uc.Create(ctx, domain.CandidateInput{Name: "Asha", Email: "asha"})
		assert.Equal(t, "email must be a valid email address", err.Error())

		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should accept free-text phone numbers", func(t *testing.T) {
		for _, phone := range []string{"N/A", "+91 98765 43210 ext 12", "98765 43210 / 91234 56789"} {
			repo := new(MockCandidateRepo)
			uc := newCandidateUsecase(repo, new(MockResumeStore))

			repo.On("Create", ctx, mock.AnythingOfType("*domain.Candidate")).Return(nil)

			c, err := uc.Create(ctx, domain.CandidateInput{Name: "Asha", Email: "asha@example.com", Phone: phone})
			require.NoError(t, err, phone)
			assert.Equal(t, phone, c.Phone)
			repo.AssertExpectations(t)
		}
	})

	t.Run("Should reject a spoofed resume", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		store := new(MockResumeStore)
		uc := newCandidateUsecase(repo, store)

		_, err := uc.Create(ctx, domain.CandidateInput{
			Name:   "Asha",
			Email:  "asha@example.com",
			Resume: &domain.ResumeUpload{Filename: "asha.pdf", Data: []byte("MZ\x90\x00binary")},
		})
		assert.Equal(t, http.StatusBadRequest, appErrorCode(t, err))
		assert.Contains(t, err.Error(), "Invalid resume")
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should map duplicate email to conflict and discard the stored resume", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		store := new(MockResumeStore)
		uc := newCandidateUsecase(repo, store)

		store.On("Put", ctx, isResumeKey(".pdf"), pdfBytes, "application/pdf").Return(nil)
		store.On("Delete", ctx, isResumeKey(".pdf")).Return(nil)
		repo.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicateEmail)

		_, err := uc.Create(ctx, domain.CandidateInput{
			Name:   "Asha",
			Email:  "asha@example.com",
			Resume: &domain.ResumeUpload{Filename: "asha.pdf", Data: pdfBytes},
		})
		assert.Equal(t, http.StatusConflict, appErrorCode(t, err))
		store.AssertCalled(t, "Delete", ctx, isResumeKey(".pdf"))
	})

	t.Run("Should reject a resume the scanner flags", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		store := new(MockResumeStore)
		audit := security.WrapAuditLogger(zap.NewNop(), "ats-api", "test")
		scanner := stubScanner{result: antivirus.Result{Infected: true, ThreatName: "Eicar-Signature"}}
		uc := usecase.NewCandidateUsecase(repo, store, validation.New(), audit, scanner)

		_, err := uc.Create(ctx, domain.CandidateInput{
			Name:   "Asha",
			Email:  "asha@example.com",
			Resume: &domain.ResumeUpload{Filename: "asha.pdf", Data: pdfBytes},
		})
		assert.Equal(t, http.StatusBadRequest, appErrorCode(t, err))
		assert.Contains(t, err.Error(), "malware")
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should refuse uploads while the scanner is unreachable", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		store := new(MockResumeStore)
		audit := security.WrapAuditLogger(zap.NewNop(), "ats-api", "test")
		scanner := stubScanner{err: antivirus.ErrUnavailable}
		uc := usecase.NewCandidateUsecase(repo, store, validation.New(), audit, scanner)

		_, err := uc.Create(ctx, domain.CandidateInput{
			Name:   "Asha",
			Email:  "asha@example.com",
			Resume: &domain.ResumeUpload{Filename: "asha.pdf", Data: pdfBytes},
		})
		assert.Equal(t, http.StatusServiceUnavailable, appErrorCode(t, err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCandidateUpdate(t *testing.T) {
	ctx := context.Background()
	existing := &domain.Candidate{
		ID:         1,
		Name:       "A",
		Email:      "a@example.com",
		Skills:     "Go",
		CTC:        ptr(5.0),
		ResumePath: "resumes/old.pdf",
		CreatedBy:  ptr(int64(3)),
	}

	t.Run("Should keep the existing resume and created_by when no file is sent", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		store := new(MockResumeStore)
		uc := newCandidateUsecase(repo, store)

		repo.On("GetByID", ctx, int64(1)).Return(existing, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*domain.Candidate")).Return("resumes/old.pdf", nil).Run(func(args mock.Arguments) {
			c := args.Get(1).(*domain.Candidate)
			assert.Equal(t, "resumes/old.pdf", c.ResumePath)
			assert.Equal(t, int64(3), *c.CreatedBy)
			assert.Equal(t, "Go, SQL", c.Skills)
			assert.Equal(t, 5.0, *c.CTC)
		})

		c, err := uc.Update(ctx, 1, domain.CandidateInput{
			Name:      "A",
			Email:     "a@example.com",
			Skills:    "Go, SQL",
			CTC:       ptr(5.0),
			CreatedBy: ptr(int64(99)),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), *c.CreatedBy)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Should replace the resume and remove the old object after the update", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		store := new(MockResumeStore)
		uc := newCandidateUsecase(repo, store)

		repo.On("GetByID", ctx, int64(1)).Return(existing, nil)
		store.On("Put", ctx, isResumeKey(".pdf"), pdfBytes, "application/pdf").Return(nil)
		repo.On("Update", ctx, mock.Anything).Return("resumes/old.pdf", nil)
		store.On("Delete", ctx, "resumes/old.pdf").Return(nil)

		c, err := uc.Update(ctx, 1, domain.CandidateInput{
			Name:   "A",
			Email:  "a@example.com",
			Resume: &domain.ResumeUpload{Filename: "new.pdf", Data: pdfBytes},
		})
		require.NoError(t, err)
		assert.NotEqual(t, "resumes/old.pdf", c.ResumePath)
		store.AssertExpectations(t)
	})

	t.Run("Should remove the resume the update replaced, not the one read earlier", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		store := new(MockResumeStore)
		uc := newCandidateUsecase(repo, store)

		// A concurrent update swapped the resume between the read and the write.
		repo.On("GetByID", ctx, int64(1)).Return(existing, nil)
		store.On("Put", ctx, isResumeKey(".pdf"), pdfBytes, "application/pdf").Return(nil)
		repo.On("Update", ctx, mock.Anything).Return("resumes/concurrent.pdf", nil)
		store.On("Delete", ctx, "resumes/concurrent.pdf").Return(nil)

		_, err := uc.Update(ctx, 1, domain.CandidateInput{
			Name:   "A",
			Email:  "a@example.com",
			Resume: &domain.ResumeUpload{Filename: "new.pdf", Data: pdfBytes},
		})
		require.NoError(t, err)
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "Delete", ctx, "resumes/old.pdf")
	})

	t.Run("Should discard the new resume when the row is gone at write time", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		store := new(MockResumeStore)
		uc := newCandidateUsecase(repo, store)

		repo.On("GetByID", ctx, int64(1)).Return(existing, nil)
		store.On("Put", ctx, isResumeKey(".pdf"), pdfBytes, "application/pdf").Return(nil)
		repo.On("Update", ctx, mock.Anything).Return("", domain.ErrCandidateNotFound)
		store.On("Delete", ctx, isResumeKey(".pdf")).Return(nil)

		_, err := uc.Update(ctx, 1, domain.CandidateInput{
			Name:   "A",
			Email:  "a@example.com",
			Resume: &domain.ResumeUpload{Filename: "new.pdf", Data: pdfBytes},
		})
		assert.Equal(t, http.StatusNotFound, appErrorCode(t, err))
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "Delete", ctx, "resumes/old.pdf")
	})

	t.Run("Should return not found for an unknown candidate", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := newCandidateUsecase(repo, new(MockResumeStore))

		repo.On("GetByID", ctx, int64(404)).Return(nil, nil)

		_, err := uc.Update(ctx, 404, domain.CandidateInput{Name: "A", Email: "a@example.com"})
		assert.Equal(t, http.StatusNotFound, appErrorCode(t, err))
	})
}

func TestCandidateDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Should delete the row and its resume", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		store := new(MockResumeStore)
		uc := newCandidateUsecase(repo, store)

		repo.On("GetByID", ctx, int64(5)).Return(&domain.Candidate{ID: 5, ResumePath: "resumes/x.docx"}, nil)
		repo.On("Delete", ctx, int64(5)).Return(nil)
		store.On("Delete", ctx, "resumes/x.docx").Return(nil)

		require.NoError(t, uc.Delete(ctx, 5))
		repo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("Should not fail when the resume object is already gone", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		store := new(MockResumeStore)
		uc := newCandidateUsecase(repo, store)

		repo.On("GetByID", ctx, int64(5)).Return(&domain.Candidate{ID: 5, ResumePath: "resumes/x.docx"}, nil)
		repo.On("Delete", ctx, int64(5)).Return(nil)
		store.On("Delete", ctx, "resumes/x.docx").Return(errors.New("bucket unreachable"))

		assert.NoError(t, uc.Delete(ctx, 5))
	})

	t.Run("Should return not found for an unknown candidate", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := newCandidateUsecase(repo, new(MockResumeStore))

		repo.On("GetByID", ctx, int64(8)).Return(nil, nil)

		err := uc.Delete(ctx, 8)
		assert.Equal(t, http.StatusNotFound, appErrorCode(t, err))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestCandidateOpenResume(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCandidateRepo)
	store := new(MockResumeStore)
	uc := newCandidateUsecase(repo, store)

	repo.On("GetByID", ctx, int64(1)).Return(&domain.Candidate{ID: 1, Name: "Asha Rao", ResumePath: "resumes/abc.pdf"}, nil)
	repo.On("GetByID", ctx, int64(2)).Return(&domain.Candidate{ID: 2, Name: "No File"}, nil)
	store.On("Get", ctx, "resumes/abc.pdf").Return(io.NopCloser(strings.NewReader("%PDF")), "application/pdf", nil)

	body, contentType, filename, err := uc.OpenResume(ctx, 1)
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, "Asha_Rao_resume.pdf", filename)

	_, _, _, err = uc.OpenResume(ctx, 2)
	assert.Equal(t, http.StatusNotFound, appErrorCode(t, err))
}

func TestCandidateExport(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCandidateRepo)
	uc := newCandidateUsecase(repo, new(MockResumeStore))

	scope := domain.ListScope{UserID: ptr(int64(7)), Role: "RECRUITER"}
	repo.On("List", ctx, scope).Return([]domain.Candidate{
		{ID: 1, Name: "Asha", Email: "asha@example.com", CTC: ptr(6.0)},
	}, nil)

	data, filename, err := uc.Export(ctx, scope)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "candidates_"))
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))
	assert.Equal(t, []byte("PK"), data[:2])
}
