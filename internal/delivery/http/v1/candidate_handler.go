package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"thinqor-ats/internal/domain"
	"thinqor-ats/internal/delivery/http/response"
	"thinqor-ats/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// multipart overhead allowed on top of the resume itself
const formOverheadBytes = 1 << 20

type CandidateHandler struct {
	candidateUC    domain.CandidateUsecase
	maxResumeBytes int64
}

// NewCandidateHandler registers the legacy candidate routes on root and the export on v1.
// uploadLimit guards the routes that accept a resume; nil means no extra limit.
func NewCandidateHandler(root, v1 *gin.RouterGroup, candidateUC domain.CandidateUsecase, maxResumeBytes int64, uploadLimit gin.HandlerFunc) {
	handler := &CandidateHandler{candidateUC: candidateUC, maxResumeBytes: maxResumeBytes}

	uploads := []gin.HandlerFunc{}
	if uploadLimit != nil {
		uploads = append(uploads, uploadLimit)
	}

	root.GET("/get-candidates", handler.ListCandidates)
	root.POST("/submit-candidate", append(uploads, handler.SubmitCandidate)...)
	root.PUT("/update-candidate/:id", append(uploads, handler.UpdateCandidate)...)
	root.DELETE("/delete-candidate/:id", handler.DeleteCandidate)
	root.GET("/candidate-resume/:id", handler.DownloadResume)

	v1.GET("/candidates/export", handler.ExportCandidates)
}

// ListCandidates godoc
// @Summary      List candidates
// @Description  Returns every candidate for admins, delivery managers and unscoped callers; otherwise only the candidates the user created
// @Tags         candidates
// @Produce      json
// @Param        user_id    query     int     false  "Requesting user ID"
// @Param        user_role  query     string  false  "Requesting user role"
// @Success      200  {array}   domain.Candidate
// @Failure      400  {object}  response.Response
// @Router       /get-candidates [get]
func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	scope, err := parseScope(c)
	if err != nil {
		c.Error(err)
		return
	}

	candidates, err := h.candidateUC.List(c.Request.Context(), scope)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, candidates)
}

// SubmitCandidate godoc
// @Summary      Submit a candidate
// @Tags         candidates
// @Accept       multipart/form-data
// @Produce      json
// @Param        name        formData  string  true   "Full name"
// @Param        email       formData  string  true   "Email"
// @Param        phone       formData  string  false  "Phone"
// @Param        skills      formData  string  false  "Skills"
// @Param        education   formData  string  false  "Education"
// @Param        experience  formData  string  false  "Experience"
// @Param        ctc         formData  number  false  "Current CTC"
// @Param        ectc        formData  number  false  "Expected CTC"
// @Param        created_by  formData  int     false  "Creating user ID"
// @Param        resume      formData  file    false  "Resume (.pdf, .doc, .docx)"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      413  {object}  response.Response
// @Router       /submit-candidate [post]
func (h *CandidateHandler) SubmitCandidate(c *gin.Context) {
	in, err := h.parseInput(c)
	if err != nil {
		c.Error(err)
		return
	}

	candidate, err := h.candidateUC.Create(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Candidate submitted successfully", gin.H{"id": candidate.ID})
}

// UpdateCandidate godoc
// @Summary      Update a candidate
// @Description  Replaces the editable fields. The stored resume is kept unless a new file is sent; created_by is ignored.
// @Tags         candidates
// @Accept       multipart/form-data
// @Produce      json
// @Param        id      path      int   true   "Candidate ID"
// @Param        resume  formData  file  false  "Replacement resume"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /update-candidate/{id} [put]
func (h *CandidateHandler) UpdateCandidate(c *gin.Context) {
	id, err := candidateID(c)
	if err != nil {
		c.Error(err)
		return
	}

	in, err := h.parseInput(c)
	if err != nil {
		c.Error(err)
		return
	}

	if _, err := h.candidateUC.Update(c.Request.Context(), id, in); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate updated successfully", nil)
}

// DeleteCandidate godoc
// @Summary      Delete a candidate
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /delete-candidate/{id} [delete]
func (h *CandidateHandler) DeleteCandidate(c *gin.Context) {
	id, err := candidateID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.candidateUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate deleted successfully", nil)
}

// DownloadResume godoc
// @Summary      Download a candidate's resume
// @Tags         candidates
// @Produce      application/octet-stream
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {file}    file
// @Failure      404  {object}  response.Response
// @Router       /candidate-resume/{id} [get]
func (h *CandidateHandler) DownloadResume(c *gin.Context) {
	id, err := candidateID(c)
	if err != nil {
		c.Error(err)
		return
	}

	body, contentType, filename, err := h.candidateUC.OpenResume(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, body, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, filename),
	})
}

// ExportCandidates godoc
// @Summary      Export candidates to Excel
// @Description  Downloads the same list /get-candidates returns for the given scope as an xlsx workbook
// @Tags         candidates
// @Produce      application/octet-stream
// @Param        user_id    query  int     false  "Requesting user ID"
// @Param        user_role  query  string  false  "Requesting user role"
// @Success      200  {file}    file
// @Router       /v1/candidates/export [get]
func (h *CandidateHandler) ExportCandidates(c *gin.Context) {
	scope, err := parseScope(c)
	if err != nil {
		c.Error(err)
		return
	}

	data, filename, err := h.candidateUC.Export(c.Request.Context(), scope)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *CandidateHandler) parseInput(c *gin.Context) (domain.CandidateInput, error) {
	var in domain.CandidateInput

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxResumeBytes+formOverheadBytes)
	if err := c.Request.ParseMultipartForm(formOverheadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return in, apperror.TooLarge(h.tooLargeMessage())
		}
		return in, apperror.BadRequest("Invalid form data")
	}

	in.Name = c.PostForm("name")
	in.Email = c.PostForm("email")
	in.Phone = c.PostForm("phone")
	in.Skills = c.PostForm("skills")
	in.Education = c.PostForm("education")
	in.Experience = c.PostForm("experience")

	var err error
	if in.CTC, err = optionalFloatField(c, "ctc"); err != nil {
		return in, err
	}
	if in.ECTC, err = optionalFloatField(c, "ectc"); err != nil {
		return in, err
	}
	if raw := strings.TrimSpace(c.PostForm("created_by")); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return in, apperror.BadRequest("created_by must be an integer")
		}
		in.CreatedBy = &v
	}

	header, err := c.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil
	}
	if err != nil {
		return in, apperror.BadRequest("Invalid resume upload")
	}
	if header.Size > h.maxResumeBytes {
		return in, apperror.TooLarge(h.tooLargeMessage())
	}

	file, err := header.Open()
	if err != nil {
		return in, fmt.Errorf("failed to open uploaded resume: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxResumeBytes+1))
	if err != nil {
		return in, fmt.Errorf("failed to read uploaded resume: %w", err)
	}
	if int64(len(data)) > h.maxResumeBytes {
		return in, apperror.TooLarge(h.tooLargeMessage())
	}
	if len(data) > 0 {
		in.Resume = &domain.ResumeUpload{Filename: header.Filename, Data: data}
	}
	return in, nil
}

func (h *CandidateHandler) tooLargeMessage() string {
	return fmt.Sprintf("Resume must be at most %d MB", h.maxResumeBytes>>20)
}

func optionalFloatField(c *gin.Context, field string) (*float64, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperror.BadRequest(field + " must be a number")
	}
	return &v, nil
}

func candidateID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("Invalid candidate ID")
	}
	return id, nil
}

// parseScope reads user_id and user_role from the query string.
func parseScope(c *gin.Context) (domain.ListScope, error) {
	scope := domain.ListScope{Role: c.Query("user_role")}
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return scope, apperror.BadRequest("Invalid user_id")
		}
		scope.UserID = &id
	}
	return scope, nil
}
