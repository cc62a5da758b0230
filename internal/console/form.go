package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"thinqor-ats/internal/domain"
	"thinqor-ats/pkg/logger"
	"thinqor-ats/pkg/security"
	"thinqor-ats/pkg/validation"

	"github.com/go-playground/validator/v10"
)

var ErrUnknownField = errors.New("unknown form field")

// FormController owns the create/edit form state.
type FormController struct {
	svc      CandidateService
	status   StatusSink
	dir      Refresher
	nav      Navigator
	audit    *security.AuditLogger
	validate *validator.Validate

	mu         sync.Mutex
	mode       Mode
	fields     Fields
	attachment *Attachment
}

func NewFormController(svc CandidateService, status StatusSink, dir Refresher, nav Navigator, audit *security.AuditLogger) *FormController {
	return &FormController{
		svc:      svc,
		status:   status,
		dir:      dir,
		nav:      nav,
		audit:    audit,
		validate: validation.New(),
	}
}

// BeginCreate clears the fields, the attachment and any edit marker.
func (f *FormController) BeginCreate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

// BeginEdit loads c into the form and targets updates at c.ID.
func (f *FormController) BeginEdit(c domain.Candidate) {
	f.mu.Lock()
	f.mode = EditMode(c.ID)
	f.fields = Fields{
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Skills:     c.Skills,
		Education:  c.Education,
		Experience: c.Experience,
		CTC:        formatAmount(c.CTC),
		ECTC:       formatAmount(c.ECTC),
	}
	f.attachment = nil
	f.mu.Unlock()

	f.status.SetStatus(Info(MsgEditing))
}

func (f *FormController) UpdateField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.fields.set(name, value) {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// SetAttachment replaces the pending upload. nil keeps the stored resume on update.
func (f *FormController) SetAttachment(a *Attachment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attachment = a
}

// Clear is BeginCreate plus clearing the status message.
func (f *FormController) Clear() {
	f.BeginCreate()
	f.status.ClearStatus()
}

func (f *FormController) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

func (f *FormController) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

func (f *FormController) Attachment() *Attachment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attachment
}

// Submit sends the form as a create or an update depending on the mode. Every outcome is
// reported through the status sink; the returned error says which one happened. Form state is
// only reset on success.
func (f *FormController) Submit(ctx context.Context, sess Session) error {
	f.mu.Lock()
	mode := f.mode
	payload := Payload{Fields: f.fields, Resume: f.attachment}
	f.mu.Unlock()

	required := payload.Fields
	required.Name = strings.TrimSpace(required.Name)
	required.Email = strings.TrimSpace(required.Email)
	if err := f.validate.Struct(required); err != nil {
		f.status.SetStatus(Failure(validation.Message(err)))
		return err
	}

	var (
		message string
		err     error
	)
	if id, editing := mode.Editing(); editing {
		message, err = f.svc.Update(ctx, id, payload)
	} else {
		payload.CreatedBy = f.resolveCreatedBy(ctx, sess)
		message, err = f.svc.Create(ctx, payload)
	}
	if err != nil {
		f.reportFailure(err, MsgSubmitFailed)
		return err
	}

	f.status.SetStatus(Success(message))
	if err := f.dir.Refresh(ctx, sess.Actor); err != nil {
		logger.Log.Warn("Refresh after submit failed", "error", err)
	}
	f.BeginCreate()

	if sess.From == RecruiterDashboardPath {
		f.nav.NavigateAfter(RecruiterDashboardPath, NavigateBackDelay)
	}
	return nil
}

// resolveCreatedBy picks the referrer when it is trusted, then the actor.
func (f *FormController) resolveCreatedBy(ctx context.Context, sess Session) *int64 {
	if sess.ReferrerID != nil && sess.TrustReferrer {
		referrer := *sess.ReferrerID
		if sess.Actor == nil || sess.Actor.ID != referrer {
			actorID := ""
			if sess.Actor != nil {
				actorID = strconv.FormatInt(sess.Actor.ID, 10)
			}
			f.audit.Log(ctx, security.AuditEvent{
				Event:        security.EventReferrerAttribution,
				SubjectType:  "user_id",
				SubjectValue: strconv.FormatInt(referrer, 10),
				ActorID:      actorID,
			})
		}
		return &referrer
	}
	if sess.Actor != nil && sess.Actor.ID > 0 {
		id := sess.Actor.ID
		return &id
	}
	return nil
}

func (f *FormController) reportFailure(err error, fallback string) {
	reportFailure(f.status, err, fallback)
}

func (f *FormController) reset() {
	f.mode = CreateMode()
	f.fields = Fields{}
	f.attachment = nil
}

func reportFailure(status StatusSink, err error, fallback string) {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		text := serverErr.Message
		if text == "" {
			text = fallback
		}
		status.SetStatus(Failure(text))
		return
	}
	logger.Log.Warn("Backend unreachable", "error", err)
	status.SetStatus(Failure(MsgUnreachable))
}

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
