// Package console holds the candidate form and directory that back the web console.
// Identity, navigation and confirmation are passed in explicitly; nothing here reads
// request or process state on its own.
package console

import (
	"context"
	"fmt"
	"time"

	"thinqor-ats/internal/domain"
)

const (
	RecruiterDashboardPath = "/recruiter-dashboard"
	NavigateBackDelay      = 1500 * time.Millisecond

	MsgEditing         = "Editing candidate..."
	MsgSubmitFailed    = "Failed to submit"
	MsgDeleteFailed    = "Failed to delete"
	MsgUnreachable     = "Server not reachable. Check backend."
	MsgDeletePrompt    = "Are you sure you want to delete this candidate?"
	MsgNoCandidates    = "No candidates found."
	MsgSettingsPending = "Settings functionality is currently being developed."
)

// Actor is the authenticated user. A nil *Actor is anonymous.
type Actor struct {
	ID   int64
	Role string
}

// Session is the identity and navigation context of one console action.
type Session struct {
	Actor *Actor
	// ReferrerID is the recruiter named by the recruiterId query parameter, if any.
	ReferrerID *int64
	// From is the path the user navigated from.
	From string
	// TrustReferrer lets ReferrerID take precedence over Actor for created_by.
	TrustReferrer bool
}

// Mode says whether a submit creates a candidate or updates one.
type Mode struct {
	id      int64
	editing bool
}

func CreateMode() Mode { return Mode{} }

func EditMode(id int64) Mode { return Mode{id: id, editing: true} }

// Editing returns the candidate being edited.
func (m Mode) Editing() (int64, bool) { return m.id, m.editing }

func (m Mode) String() string {
	if m.editing {
		return fmt.Sprintf("edit(%d)", m.id)
	}
	return "create"
}

// Fields is the free text of the form. Numbers are parsed by the backend.
type Fields struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	Skills     string `json:"skills"`
	Education  string `json:"education"`
	Experience string `json:"experience"`
	CTC        string `json:"ctc"`
	ECTC       string `json:"ectc"`
}

// FieldNames lists the form fields in display and wire order.
var FieldNames = []string{"name", "email", "phone", "skills", "education", "experience", "ctc", "ectc"}

// Get returns the named field.
func (f Fields) Get(name string) (string, bool) {
	switch name {
	case "name":
		return f.Name, true
	case "email":
		return f.Email, true
	case "phone":
		return f.Phone, true
	case "skills":
		return f.Skills, true
	case "education":
		return f.Education, true
	case "experience":
		return f.Experience, true
	case "ctc":
		return f.CTC, true
	case "ectc":
		return f.ECTC, true
	}
	return "", false
}

func (f *Fields) set(name, value string) bool {
	switch name {
	case "name":
		f.Name = value
	case "email":
		f.Email = value
	case "phone":
		f.Phone = value
	case "skills":
		f.Skills = value
	case "education":
		f.Education = value
	case "experience":
		f.Experience = value
	case "ctc":
		f.CTC = value
	case "ectc":
		f.ECTC = value
	default:
		return false
	}
	return true
}

// Attachment is a pending resume upload.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Payload is what a submit sends to the backend.
type Payload struct {
	Fields    Fields
	Resume    *Attachment
	CreatedBy *int64
}

// ServerError is a response the backend sent with a non-success status.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return e.Message
}

// CandidateService is the backend of record. The string results are the server's message.
// Errors are *ServerError when the server answered, anything else when it could not be reached.
type CandidateService interface {
	List(ctx context.Context, actor *Actor) ([]domain.Candidate, error)
	Create(ctx context.Context, p Payload) (string, error)
	Update(ctx context.Context, id int64, p Payload) (string, error)
	Delete(ctx context.Context, id int64) (string, error)
}

type StatusSink interface {
	SetStatus(s Status)
	ClearStatus()
}

// Navigator schedules a one-shot navigation.
type Navigator interface {
	NavigateAfter(to string, delay time.Duration)
}

type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

type Refresher interface {
	Refresh(ctx context.Context, actor *Actor) error
}

// Editor receives candidates picked for editing.
type Editor interface {
	BeginEdit(c domain.Candidate)
}
