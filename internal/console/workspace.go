package console

import (
	"thinqor-ats/pkg/security"
)

// Workspace is one user's console: a form and a directory sharing a status board.
type Workspace struct {
	Form      *FormController
	Directory *DirectoryView
	Status    *StatusBoard
	Nav       *DeferredNavigator
}

func NewWorkspace(svc CandidateService, audit *security.AuditLogger) *Workspace {
	status := &StatusBoard{}
	nav := &DeferredNavigator{}
	dir := NewDirectoryView(svc, status, nil)
	form := NewFormController(svc, status, dir, nav, audit)
	dir.editor = form

	return &Workspace{Form: form, Directory: dir, Status: status, Nav: nav}
}

// NeedsRefresh is true until a fetch for actor has succeeded. A failed fetch, or a
// different actor, leaves it true so the next page view tries again.
func (w *Workspace) NeedsRefresh(actor *Actor) bool {
	return !w.Directory.Current(actor)
}

func copyActor(a *Actor) *Actor {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func sameActor(a, b *Actor) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
