package console

import (
	"context"
	"sync"

	"thinqor-ats/internal/domain"
	"thinqor-ats/pkg/logger"
)

// Row is one rendered directory line.
type Row struct {
	ID     int64
	Name   string
	Email  string
	Phone  string
	Skills string
	CTC    string
	ECTC   string
}

// DirectoryView holds the candidate list snapshot. Every refresh replaces it wholesale;
// when refreshes overlap, whichever response resolves last is kept.
type DirectoryView struct {
	svc    CandidateService
	status StatusSink
	editor Editor

	mu         sync.RWMutex
	candidates []domain.Candidate
	loaded     bool
	loadedFor  *Actor
}

func NewDirectoryView(svc CandidateService, status StatusSink, editor Editor) *DirectoryView {
	return &DirectoryView{svc: svc, status: status, editor: editor, candidates: []domain.Candidate{}}
}

// Refresh fetches the list scoped to actor. A failure keeps the previous list.
func (d *DirectoryView) Refresh(ctx context.Context, actor *Actor) error {
	list, err := d.svc.List(ctx, actor)
	if err != nil {
		logger.Log.Warn("Failed to fetch candidates", "error", err)
		return err
	}
	if list == nil {
		list = []domain.Candidate{}
	}

	d.mu.Lock()
	d.candidates = list
	d.loaded = true
	d.loadedFor = copyActor(actor)
	d.mu.Unlock()
	return nil
}

// Current reports whether the snapshot came from a successful fetch for actor.
func (d *DirectoryView) Current(actor *Actor) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded && sameActor(d.loadedFor, actor)
}

// RequestEdit hands c to the form.
func (d *DirectoryView) RequestEdit(c domain.Candidate) {
	if d.editor != nil {
		d.editor.BeginEdit(c)
	}
}

// RequestDelete deletes id once confirm agrees, then refreshes. Declining sends nothing.
func (d *DirectoryView) RequestDelete(ctx context.Context, id int64, confirm Confirmer, actor *Actor) error {
	if confirm == nil || !confirm.Confirm(MsgDeletePrompt) {
		return nil
	}

	message, err := d.svc.Delete(ctx, id)
	if err != nil {
		reportFailure(d.status, err, MsgDeleteFailed)
		return err
	}

	d.status.SetStatus(Success(message))
	if err := d.Refresh(ctx, actor); err != nil {
		logger.Log.Warn("Refresh after delete failed", "error", err)
	}
	return nil
}

// Candidates returns a copy of the snapshot.
func (d *DirectoryView) Candidates() []domain.Candidate {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]domain.Candidate, len(d.candidates))
	copy(out, d.candidates)
	return out
}

// Find returns the candidate with id from the snapshot.
func (d *DirectoryView) Find(id int64) (domain.Candidate, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, c := range d.candidates {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Candidate{}, false
}

func (d *DirectoryView) Empty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.candidates) == 0
}

func (d *DirectoryView) Rows() []Row {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rows := make([]Row, 0, len(d.candidates))
	for _, c := range d.candidates {
		rows = append(rows, Row{
			ID:     c.ID,
			Name:   c.Name,
			Email:  c.Email,
			Phone:  c.Phone,
			Skills: c.Skills,
			CTC:    formatAmount(c.CTC),
			ECTC:   formatAmount(c.ECTC),
		})
	}
	return rows
}
