package console

import "sync"

type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusFailure
)

func (k StatusKind) String() string {
	switch k {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "info"
	}
}

// Status is the single transient message area.
type Status struct {
	Kind StatusKind
	Text string
}

func Info(text string) Status    { return Status{Kind: StatusInfo, Text: text} }
func Success(text string) Status { return Status{Kind: StatusSuccess, Text: text} }
func Failure(text string) Status { return Status{Kind: StatusFailure, Text: text} }

// StatusBoard holds the latest status.
type StatusBoard struct {
	mu      sync.Mutex
	current *Status
}

func (b *StatusBoard) SetStatus(s Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = &s
}

func (b *StatusBoard) ClearStatus() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = nil
}

// Current returns the status being shown, if any.
func (b *StatusBoard) Current() (Status, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Status{}, false
	}
	return *b.current, true
}
