package domain

import "context"

// DraftResult is returned even when the model reply could not be parsed, so the
// caller can show the raw text.
type DraftResult struct {
	SuggestedRequirement map[string]any `json:"suggested_requirement"`
	RawOutput            string         `json:"raw_output,omitempty"`
	Error                string         `json:"error,omitempty"`
}

// Completer sends one system+user exchange to a language model.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type JDUsecase interface {
	DraftRequirement(ctx context.Context, jdText string) (*DraftResult, error)
}
