package antivirus

import (
	"context"
	"errors"
)

// ErrUnavailable means no scanner could be reached. Callers reject the upload.
var ErrUnavailable = errors.New("antivirus: scanner unavailable")

// Result is the verdict for one file.
type Result struct {
	Infected   bool
	ThreatName string // empty when clean
	Scanner    string
}

// Scanner checks file content for malware.
// A non-nil error means no verdict was reached; treat the file as unsafe.
type Scanner interface {
	Scan(ctx context.Context, filename string, data []byte) (Result, error)
	Name() string
}
