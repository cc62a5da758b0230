package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateResume(t *testing.T) {
	pdf := []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n")
	doc := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 64)...)
	docx := append([]byte("PK\x03\x04"), make([]byte, 64)...)

	tests := []struct {
		name     string
		filename string
		data     []byte
		valid    bool
		errMsg   string
	}{
		{"pdf", "Asha_Resume.PDF", pdf, true, ""},
		{"doc", "resume.doc", doc, true, ""},
		{"docx", "resume.docx", docx, true, ""},
		{"no extension", "resume", pdf, false, "file has no extension"},
		{"image", "photo.png", []byte("\x89PNG\r\n\x1a\n"), false, "resume must be a .pdf, .doc or .docx file"},
		{"spoofed pdf", "resume.pdf", docx, false, "file content does not match extension"},
		{"too short", "resume.pdf", []byte("%P"), false, "file content does not match extension"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateResume(tt.filename, tt.data)
			assert.Equal(t, tt.valid, result.Valid)
			assert.Equal(t, tt.errMsg, result.Error)
		})
	}
}

func TestValidateResumeReportsMIME(t *testing.T) {
	result := ValidateResume("cv.pdf", []byte("%PDF-1.4 minimal"))
	assert.True(t, result.Valid)
	assert.Equal(t, ".pdf", result.Extension)
	assert.Equal(t, "application/pdf", result.DetectedMIME)
}
