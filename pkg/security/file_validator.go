package security

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool
	Extension    string
	DetectedMIME string
	Error        string
}

// Resume formats: extension to accepted magic prefixes.
var resumeMagicBytes = map[string][][]byte{
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                         // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}}, // OLE Compound Document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                         // ZIP (PK..)
}

// MIME types http.DetectContentType may report for each format.
var resumeMIMETypes = map[string]map[string]bool{
	".pdf":  {"application/pdf": true},
	".doc":  {"application/msword": true, "application/octet-stream": true},
	".docx": {"application/zip": true, "application/octet-stream": true},
}

// ResumeContentTypes is the Content-Type stored with each accepted format.
var ResumeContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ValidateResume checks a resume upload in three layers:
// extension whitelist, magic bytes, then sniffed MIME type.
func ValidateResume(filename string, data []byte) FileValidationResult {
	var result FileValidationResult

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	signatures, ok := resumeMagicBytes[ext]
	if !ok {
		result.Error = "resume must be a .pdf, .doc or .docx file"
		return result
	}

	if !hasPrefix(data, signatures) {
		result.Error = "file content does not match extension"
		return result
	}

	mime := http.DetectContentType(data)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	result.DetectedMIME = mime
	if !resumeMIMETypes[ext][mime] {
		result.Error = "MIME type not allowed: " + mime
		return result
	}

	result.Valid = true
	return result
}

func hasPrefix(data []byte, signatures [][]byte) bool {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}
