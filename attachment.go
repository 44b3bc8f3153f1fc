package chatbot

import (
	"mime"
	"path/filepath"
	"strings"
)

var documentExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
}

// AcceptedFile reports whether name has a type the attachment picker
// offers: any image type, PDF, Word documents and plain text.
func AcceptedFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	if documentExtensions[ext] {
		return true
	}
	return strings.HasPrefix(mime.TypeByExtension(ext), "image/")
}

// AttachmentNotice describes a file selection. Uploading is not supported;
// the notice only lists the chosen names.
func AttachmentNotice(names []string) string {
	if len(names) == 0 {
		return "No files selected."
	}
	return "Selected files: " + strings.Join(names, ", ") +
		". Note: File upload processing will be implemented in a later step."
}
