package document

import (
	"strings"
	"time"
)

// Status tracks a document through its ingestion lifecycle.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

// SupportedMimeTypes is the upload allow-list.
var SupportedMimeTypes = map[string]struct{}{
	"application/pdf":  {},
	"text/plain":       {},
	"text/markdown":    {},
	"application/json": {},
}

// IsSupportedMimeType reports whether the declared type is accepted.
func IsSupportedMimeType(mimeType string) bool {
	_, ok := SupportedMimeTypes[mimeType]
	return ok
}

// IsTextLike reports whether a stored blob can be decoded as plain text for
// retrieval context assembly.
func IsTextLike(mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	return mimeType == "application/json"
}

// Document is the knowledge-base metadata record. Binary content lives in
// blob storage under StoragePath.
type Document struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MimeType    string    `json:"mimeType"`
	Size        int64     `json:"size"`
	Status      Status    `json:"status"`
	StoragePath string    `json:"-"`
	Hash        string    `json:"-"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Upload describes a single file submitted for ingestion.
type Upload struct {
	Name     string
	MimeType string
	Content  []byte
}

// UploadResult pairs each accepted file with its created record.
type UploadResult struct {
	Documents []Document `json:"documents"`
}
