package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// ItemKind classifies an uploaded file. It is resolved once from the
// filename extension when the upload enters the system and carried through
// the pipeline; nothing downstream re-inspects the extension.
type ItemKind string

const (
	KindPDF   ItemKind = "pdf"
	KindImage ItemKind = "image"
	KindOther ItemKind = "other"
)

// imageExtensions are the image types accepted for OCR and vision analysis.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// ResolveKind maps a filename to its ItemKind. Extensions outside the
// allow-list {txt, pdf, png, jpg, jpeg, gif, webp} are rejected with
// ErrUnsupportedType before any extraction is attempted.
func ResolveKind(filename string) (ItemKind, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case ext == ".pdf":
		return KindPDF, nil
	case imageExtensions[ext]:
		return KindImage, nil
	case ext == ".txt":
		return KindOther, nil
	default:
		return "", ErrUnsupportedType
	}
}

// UploadedItem is one uploaded file scoped to a session. It is created once
// on upload and never mutated; ExtractedText is set exactly once during the
// ingestion transaction and may be empty, never null.
type UploadedItem struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	UserID        string    `json:"user_id"`
	Filename      string    `json:"filename"`
	Kind          ItemKind  `json:"file_type"`
	Size          int64     `json:"file_size"`
	MimeType      string    `json:"mime_type"`
	Content       []byte    `json:"-"`
	ExtractedText string    `json:"extracted_text,omitempty"`
	CreatedAt     time.Time `json:"uploaded_at"`
}

// AnalysisKind identifies the kind of derived artifact stored for an item.
type AnalysisKind string

const (
	AnalysisText         AnalysisKind = "text_analysis"
	AnalysisVision       AnalysisKind = "vision_analysis"
	AnalysisVisionCustom AnalysisKind = "vision_custom"
)

// AnalysisRecord is one derived artifact attached to an uploaded item.
// Records are append-only; re-analysis appends a new record and never
// touches prior ones. Records are deleted only by cascading with their item.
type AnalysisRecord struct {
	ID        string       `json:"id"`
	ItemID    string       `json:"item_id"`
	SessionID string       `json:"session_id"`
	Kind      AnalysisKind `json:"analysis_type"`
	Summary   string       `json:"summary"`
	CreatedAt time.Time    `json:"created_at"`
}

// SessionAnalysis is an analysis record joined with its item's filename and
// kind, as returned when listing a session's analyses.
type SessionAnalysis struct {
	AnalysisRecord
	Filename string   `json:"filename"`
	FileKind ItemKind `json:"file_type"`
}

// AnalysisSummary is the per-record slice of an upload response.
type AnalysisSummary struct {
	Type    AnalysisKind `json:"type"`
	Content string       `json:"content"`
	Success bool         `json:"success"`
}

// UploadResponse is returned by the ingest operation.
type UploadResponse struct {
	ItemID            string            `json:"file_id"`
	Filename          string            `json:"filename"`
	Kind              ItemKind          `json:"file_type"`
	Analyses          []AnalysisSummary `json:"analyses"`
	AnalysisAvailable bool              `json:"analysis_available"`
	ExtractedText     string            `json:"extracted_text,omitempty"`
	VisionPreview     string            `json:"vision_preview,omitempty"`
}

// ReanalyzeRequest asks for a fresh vision analysis of an uploaded image.
type ReanalyzeRequest struct {
	Prompt string `json:"prompt"`
}

// ReanalyzeResponse reports the outcome of a custom vision analysis.
type ReanalyzeResponse struct {
	Success    bool   `json:"success"`
	Analysis   string `json:"analysis"`
	PromptUsed string `json:"prompt_used"`
	Filename   string `json:"filename"`
}
