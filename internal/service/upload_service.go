package service

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/nexuschat/nexuschat/internal/domain"
	"github.com/nexuschat/nexuschat/internal/extract"
	"github.com/nexuschat/nexuschat/internal/repository"
)

// Preview character budgets for the upload response.
const (
	textPreviewLimit   = 500
	visionPreviewLimit = 300
)

// summaryPromptPrefix produces the text_analysis record summary from the
// first 2000 characters of extracted text.
const summaryPromptPrefix = "Summarize and extract key points:\n\n"

// Extractor is the extraction capability the upload service depends on.
// *extract.Service implements it.
type Extractor interface {
	ExtractText(ctx context.Context, data []byte, kind domain.ItemKind, filename string) extract.Result
	Describe(ctx context.Context, data []byte, filename, instruction string) extract.VisionResult
}

// UploadService ingests uploaded files: extension dispatch, extraction,
// item persistence, and analysis records. Extraction and vision failures
// are absorbed as data; only store failures surface as errors.
type UploadService struct {
	sessions  *repository.SessionRepository
	items     *repository.ItemRepository
	analyses  *repository.AnalysisRepository
	extractor Extractor
	responder *Responder
	maxBytes  int64
	logger    *zap.Logger
}

// NewUploadService creates an upload service. maxBytes of 0 disables the
// size limit.
func NewUploadService(
	sessions *repository.SessionRepository,
	items *repository.ItemRepository,
	analyses *repository.AnalysisRepository,
	extractor Extractor,
	responder *Responder,
	maxBytes int64,
	logger *zap.Logger,
) *UploadService {
	return &UploadService{
		sessions:  sessions,
		items:     items,
		analyses:  analyses,
		extractor: extractor,
		responder: responder,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

// Ingest uploads and analyzes a file into a session. The extension is
// checked against the allow-list before any extraction; the session must
// belong to the user. Each call produces a new item, never an overwrite.
func (s *UploadService) Ingest(ctx context.Context, sessionID, userID, filename string, data []byte) (*domain.UploadResponse, error) {
	kind, err := domain.ResolveKind(filename)
	if err != nil {
		return nil, err
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil || session.UserID != userID {
		return nil, domain.ErrNotFound
	}

	result := s.extractor.ExtractText(ctx, data, kind, filename)
	if !result.OK {
		s.logger.Warn("text extraction degraded",
			zap.String("filename", filename),
			zap.String("kind", string(kind)),
			zap.String("diagnostic", result.Diagnostic),
		)
	}

	var vision extract.VisionResult
	if kind == domain.KindImage {
		vision = s.extractor.Describe(ctx, data, filename, "")
	}

	item := &domain.UploadedItem{
		SessionID:     sessionID,
		UserID:        userID,
		Filename:      filename,
		Kind:          kind,
		Size:          int64(len(data)),
		MimeType:      mimeType(filename),
		Content:       data,
		ExtractedText: result.Text,
	}
	if err := s.items.Insert(item); err != nil {
		return nil, fmt.Errorf("failed to store item: %w", err)
	}

	resp := &domain.UploadResponse{
		ItemID:   item.ID,
		Filename: filename,
		Kind:     kind,
		Analyses: []domain.AnalysisSummary{},
	}

	if strings.TrimSpace(result.Text) != "" {
		summary := s.responder.Respond(ctx, summaryPromptPrefix+cut(result.Text, textFragmentLimit), "")
		record := &domain.AnalysisRecord{
			ItemID:    item.ID,
			SessionID: sessionID,
			Kind:      domain.AnalysisText,
			Summary:   summary,
		}
		if err := s.analyses.Record(record); err != nil {
			return nil, fmt.Errorf("failed to store text analysis: %w", err)
		}
		resp.Analyses = append(resp.Analyses, domain.AnalysisSummary{
			Type:    domain.AnalysisText,
			Content: summary,
			Success: true,
		})
		resp.ExtractedText = preview(result.Text, textPreviewLimit)
	}

	if kind == domain.KindImage {
		if vision.Succeeded {
			record := &domain.AnalysisRecord{
				ItemID:    item.ID,
				SessionID: sessionID,
				Kind:      domain.AnalysisVision,
				Summary:   vision.Description,
			}
			if err := s.analyses.Record(record); err != nil {
				return nil, fmt.Errorf("failed to store vision analysis: %w", err)
			}
			resp.VisionPreview = preview(vision.Description, visionPreviewLimit)
		}
		resp.Analyses = append(resp.Analyses, domain.AnalysisSummary{
			Type:    domain.AnalysisVision,
			Content: vision.Description,
			Success: vision.Succeeded,
		})
	}

	resp.AnalysisAvailable = len(resp.Analyses) > 0

	if err := s.sessions.Touch(sessionID); err != nil {
		return nil, fmt.Errorf("failed to touch session: %w", err)
	}

	s.logger.Info("file ingested",
		zap.String("item_id", item.ID),
		zap.String("session_id", sessionID),
		zap.String("kind", string(kind)),
		zap.Int("size", len(data)),
		zap.Int("extracted_chars", len(result.Text)),
	)

	return resp, nil
}

// preview cuts s to max characters, marking longer sources with an ellipsis.
func preview(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func mimeType(filename string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); t != "" {
		return t
	}
	return "application/octet-stream"
}
