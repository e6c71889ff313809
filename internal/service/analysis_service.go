package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nexuschat/nexuschat/internal/domain"
	"github.com/nexuschat/nexuschat/internal/extract"
	"github.com/nexuschat/nexuschat/internal/repository"
)

// AnalysisService exposes stored analyses and image re-analysis.
type AnalysisService struct {
	sessions  *repository.SessionRepository
	items     *repository.ItemRepository
	analyses  *repository.AnalysisRepository
	extractor Extractor
	logger    *zap.Logger
}

// NewAnalysisService creates an analysis service.
func NewAnalysisService(
	sessions *repository.SessionRepository,
	items *repository.ItemRepository,
	analyses *repository.AnalysisRepository,
	extractor Extractor,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		sessions:  sessions,
		items:     items,
		analyses:  analyses,
		extractor: extractor,
		logger:    logger,
	}
}

// ListForSession returns a session's analysis records joined with their
// item's filename and kind, newest first.
func (s *AnalysisService) ListForSession(sessionID, userID string) ([]*domain.SessionAnalysis, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil || session.UserID != userID {
		return nil, domain.ErrNotFound
	}

	analyses, err := s.analyses.ListForSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return analyses, nil
}

// DeleteItem removes an uploaded item owned by the user; its analysis
// records cascade with it.
func (s *AnalysisService) DeleteItem(itemID, userID string) error {
	item, err := s.items.Get(itemID)
	if err != nil {
		return fmt.Errorf("failed to load item: %w", err)
	}
	if item == nil || item.UserID != userID {
		return domain.ErrNotFound
	}
	return s.items.Delete(itemID)
}

// Reanalyze runs a fresh vision analysis of an uploaded image with a custom
// instruction. A successful analysis appends a vision_custom record; prior
// records are never touched, so the record count for an item only grows.
// The item must exist, be an image, and belong to the user.
func (s *AnalysisService) Reanalyze(ctx context.Context, itemID, userID, instruction string) (*domain.ReanalyzeResponse, error) {
	item, err := s.items.Get(itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	if item == nil || item.UserID != userID || item.Kind != domain.KindImage {
		return nil, domain.ErrNotFound
	}

	if instruction == "" {
		instruction = extract.DefaultVisionInstruction
	}

	vision := s.extractor.Describe(ctx, item.Content, item.Filename, instruction)

	if vision.Succeeded {
		record := &domain.AnalysisRecord{
			ItemID:    item.ID,
			SessionID: item.SessionID,
			Kind:      domain.AnalysisVisionCustom,
			Summary:   vision.Description,
		}
		if err := s.analyses.Record(record); err != nil {
			return nil, fmt.Errorf("failed to store vision analysis: %w", err)
		}
	} else {
		s.logger.Warn("custom vision analysis failed",
			zap.String("item_id", itemID),
			zap.String("description", vision.Description),
		)
	}

	return &domain.ReanalyzeResponse{
		Success:    vision.Succeeded,
		Analysis:   vision.Description,
		PromptUsed: instruction,
		Filename:   item.Filename,
	}, nil
}
