package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nexuschat/nexuschat/internal/domain"
	"github.com/nexuschat/nexuschat/internal/extract"
)

func (e *testEnv) analysisService(ext Extractor) *AnalysisService {
	return NewAnalysisService(e.sessions, e.items, e.analyses, ext, zap.NewNop())
}

func TestReanalyzeAppendsCustomRecord(t *testing.T) {
	env := newTestEnv(t)
	item := env.addItem(t, "photo.png", domain.KindImage, "")
	require.NoError(t, env.analyses.Record(&domain.AnalysisRecord{
		ItemID:    item.ID,
		SessionID: env.session.ID,
		Kind:      domain.AnalysisVision,
		Summary:   "original description",
	}))

	ext := &fakeExtractor{vision: extract.VisionResult{Description: "there are three birds", Succeeded: true}}
	svc := env.analysisService(ext)

	resp, err := svc.Reanalyze(context.Background(), item.ID, env.user.ID, "Count the birds")
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "there are three birds", resp.Analysis)
	assert.Equal(t, "Count the birds", resp.PromptUsed)
	assert.Equal(t, "photo.png", resp.Filename)
	assert.Equal(t, "Count the birds", ext.lastInstruction)

	customCount, err := env.analyses.CountForItem(item.ID, domain.AnalysisVisionCustom)
	require.NoError(t, err)
	assert.Equal(t, 1, customCount)

	latest, err := env.analyses.LatestSummary(item.ID, domain.AnalysisVision)
	require.NoError(t, err)
	assert.Equal(t, "original description", latest, "prior records stay untouched")
}

func TestReanalyzeFailureAppendsNothing(t *testing.T) {
	env := newTestEnv(t)
	item := env.addItem(t, "photo.png", domain.KindImage, "")

	ext := &fakeExtractor{vision: extract.VisionResult{
		Description: "Unable to analyze the image visually. Error: quota exceeded",
		Succeeded:   false,
	}}
	svc := env.analysisService(ext)

	resp, err := svc.Reanalyze(context.Background(), item.ID, env.user.ID, "Count the birds")
	require.NoError(t, err, "a failed vision call is a response, not an error")

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Analysis, "Unable to analyze the image visually")

	count, err := env.analyses.CountForItem(item.ID, domain.AnalysisVisionCustom)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReanalyzeDefaultInstruction(t *testing.T) {
	env := newTestEnv(t)
	item := env.addItem(t, "photo.png", domain.KindImage, "")

	ext := &fakeExtractor{vision: extract.VisionResult{Description: "a lake", Succeeded: true}}
	svc := env.analysisService(ext)

	resp, err := svc.Reanalyze(context.Background(), item.ID, env.user.ID, "")
	require.NoError(t, err)

	assert.Equal(t, "Describe what you see in this image", resp.PromptUsed)
	assert.Equal(t, "Describe what you see in this image", ext.lastInstruction)
}

func TestReanalyzeRejectsNonImage(t *testing.T) {
	env := newTestEnv(t)
	item := env.addItem(t, "doc.pdf", domain.KindPDF, "some text")

	svc := env.analysisService(&fakeExtractor{})
	_, err := svc.Reanalyze(context.Background(), item.ID, env.user.ID, "describe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReanalyzeRejectsForeignAndMissingItems(t *testing.T) {
	env := newTestEnv(t)
	item := env.addItem(t, "photo.png", domain.KindImage, "")

	svc := env.analysisService(&fakeExtractor{})

	_, err := svc.Reanalyze(context.Background(), item.ID, "someone-else", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Reanalyze(context.Background(), "no-such-item", env.user.ID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListForSessionOwnership(t *testing.T) {
	env := newTestEnv(t)
	svc := env.analysisService(&fakeExtractor{})

	_, err := svc.ListForSession(env.session.ID, "someone-else")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	analyses, err := svc.ListForSession(env.session.ID, env.user.ID)
	require.NoError(t, err)
	assert.Empty(t, analyses)
}

func TestDeleteItemOwnershipAndCascade(t *testing.T) {
	env := newTestEnv(t)
	item := env.addItem(t, "photo.png", domain.KindImage, "")
	require.NoError(t, env.analyses.Record(&domain.AnalysisRecord{
		ItemID:    item.ID,
		SessionID: env.session.ID,
		Kind:      domain.AnalysisVision,
		Summary:   "a photo",
	}))

	svc := env.analysisService(&fakeExtractor{})

	err := svc.DeleteItem(item.ID, "someone-else")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.DeleteItem(item.ID, env.user.ID))

	analyses, err := env.analyses.ListForSession(env.session.ID)
	require.NoError(t, err)
	assert.Empty(t, analyses)
}
