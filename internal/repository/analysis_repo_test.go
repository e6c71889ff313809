package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuschat/nexuschat/internal/domain"
)

func TestRecordIsAppendOnly(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "alice")
	session := seedSession(t, db, user.ID)
	item := seedItem(t, db, session.ID, user.ID, "photo.png", domain.KindImage)

	repo := NewAnalysisRepository(db)

	for _, summary := range []string{"first pass", "second pass"} {
		require.NoError(t, repo.Record(&domain.AnalysisRecord{
			ItemID:    item.ID,
			SessionID: session.ID,
			Kind:      domain.AnalysisVision,
			Summary:   summary,
		}))
	}

	count, err := repo.CountForItem(item.ID, domain.AnalysisVision)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "a second record of the same kind must not overwrite the first")

	latest, err := repo.LatestSummary(item.ID, domain.AnalysisVision)
	require.NoError(t, err)
	assert.Equal(t, "second pass", latest)
}

func TestListForSessionJoinsItems(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "alice")
	session := seedSession(t, db, user.ID)
	item := seedItem(t, db, session.ID, user.ID, "invoice.pdf", domain.KindPDF)

	repo := NewAnalysisRepository(db)
	require.NoError(t, repo.Record(&domain.AnalysisRecord{
		ItemID:    item.ID,
		SessionID: session.ID,
		Kind:      domain.AnalysisText,
		Summary:   "an invoice",
	}))

	analyses, err := repo.ListForSession(session.ID)
	require.NoError(t, err)
	require.Len(t, analyses, 1)
	assert.Equal(t, "invoice.pdf", analyses[0].Filename)
	assert.Equal(t, domain.KindPDF, analyses[0].FileKind)
	assert.Equal(t, domain.AnalysisText, analyses[0].Kind)
	assert.Equal(t, "an invoice", analyses[0].Summary)
}

func TestDeleteItemCascadesRecords(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "alice")
	session := seedSession(t, db, user.ID)
	item := seedItem(t, db, session.ID, user.ID, "photo.png", domain.KindImage)

	analysisRepo := NewAnalysisRepository(db)
	require.NoError(t, analysisRepo.Record(&domain.AnalysisRecord{
		ItemID:    item.ID,
		SessionID: session.ID,
		Kind:      domain.AnalysisVision,
		Summary:   "a photo",
	}))

	require.NoError(t, NewItemRepository(db).Delete(item.ID))

	analyses, err := analysisRepo.ListForSession(session.ID)
	require.NoError(t, err)
	assert.Empty(t, analyses, "records must cascade with their item")

	count, err := analysisRepo.CountForItem(item.ID, domain.AnalysisVision)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLatestSummaryEmptyWhenAbsent(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "alice")
	session := seedSession(t, db, user.ID)
	item := seedItem(t, db, session.ID, user.ID, "photo.png", domain.KindImage)

	repo := NewAnalysisRepository(db)
	summary, err := repo.LatestSummary(item.ID, domain.AnalysisVision)
	require.NoError(t, err)
	assert.Empty(t, summary)
}
