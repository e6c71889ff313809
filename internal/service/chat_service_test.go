package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuschat/nexuschat/internal/domain"
)

func TestAnswerWritesBothMessages(t *testing.T) {
	env := newTestEnv(t)
	svc := env.chatService(&fakeGenerator{answer: "I can help with that."}, 5)

	resp, err := svc.Answer(context.Background(), env.session.ID, env.user.ID, "can you help?")
	require.NoError(t, err)

	assert.Equal(t, "can you help?", resp.UserMessage)
	assert.Equal(t, "I can help with that.", resp.AIMessage)

	messages, err := env.sessions.Messages(env.session.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, domain.SenderUser, messages[0].Sender)
	assert.Equal(t, "can you help?", messages[0].Content)
	assert.Equal(t, domain.SenderAssistant, messages[1].Sender)
	assert.Equal(t, "I can help with that.", messages[1].Content)
}

func TestAnswerQuotaFailureBecomesAssistantMessage(t *testing.T) {
	env := newTestEnv(t)
	svc := env.chatService(&fakeGenerator{err: errors.New("quota exceeded for quota metric")}, 5)

	resp, err := svc.Answer(context.Background(), env.session.ID, env.user.ID, "hello?")
	require.NoError(t, err, "model failures never fail the cycle")

	assert.Equal(t, msgQuota, resp.AIMessage)

	messages, listErr := env.sessions.Messages(env.session.ID)
	require.NoError(t, listErr)
	require.Len(t, messages, 2, "the user message stays even when the model fails")
	assert.Equal(t, msgQuota, messages[1].Content)
}

func TestAnswerRejectsForeignSession(t *testing.T) {
	env := newTestEnv(t)
	svc := env.chatService(&fakeGenerator{answer: "ok"}, 5)

	_, err := svc.Answer(context.Background(), env.session.ID, "someone-else", "hi")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Answer(context.Background(), "no-such-session", env.user.ID, "hi")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnswerGroundsOnUploadedFile(t *testing.T) {
	env := newTestEnv(t)
	env.addItem(t, "invoice.pdf", domain.KindPDF, "Invoice #42 total $500")
	gen := &fakeGenerator{answer: "The total is $500."}
	svc := env.chatService(gen, 5)

	resp, err := svc.Answer(context.Background(), env.session.ID, env.user.ID, "what is the total?")
	require.NoError(t, err)

	assert.Equal(t, "The total is $500.", resp.AIMessage)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Extracted text from invoice.pdf")
	assert.Contains(t, gen.prompts[0], "User question: what is the total?")
}

func TestSessionMessagesOwnership(t *testing.T) {
	env := newTestEnv(t)
	svc := env.chatService(&fakeGenerator{answer: "ok"}, 5)

	_, err := svc.SessionMessages(env.session.ID, "someone-else")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteSessionOwnership(t *testing.T) {
	env := newTestEnv(t)
	svc := env.chatService(&fakeGenerator{answer: "ok"}, 5)

	err := svc.DeleteSession(env.session.ID, "someone-else")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.DeleteSession(env.session.ID, env.user.ID))
	session, err := env.sessions.Get(env.session.ID)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSearchMessagesEmptyQuery(t *testing.T) {
	env := newTestEnv(t)
	svc := env.chatService(&fakeGenerator{answer: "ok"}, 5)

	results, err := svc.SearchMessages(env.user.ID, "")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStatsFormatsCounts(t *testing.T) {
	env := newTestEnv(t)
	svc := env.chatService(&fakeGenerator{answer: "ok"}, 5)

	stats := svc.Stats()
	assert.Equal(t, "1", stats.Conversations)
	assert.Equal(t, "0", stats.FilesAnalyzed)
	assert.Equal(t, "99.9%", stats.Uptime)
}

func TestFormatStatThousands(t *testing.T) {
	assert.Equal(t, "2K+", formatStat(2500))
	assert.Equal(t, "999", formatStat(999))
}
