package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nexuschat/nexuschat/internal/domain"
	"github.com/nexuschat/nexuschat/internal/extract"
	"github.com/nexuschat/nexuschat/internal/repository"
)

// fakeGenerator implements ai.Generator for tests.
type fakeGenerator struct {
	answer  string
	err     error
	prompts []string
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeGenerator) GenerateVision(ctx context.Context, instruction, format string, image []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

// fakeExtractor implements Extractor for tests.
type fakeExtractor struct {
	text            extract.Result
	vision          extract.VisionResult
	lastInstruction string
}

func (f *fakeExtractor) ExtractText(ctx context.Context, data []byte, kind domain.ItemKind, filename string) extract.Result {
	return f.text
}

func (f *fakeExtractor) Describe(ctx context.Context, data []byte, filename, instruction string) extract.VisionResult {
	f.lastInstruction = instruction
	return f.vision
}

// testEnv wires real repositories over a throwaway sqlite database with a
// seeded user and session.
type testEnv struct {
	db       *repository.DB
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	items    *repository.ItemRepository
	analyses *repository.AnalysisRepository
	user     *domain.User
	session  *domain.Session
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		db:       db,
		users:    repository.NewUserRepository(db),
		sessions: repository.NewSessionRepository(db),
		items:    repository.NewItemRepository(db),
		analyses: repository.NewAnalysisRepository(db),
	}

	env.user = &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, env.users.Create(env.user))

	env.session = &domain.Session{UserID: env.user.ID}
	require.NoError(t, env.sessions.Create(env.session))

	return env
}

func (e *testEnv) composer(historyLimit int) *Composer {
	return NewComposer(e.items, e.analyses, e.sessions, historyLimit)
}

func (e *testEnv) uploadService(t *testing.T, ext Extractor, gen *fakeGenerator) *UploadService {
	t.Helper()
	return NewUploadService(e.sessions, e.items, e.analyses, ext, NewResponder(gen), 0, zap.NewNop())
}

func (e *testEnv) chatService(gen *fakeGenerator, historyLimit int) *ChatService {
	return NewChatService(e.sessions, e.items, e.composer(historyLimit), NewResponder(gen), zap.NewNop())
}
