package service

import (
	"fmt"
	"strings"

	"github.com/nexuschat/nexuschat/internal/domain"
	"github.com/nexuschat/nexuschat/internal/repository"
)

// Per-fragment character budgets for file-grounded context. Cuts are hard,
// applied independently per field.
const (
	textFragmentLimit   = 2000
	visionFragmentLimit = 1000
)

// groundedPromptFormat wraps file fragments in an instruction that restricts
// the answer to the supplied material. The fallback phrase is a fixed
// literal the model is told to emit when the material lacks the answer.
const groundedPromptFormat = "You are an expert assistant. Answer the user's question based ONLY on the following uploaded document(s) or image(s).\n" +
	"User question: %s\n" +
	"\n---\n\n%s\n\n" +
	"If the answer is not in the document/image, say 'I could not find the answer in the uploaded file.'"

// Composer assembles the bounded prompt context for a session: file-grounded
// when any uploaded item contributed text or a successful vision summary,
// conversational (recent history) otherwise. The composed context is fully
// determined by the session's items, records, and recent messages.
type Composer struct {
	items        *repository.ItemRepository
	analyses     *repository.AnalysisRepository
	sessions     *repository.SessionRepository
	historyLimit int
}

// NewComposer creates a context composer.
func NewComposer(
	items *repository.ItemRepository,
	analyses *repository.AnalysisRepository,
	sessions *repository.SessionRepository,
	historyLimit int,
) *Composer {
	return &Composer{
		items:        items,
		analyses:     analyses,
		sessions:     sessions,
		historyLimit: historyLimit,
	}
}

// Compose returns the prompt to send and the conversational context to send
// alongside it. In file-grounded mode the question is folded into the prompt
// and the context is empty; in conversational mode the prompt is the raw
// question and the context is the recent history. File context always wins
// when any exists, with no relevance filtering against the question.
func (c *Composer) Compose(sessionID, question string) (prompt, contextText string, err error) {
	fragments, err := c.fileFragments(sessionID)
	if err != nil {
		return "", "", fmt.Errorf("failed to gather file context: %w", err)
	}

	if len(fragments) > 0 {
		fileContext := strings.Join(fragments, "\n\n")
		return fmt.Sprintf(groundedPromptFormat, question, fileContext), "", nil
	}

	history, err := c.recentHistory(sessionID)
	if err != nil {
		return "", "", fmt.Errorf("failed to gather chat history: %w", err)
	}
	return question, history, nil
}

// fileFragments collects the bounded per-item context fragments: extracted
// text first for every item, then vision summaries, matching upload order
// within each pass.
func (c *Composer) fileFragments(sessionID string) ([]string, error) {
	items, err := c.items.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}

	var fragments []string
	for _, item := range items {
		if item.ExtractedText == "" {
			continue
		}
		fragments = append(fragments, fmt.Sprintf("Extracted text from %s:\n%s",
			item.Filename, cut(item.ExtractedText, textFragmentLimit)))
	}

	for _, item := range items {
		summary, err := c.analyses.LatestSummary(item.ID, domain.AnalysisVision)
		if err != nil {
			return nil, err
		}
		if summary == "" {
			continue
		}
		fragments = append(fragments, fmt.Sprintf("Vision analysis for %s:\n%s",
			item.Filename, cut(summary, visionFragmentLimit)))
	}

	return fragments, nil
}

// recentHistory renders the last historyLimit messages in chronological
// order as "sender: content" lines. A session with no messages yields an
// empty context, which is valid.
func (c *Composer) recentHistory(sessionID string) (string, error) {
	recent, err := c.sessions.RecentMessages(sessionID, c.historyLimit)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		lines = append(lines, fmt.Sprintf("%s: %s", recent[i].Sender, recent[i].Content))
	}
	return strings.Join(lines, "\n"), nil
}

// cut applies a hard character cut; truncating an already-short string is a
// no-op.
func cut(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
