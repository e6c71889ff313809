// Package ai wraps the Gemini SDK behind the small Generator interface the
// rest of the system consumes. The client is created once at startup and
// injected; nothing reinitializes it per request.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Generator is the capability the responder and extractor depend on. Both
// calls block until the model answers or fails; no timeout is imposed here,
// callers pass a context if they need a deadline.
type Generator interface {
	// GenerateText sends a flattened prompt and returns the model's text.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateVision sends an instruction together with raw image bytes.
	// format is the image format without the dot, e.g. "png" or "jpeg".
	GenerateVision(ctx context.Context, instruction, format string, image []byte) (string, error)
}

// Gemini implements Generator against the Google generative AI service.
type Gemini struct {
	client *genai.Client
	text   *genai.GenerativeModel
	vision *genai.GenerativeModel
}

// NewGemini creates a Gemini client with separate handles for the text and
// vision models.
func NewGemini(ctx context.Context, apiKey, textModel, visionModel string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		text:   client.GenerativeModel(textModel),
		vision: client.GenerativeModel(visionModel),
	}, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

// GenerateText implements Generator.
func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.text.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return flatten(resp), nil
}

// GenerateVision implements Generator.
func (g *Gemini) GenerateVision(ctx context.Context, instruction, format string, image []byte) (string, error) {
	resp, err := g.vision.GenerateContent(ctx, genai.Text(instruction), genai.ImageData(format, image))
	if err != nil {
		return "", err
	}
	return flatten(resp), nil
}

// flatten concatenates the text parts of the first candidate. An empty
// result is a valid outcome the responder treats as its own case.
func flatten(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}
