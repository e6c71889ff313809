package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nexuschat/nexuschat/internal/ai"
)

// personaPreamble is prepended to every prompt sent to the text model.
const personaPreamble = `You are NexusChat, a helpful and friendly AI assistant. You should:
- Respond naturally and conversationally like a helpful friend
- Be warm, engaging, and personable in your responses
- Answer questions directly and helpfully
- Keep responses concise but informative
- Be supportive and encouraging`

// Fixed user-facing sentences for each model-call failure category. The raw
// underlying error never reaches the user verbatim except as the truncated
// trailing fragment of the generic category.
const (
	msgModelNotFound = "I apologize, but I'm having trouble connecting to the AI service: Model not found. Please check the API configuration."
	msgPermission    = "I apologize, but there's an API permission issue. Please check your API key."
	msgQuota         = "I apologize, but the API quota has been exceeded. Please try again later."
	msgCredential    = "I apologize, but there's an authentication issue with the AI service."
	msgEmptyResponse = "I received an empty response. Please try rephrasing your question."
	msgNotConfigured = "I apologize, but the AI service is not configured."
)

// maxDiagnosticLen bounds the raw error fragment included in the generic
// failure sentence.
const maxDiagnosticLen = 100

// Responder sends composed prompts to the generative model and converts
// every failure into a fixed user-readable sentence. It never returns an
// error: all failure paths come back as answer text.
type Responder struct {
	gen ai.Generator
}

// NewResponder creates a responder around the injected model capability.
// gen may be nil when no model is configured.
func NewResponder(gen ai.Generator) *Responder {
	return &Responder{gen: gen}
}

// Respond builds one flattened instruction from the persona preamble, the
// optional context, and the question, and returns the model's answer or a
// categorized failure sentence.
func (r *Responder) Respond(ctx context.Context, question, contextText string) string {
	if r.gen == nil {
		return msgNotConfigured
	}

	var prompt string
	if contextText != "" {
		prompt = fmt.Sprintf("%s\n\nPrevious conversation context: %s\n\nUser: %s\n\nAssistant:",
			personaPreamble, contextText, question)
	} else {
		prompt = fmt.Sprintf("%s\n\nUser: %s\n\nAssistant:", personaPreamble, question)
	}

	answer, err := r.gen.GenerateText(ctx, prompt)
	if err != nil {
		return classifyFailure(err)
	}
	if answer == "" {
		return msgEmptyResponse
	}
	return answer
}

// classifyFailure maps a model-call error onto the closed failure taxonomy
// by message substrings, checked in priority order.
func classifyFailure(err error) string {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "not found") || strings.Contains(msg, "404"):
		return msgModelNotFound
	case strings.Contains(msg, "permission") || strings.Contains(msg, "403"):
		return msgPermission
	case strings.Contains(msg, "quota") || strings.Contains(msg, "limit"):
		return msgQuota
	case strings.Contains(msg, "key") || strings.Contains(msg, "auth"):
		return msgCredential
	default:
		return fmt.Sprintf("I apologize, but I'm having trouble connecting to the AI service: %s",
			cut(err.Error(), maxDiagnosticLen))
	}
}
