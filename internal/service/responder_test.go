package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespondSuccess(t *testing.T) {
	gen := &fakeGenerator{answer: "Hello there!"}
	r := NewResponder(gen)

	answer := r.Respond(context.Background(), "hi", "")

	assert.Equal(t, "Hello there!", answer)
	assert.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "You are NexusChat")
	assert.Contains(t, gen.prompts[0], "User: hi")
}

func TestRespondIncludesContext(t *testing.T) {
	gen := &fakeGenerator{answer: "ok"}
	r := NewResponder(gen)

	r.Respond(context.Background(), "and now?", "user: hi\nassistant: hello")

	assert.Contains(t, gen.prompts[0], "Previous conversation context: user: hi\nassistant: hello")
}

func TestRespondFailureCategories(t *testing.T) {
	cases := []struct {
		name string
		err  string
		want string
	}{
		{"model not found", "model gemini-x not found", msgModelNotFound},
		{"http 404", "googleapi: Error 404", msgModelNotFound},
		{"permission", "permission denied for project", msgPermission},
		{"http 403", "googleapi: Error 403", msgPermission},
		{"quota", "quota exceeded for quota metric", msgQuota},
		{"rate limit", "rate limit reached", msgQuota},
		{"api key", "API key not valid", msgCredential},
		{"auth", "authentication failed", msgCredential},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewResponder(&fakeGenerator{err: errors.New(tc.err)})
			answer := r.Respond(context.Background(), "question", "")
			assert.Equal(t, tc.want, answer)
			assert.NotContains(t, answer, tc.err, "raw failure text must not surface")
		})
	}
}

func TestRespondGenericFailureTruncatesDiagnostic(t *testing.T) {
	long := strings.Repeat("x", 300)
	r := NewResponder(&fakeGenerator{err: errors.New(long)})

	answer := r.Respond(context.Background(), "question", "")

	assert.Contains(t, answer, "I apologize, but I'm having trouble connecting to the AI service:")
	assert.Contains(t, answer, strings.Repeat("x", maxDiagnosticLen))
	assert.NotContains(t, answer, strings.Repeat("x", maxDiagnosticLen+1))
}

func TestRespondEmptyResponseIsItsOwnCase(t *testing.T) {
	r := NewResponder(&fakeGenerator{answer: ""})

	answer := r.Respond(context.Background(), "question", "")

	assert.Equal(t, msgEmptyResponse, answer)
}

func TestRespondWithoutGenerator(t *testing.T) {
	r := NewResponder(nil)

	answer := r.Respond(context.Background(), "question", "")

	assert.Equal(t, msgNotConfigured, answer)
}
