package extract

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	removeAttempts     = 5
	removeInitialDelay = 100 * time.Millisecond
)

// WithTempFile writes data to a transient file and hands its path to fn.
// The file is removed on every exit path. Removal failure is absorbed, not
// escalated: a leaked temp file must not fail the upload that produced it.
func WithTempFile(logger *zap.Logger, pattern string, data []byte, fn func(path string) error) error {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	defer removeWithRetry(logger, path)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	// Extraction backends reopen by path, so the handle is closed first.
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	return fn(path)
}

// removeWithRetry deletes path with bounded exponential backoff. Some
// platforms keep a just-closed handle briefly locked.
func removeWithRetry(logger *zap.Logger, path string) {
	delay := removeInitialDelay
	var lastErr error

	for attempt := 0; attempt < removeAttempts; attempt++ {
		err := os.Remove(path)
		if err == nil || os.IsNotExist(err) {
			return
		}
		lastErr = err
		if attempt < removeAttempts-1 {
			time.Sleep(delay)
			delay *= 2
		}
	}

	logger.Warn("failed to remove temp file",
		zap.String("path", path),
		zap.Int("attempts", removeAttempts),
		zap.Error(lastErr),
	)
}
