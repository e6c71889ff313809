package extract

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWithTempFileWritesAndRemoves(t *testing.T) {
	data := []byte("hello temp")
	var seen string

	err := WithTempFile(zap.NewNop(), "test-*.txt", data, func(path string) error {
		seen = path
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, data, got)
		return nil
	})

	require.NoError(t, err)
	require.NotEmpty(t, seen)
	_, statErr := os.Stat(seen)
	assert.True(t, os.IsNotExist(statErr), "temp file should be removed after the callback")
}

func TestWithTempFileRemovesOnCallbackFailure(t *testing.T) {
	boom := errors.New("boom")
	var seen string

	err := WithTempFile(zap.NewNop(), "test-*.bin", []byte{0x01}, func(path string) error {
		seen = path
		return boom
	})

	assert.ErrorIs(t, err, boom)
	_, statErr := os.Stat(seen)
	assert.True(t, os.IsNotExist(statErr), "temp file should be removed even when the callback fails")
}

func TestWithTempFileToleratesAlreadyRemoved(t *testing.T) {
	err := WithTempFile(zap.NewNop(), "test-*.bin", []byte{0x02}, func(path string) error {
		// The callback may consume and remove the file itself.
		return os.Remove(path)
	})
	require.NoError(t, err)
}
