package logger_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authcore/pkg/logger"
)

func TestError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestUserID(t *testing.T) {
	t.Parallel()

	attr := logger.UserID("u-1")
	require.Equal(t, "user_id", attr.Key)
	assert.Equal(t, "u-1", attr.Value.Any())

	empty := logger.UserID(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestStringAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "component", logger.Component("refresh").Key)
	assert.Equal(t, "channel", logger.Channel("email").Key)
	assert.Equal(t, "purpose", logger.Purpose("verify").Key)
	assert.Equal(t, "provider", logger.Provider("google").Key)
	assert.Equal(t, "token_id", logger.TokenID("t-1").Key)
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))
		log.Info("hello", logger.Component("test"))

		assert.Contains(t, buf.String(), `"component":"test"`)
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatText))
		log.Info("hello")

		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("level filtering", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelError))
		log.Info("dropped")

		assert.Empty(t, buf.String())
	})
}

func TestNoop(t *testing.T) {
	t.Parallel()

	log := logger.Noop()
	require.NotNil(t, log)
	log.Info("goes nowhere")
}
