package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafe_task/internal/shared/types"
)

func TestInitParsesLevel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, initTo(&buf, types.LogConf{Level: "WARN"}))
	assert.Equal(t, zerolog.WarnLevel, log.Logger.GetLevel())
	assert.Empty(t, buf.String())
}

func TestInitFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, initTo(&buf, types.LogConf{Level: "chatty"}))
	assert.Equal(t, zerolog.InfoLevel, log.Logger.GetLevel())
	assert.Contains(t, buf.String(), "defaulting to 'info'")
}

func TestWithComponentTagsOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, initTo(&buf, types.LogConf{Level: "debug"}))
	buf.Reset()

	l := WithComponent("Task/Driver")
	l.Info().Msg("hello")
	assert.Contains(t, buf.String(), "Task/Driver")
	assert.Contains(t, buf.String(), "hello")
}

func TestShorthandsWriteToGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, initTo(&buf, types.LogConf{Level: "info"}))
	buf.Reset()

	Info().Str("address", "127.0.0.1:1").Msg("up")
	Error().Msg("down")
	assert.Contains(t, buf.String(), "127.0.0.1:1")
	assert.Contains(t, buf.String(), "down")
}
