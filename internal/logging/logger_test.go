package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, slog.LevelInfo)
	log.Info("decode failed", "error", errors.New("boom"))

	require.Contains(t, buf.String(), "err=boom")
	require.NotContains(t, buf.String(), "error=")
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, slog.LevelWarn)
	log.Info("hidden")
	require.Empty(t, buf.String())

	require.NotPanics(t, func() { NewNop().Error("dropped") })
}
