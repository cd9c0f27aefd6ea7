package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/log"
	"github.com/stretchr/testify/require"
)

func TestContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := log.NewContextHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(h)

	ctx := log.ContextAttrs(context.Background(), slog.String("cmd", "run"))
	logger.InfoContext(ctx, "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "hello", rec["msg"])
	require.Equal(t, "run", rec["cmd"])
}

func TestFanoutLevels(t *testing.T) {
	var all, errOnly bytes.Buffer
	fan := log.NewFanout(
		slog.NewJSONHandler(&all, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&errOnly, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(fan)

	logger.Info("fine")
	logger.Error("broken")

	require.Equal(t, 2, strings.Count(all.String(), "\n"))
	require.Equal(t, 1, strings.Count(errOnly.String(), "\n"))
	require.Contains(t, errOnly.String(), "broken")
	require.NotContains(t, errOnly.String(), "fine")
}

func TestNewFileHandler(t *testing.T) {
	dir := t.TempDir()
	h, closer, err := log.NewFileHandler(filepath.Join(dir, "logs"), "conversion.log", slog.LevelInfo)
	require.NoError(t, err)

	slog.New(h).Info("converted", "input", "a.xlsx")
	require.NoError(t, closer.Close())

	entries, err := os.ReadDir(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, strings.HasPrefix(entries[0].Name(), "conversion_"))
	require.True(t, strings.HasSuffix(entries[0].Name(), ".log"))

	b, err := os.ReadFile(filepath.Join(dir, "logs", entries[0].Name()))
	require.NoError(t, err)
	require.Contains(t, string(b), "a.xlsx")
}
