package proctree_test

import (
	"bytes"
	"log/slog"
	"os/exec"
	"testing"
	"time"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/proctree"
	"github.com/stretchr/testify/require"
)

func TestKillTree(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skipf("skipped, binary sh not available: %v", err)
	}

	// capture warnings: processes dying between enumeration and kill must
	// count as killed, not warn
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	// parent sh spawning a child sleep; wait $! propagates the child's
	// signal death into the parent's exit status
	cmd := exec.Command(sh, "-c", "sleep 30 & wait $!")
	require.NoError(t, cmd.Start())

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	proctree.Kill(t.Context(), cmd.Process.Pid)

	select {
	case err := <-done:
		require.Error(t, err) // child died by signal
	case <-time.After(5 * time.Second):
		t.Fatal("process tree still alive after Kill")
	}

	// idempotent on an already-dead pid
	proctree.Kill(t.Context(), cmd.Process.Pid)

	require.NotContains(t, logs.String(), "killing process failed")
}

func TestKillUnknownPID(t *testing.T) {
	t.Parallel()
	// must not panic or block
	proctree.Kill(t.Context(), 1<<22)
}
