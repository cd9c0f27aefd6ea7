// Package proctree terminates a process together with all of its
// descendants. Conversion engines tend to fork helper processes that would
// survive a plain kill of the process the worker reported.
package proctree

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/shirou/gopsutil/v4/process"
)

// Kill terminates pid and every descendant, children first. It is
// best-effort and idempotent: processes that are already gone count as
// killed, and no failure ever propagates to the caller beyond a warning in
// the log.
func Kill(ctx context.Context, pid int) {
	root, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		// already gone
		slog.DebugContext(ctx, "process tree root not running", "pid", pid)
		return
	}

	for _, child := range descendants(ctx, root, nil) {
		kill(ctx, child)
	}
	kill(ctx, root)
}

// descendants collects the transitive children of p depth-first. The seen
// set guards against cycles from pid reuse while enumerating.
func descendants(ctx context.Context, p *process.Process, seen map[int32]struct{}) []*process.Process {
	if seen == nil {
		seen = map[int32]struct{}{p.Pid: {}}
	}

	children, err := p.ChildrenWithContext(ctx)
	if err != nil {
		return nil
	}

	var all []*process.Process
	for _, child := range children {
		if _, ok := seen[child.Pid]; ok {
			continue
		}
		seen[child.Pid] = struct{}{}
		all = append(all, child)
		all = append(all, descendants(ctx, child, seen)...)
	}
	return all
}

func kill(ctx context.Context, p *process.Process) {
	err := p.KillWithContext(ctx)
	// gopsutil reports a dead process either way, depending on whether it
	// noticed before or after issuing the signal
	if err == nil || errors.Is(err, process.ErrorProcessNotRunning) || errors.Is(err, os.ErrProcessDone) {
		return
	}
	slog.WarnContext(ctx, "killing process failed", "pid", p.Pid, "error", err)
}
