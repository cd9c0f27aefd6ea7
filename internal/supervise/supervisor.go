package supervise

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/model"
	"github.com/RadteamBaoDA/xlsx2pdf/internal/proctree"
)

const (
	// DefaultPollInterval balances timeout responsiveness against waking
	// up the CPU; tasks run for seconds to minutes.
	DefaultPollInterval = 50 * time.Millisecond
	// DefaultGracePeriod between the graceful signal and the forced kill.
	DefaultGracePeriod = 5 * time.Second

	logChannelDepth = 256
)

// Supervisor runs tasks one at a time, each in its own worker process.
// It is stateless between tasks, a single value serves a whole batch.
type Supervisor struct {
	exe      string
	args     []string
	sinks    []Sink
	poll     time.Duration
	grace    time.Duration
	killTree func(context.Context, int)
}

// New builds a Supervisor spawning exe args... as the worker command.
func New(exe string, args ...string) *Supervisor {
	return &Supervisor{
		exe:      exe,
		args:     args,
		poll:     DefaultPollInterval,
		grace:    DefaultGracePeriod,
		killTree: proctree.Kill,
	}
}

// WithSinks attaches sinks receiving every drained worker log record.
func (s *Supervisor) WithSinks(sinks ...Sink) *Supervisor {
	s.sinks = append(s.sinks, sinks...)
	return s
}

func (s *Supervisor) WithPollInterval(d time.Duration) *Supervisor {
	s.poll = d
	return s
}

func (s *Supervisor) WithGracePeriod(d time.Duration) *Supervisor {
	s.grace = d
	return s
}

// WithKillTree overrides the process-tree terminator. Tests use it to
// observe which external PID would be reaped.
func (s *Supervisor) WithKillTree(f func(context.Context, int)) *Supervisor {
	s.killTree = f
	return s
}

// Run supervises one task from spawn to terminal classification and returns
// its Outcome exactly once. The returned error is non-nil only when the
// worker could not be spawned at all; everything after a successful spawn is
// expressed through the Outcome.
func (s *Supervisor) Run(ctx context.Context, task model.Task) (model.Outcome, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return model.Outcome{}, fmt.Errorf("encoding task: %w", err)
	}

	cmd := exec.Command(s.exe, s.args...)
	cmd.Stdin = bytes.NewReader(payload)
	setProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return model.Outcome{}, fmt.Errorf("opening handle channel: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return model.Outcome{}, fmt.Errorf("opening log channel: %w", err)
	}

	logCh := make(chan model.LogRecord, logChannelDepth)
	handleCh := make(chan int, 1)

	if err := cmd.Start(); err != nil {
		return model.Outcome{}, fmt.Errorf("spawning worker: %w", err)
	}
	start := time.Now()
	slog.DebugContext(ctx, "worker started", "task_id", task.ID, "pid", cmd.Process.Pid)

	var pumps errgroup.Group
	pumps.Go(func() error {
		defer close(logCh)
		return pumpLogs(stderr, logCh)
	})
	pumps.Go(func() error {
		defer close(handleCh)
		return pumpHandle(stdout, handleCh)
	})

	// Wait must not run before both pipes hit EOF, it closes them.
	done := make(chan error, 1)
	go func() {
		if err := pumps.Wait(); err != nil {
			slog.DebugContext(ctx, "channel pump ended", "task_id", task.ID, "error", err)
		}
		done <- cmd.Wait()
	}()

	var (
		timedOut  bool
		enginePID int
	)
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

running:
	for {
		s.drain(ctx, logCh)
		if enginePID == 0 {
			select {
			case pid, ok := <-handleCh:
				if ok {
					enginePID = pid
				}
			default:
			}
		}

		select {
		case <-done:
			break running
		case <-ticker.C:
			if time.Since(start) <= task.Deadline {
				continue
			}
			timedOut = true
			slog.ErrorContext(ctx, "task deadline exceeded, terminating worker",
				"task_id", task.ID, "input", task.Input, "deadline", task.Deadline)
			s.terminate(ctx, cmd, done, logCh)
			if enginePID == 0 {
				// a report may have raced with the kill; the
				// channel is closed by now
				if pid, ok := <-handleCh; ok {
					enginePID = pid
				}
			}
			if enginePID != 0 {
				s.killTree(ctx, enginePID)
			}
			break running
		}
	}

	// trailing records emitted between the last drain and process exit;
	// the log pump has closed the channel before done fired
	for rec := range logCh {
		s.forward(ctx, rec)
	}

	elapsed := time.Since(start)
	if timedOut {
		return model.Outcome{Kind: model.OutcomeTimedOut, Elapsed: elapsed}, nil
	}
	if code := cmd.ProcessState.ExitCode(); code != 0 {
		return model.Outcome{Kind: model.OutcomeFailure, ExitCode: code, Elapsed: elapsed}, nil
	}
	return model.Outcome{Kind: model.OutcomeSuccess, Elapsed: elapsed}, nil
}

// terminate asks the worker's process group to stop, waits out the grace
// period and kills it for good. It returns only after the worker has been
// fully reaped. The log channel keeps being drained the whole time: a worker
// flooding stderr on its way down would otherwise fill the channel, block
// the log pump and with it the exit notification terminate waits for.
func (s *Supervisor) terminate(ctx context.Context, cmd *exec.Cmd, done <-chan error, logCh <-chan model.LogRecord) {
	if err := signalGroup(cmd, false); err != nil {
		slog.DebugContext(ctx, "graceful termination signal failed", "error", err)
	}

	timer := time.NewTimer(s.grace)
	defer timer.Stop()
	if s.waitDraining(ctx, done, logCh, timer.C) {
		return
	}

	slog.WarnContext(ctx, "worker ignored termination request, killing", "pid", cmd.Process.Pid)
	if err := signalGroup(cmd, true); err != nil {
		slog.WarnContext(ctx, "killing worker failed", "pid", cmd.Process.Pid, "error", err)
	}
	s.waitDraining(ctx, done, logCh, nil)
}

// waitDraining forwards log records until done fires or timeout ticks.
// Reports whether done fired.
func (s *Supervisor) waitDraining(ctx context.Context, done <-chan error, logCh <-chan model.LogRecord, timeout <-chan time.Time) bool {
	for {
		select {
		case <-done:
			return true
		case rec, ok := <-logCh:
			if !ok {
				logCh = nil
				continue
			}
			s.forward(ctx, rec)
		case <-timeout:
			return false
		}
	}
}

// drain forwards every currently available record without blocking.
func (s *Supervisor) drain(ctx context.Context, logCh <-chan model.LogRecord) {
	for {
		select {
		case rec, ok := <-logCh:
			if !ok {
				return
			}
			s.forward(ctx, rec)
		default:
			return
		}
	}
}

func (s *Supervisor) forward(ctx context.Context, rec model.LogRecord) {
	for _, sink := range s.sinks {
		sink.Handle(ctx, rec)
	}
}
