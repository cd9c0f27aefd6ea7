// Package supervise runs one conversion task per isolated worker process and
// guarantees a single terminal outcome for it, no matter how the worker ends.
//
// Overview
// The Supervisor spawns the current binary as a worker (the hidden _convert
// command), feeds it the task as JSON on stdin and watches it with a short
// polling loop until it exits or overruns its deadline.
//
// Two one-directional conduits connect worker and supervisor:
//   - Log channel: the worker's stderr carries slog JSON lines. A pump
//     goroutine decodes them into LogRecords which the loop drains
//     non-blockingly and forwards to every attached Sink in arrival order.
//   - Handle channel: the worker's stdout carries at most one JSON line with
//     the PID of the native application the conversion engine spawned, so
//     the supervisor can reap its process tree on timeout.
//
// Data flow:
//
//	Supervisor                 Worker{_convert}          Engine{soffice}
//	    |  task JSON -> stdin ---->|                         |
//	    |                          | Convert() ------------->| spawn
//	    |<---- stderr log lines ---|                         |
//	    |<---- stdout pid line ----|                         |
//	    |        ...poll, drain, deadline check...           |
//	    |<---- exit status --------|  (or SIGTERM/SIGKILL + tree kill)
//
// Invariants:
//   - Each task produces exactly one Outcome (success, failure, timed out);
//     classification happens in one place, at the end of Run.
//   - Log records of a task reach the sinks in the order they were written,
//     including records emitted just before the worker exits.
//   - A stalled worker never stalls the supervisor: channel reads in the
//     loop are non-blocking and the deadline is enforced by wall clock.
//   - On timeout the worker's process group is terminated (graceful signal,
//     bounded grace period, forced kill) and the reported engine process
//     tree is reaped afterwards.

package supervise
