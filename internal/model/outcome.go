package model

import (
	"fmt"
	"time"
)

// OutcomeKind is the terminal classification of a task.
type OutcomeKind uint8

const (
	// OutcomeSuccess means the worker exited zero before its deadline.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeFailure means the worker exited nonzero before its deadline.
	OutcomeFailure
	// OutcomeTimedOut means the worker was still alive past its deadline
	// and has been terminated.
	OutcomeTimedOut
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeTimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(k))
	}
}

// Outcome is computed exactly once per task by the supervisor and never
// re-tagged. ExitCode is meaningful for OutcomeFailure, Elapsed for
// OutcomeTimedOut; both are informational otherwise.
type Outcome struct {
	Kind     OutcomeKind
	ExitCode int
	Elapsed  time.Duration
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeFailure:
		return fmt.Sprintf("failure (exit code %d)", o.ExitCode)
	case OutcomeTimedOut:
		return fmt.Sprintf("timed out after %s", o.Elapsed.Round(time.Millisecond))
	default:
		return o.Kind.String()
	}
}

// TaskOutcome pairs a finished task with its classification, for the
// failing-task list of an Aggregate.
type TaskOutcome struct {
	TaskID  string
	Input   string
	Outcome Outcome
}

// Aggregate is the running result of a batch. It is mutated only by the
// batch runner, once per task, after the supervision returned.
type Aggregate struct {
	Total    int
	Success  int
	Failure  int
	TimedOut int
	Failed   []TaskOutcome
}

// Fold records one terminal outcome. Exactly one counter is incremented;
// non-success outcomes are appended to the failing list in arrival order.
func (a *Aggregate) Fold(task Task, outcome Outcome) {
	a.Total++
	switch outcome.Kind {
	case OutcomeSuccess:
		a.Success++
		return
	case OutcomeFailure:
		a.Failure++
	case OutcomeTimedOut:
		a.TimedOut++
	}
	a.Failed = append(a.Failed, TaskOutcome{
		TaskID:  task.ID,
		Input:   task.Input,
		Outcome: outcome,
	})
}
