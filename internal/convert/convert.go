// Package convert holds the conversion capability the worker harness
// invokes. The supervisor never imports the engine: conversion stays opaque
// behind Converter.
package convert

import (
	"context"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/model"
)

// ReportFunc hands the PID of a native application the converter spawned
// back to the harness. Calling it is best-effort and optional; converters
// that spawn nothing never call it.
type ReportFunc func(pid int)

// Converter turns one input document into one PDF at task.Output. It may
// take arbitrarily long and may spawn further native processes, which it
// reports through report so a supervisor can reap them on timeout.
type Converter interface {
	Convert(ctx context.Context, task model.Task, report ReportFunc) error
}
