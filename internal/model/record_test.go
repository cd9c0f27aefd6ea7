package model_test

import (
	"log/slog"
	"testing"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/model"
	"github.com/stretchr/testify/require"
)

func TestParseLogRecord(t *testing.T) {
	t.Run("slog line", func(t *testing.T) {
		line := `{"time":"2026-08-23T10:00:00Z","level":"ERROR","msg":"failed to open workbook","task_id":"t-1","input":"a.xlsx"}`
		rec := model.ParseLogRecord([]byte(line))
		require.Equal(t, slog.LevelError, rec.Level)
		require.Equal(t, "failed to open workbook", rec.Message)
		require.Equal(t, "t-1", rec.TaskID)
		require.Equal(t, "a.xlsx", rec.Attrs["input"])
		require.Equal(t, 2026, rec.Time.Year())
	})

	t.Run("warn with offset", func(t *testing.T) {
		rec := model.ParseLogRecord([]byte(`{"level":"WARN+1","msg":"m"}`))
		require.Equal(t, slog.LevelWarn+1, rec.Level)
	})

	t.Run("plain text", func(t *testing.T) {
		rec := model.ParseLogRecord([]byte("something wrote garbage"))
		require.Equal(t, slog.LevelInfo, rec.Level)
		require.Equal(t, "something wrote garbage", rec.Message)
		require.Empty(t, rec.TaskID)
		require.False(t, rec.Time.IsZero())
	})
}

func TestAggregateFold(t *testing.T) {
	var agg model.Aggregate
	t1 := model.Task{ID: "1", Input: "a.xlsx"}
	t2 := model.Task{ID: "2", Input: "b.docx"}
	t3 := model.Task{ID: "3", Input: "c.pptx"}

	agg.Fold(t1, model.Outcome{Kind: model.OutcomeSuccess})
	agg.Fold(t2, model.Outcome{Kind: model.OutcomeTimedOut})
	agg.Fold(t3, model.Outcome{Kind: model.OutcomeFailure, ExitCode: 1})

	require.Equal(t, 3, agg.Total)
	require.Equal(t, 1, agg.Success)
	require.Equal(t, 1, agg.Failure)
	require.Equal(t, 1, agg.TimedOut)
	require.Len(t, agg.Failed, 2)
	require.Equal(t, "2", agg.Failed[0].TaskID)
	require.Equal(t, "3", agg.Failed[1].TaskID)
}

func TestOutcomeString(t *testing.T) {
	require.Equal(t, "success", model.Outcome{Kind: model.OutcomeSuccess}.String())
	require.Equal(t, "failure (exit code 3)", model.Outcome{Kind: model.OutcomeFailure, ExitCode: 3}.String())
	require.Contains(t, model.Outcome{Kind: model.OutcomeTimedOut, Elapsed: 2100000000}.String(), "timed out")
}
