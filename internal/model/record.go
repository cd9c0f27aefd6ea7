package model

import (
	"encoding/json"
	"log/slog"
	"time"
)

// LogRecord is one structured log event produced by a worker and forwarded
// across the process boundary. Workers emit them as slog JSON lines on
// stderr; the supervisor decodes and delivers them to its sinks in the order
// they were produced.
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	TaskID  string
	Attrs   map[string]any
}

// reserved slog JSON keys, everything else lands in Attrs
const (
	keyTime   = "time"
	keyLevel  = "level"
	keyMsg    = "msg"
	keyTaskID = "task_id"
)

// ParseLogRecord decodes one slog JSON line. Lines that are not JSON objects
// are wrapped verbatim as info records, so a worker writing plain text to
// stderr still reaches the sinks instead of being dropped.
func ParseLogRecord(line []byte) LogRecord {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(line, &raw); err != nil || raw == nil {
		return LogRecord{
			Time:    time.Now().UTC(),
			Level:   slog.LevelInfo,
			Message: string(line),
		}
	}

	var rec LogRecord
	if v, ok := raw[keyTime]; ok {
		_ = json.Unmarshal(v, &rec.Time)
		delete(raw, keyTime)
	}
	if v, ok := raw[keyLevel]; ok {
		var level string
		if json.Unmarshal(v, &level) == nil {
			_ = rec.Level.UnmarshalText([]byte(level))
		}
		delete(raw, keyLevel)
	}
	if v, ok := raw[keyMsg]; ok {
		_ = json.Unmarshal(v, &rec.Message)
		delete(raw, keyMsg)
	}
	if v, ok := raw[keyTaskID]; ok {
		_ = json.Unmarshal(v, &rec.TaskID)
		delete(raw, keyTaskID)
	}

	if len(raw) != 0 {
		rec.Attrs = make(map[string]any, len(raw))
		for k, v := range raw {
			var value any
			if json.Unmarshal(v, &value) == nil {
				rec.Attrs[k] = value
			}
		}
	}
	return rec
}

// HandleReport is the one-shot message a worker writes to stdout when the
// conversion engine reports the native process it spawned.
type HandleReport struct {
	PID int `json:"pid"`
}
