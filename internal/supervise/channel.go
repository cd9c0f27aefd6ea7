package supervise

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/model"
)

// generous headroom for one slog line; engines can log whole stack traces
const maxLineSize = 1024 * 1024

// pumpLogs turns the worker's stderr stream into LogRecords. It runs until
// EOF, which the OS delivers once the worker (and anything inheriting its
// stderr) is gone. Sends block when the buffer is full, which simply
// backpressures the worker through the pipe without reordering anything.
func pumpLogs(r io.Reader, out chan<- model.LogRecord) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		out <- model.ParseLogRecord(line)
	}
	return scanner.Err()
}

// pumpHandle watches the worker's stdout for the one-shot engine PID report.
// Later lines are drained and dropped so a misbehaving worker cannot block
// on a full pipe.
func pumpHandle(r io.Reader, out chan<- int) error {
	scanner := bufio.NewScanner(r)
	reported := false
	for scanner.Scan() {
		if reported {
			continue
		}
		var rep model.HandleReport
		if err := json.Unmarshal(scanner.Bytes(), &rep); err != nil || rep.PID <= 0 {
			continue
		}
		out <- rep.PID // cap 1, single send
		reported = true
	}
	return scanner.Err()
}
