package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampedPath places base into folder with a timestamp between stem and
// extension, e.g. conversion.log -> logs/conversion_20260823101500.log.
// The folder is created when missing.
func TimestampedPath(folder, base string) (string, error) {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", fmt.Errorf("creating logs folder %s: %w", folder, err)
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(filepath.Base(base), ext)
	name := stem + "_" + time.Now().Format("20060102150405") + ext
	return filepath.Join(folder, name), nil
}

// NewFileHandler opens a timestamped log file in folder and returns a JSON
// handler writing to it. The caller owns the closer.
func NewFileHandler(folder, base string, level slog.Leveler) (slog.Handler, io.Closer, error) {
	path, err := TimestampedPath(folder, base)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("creating log file %s: %w", path, err)
	}
	h := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})
	return h, f, nil
}
