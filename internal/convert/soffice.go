package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/model"
)

// Soffice converts documents with a headless LibreOffice. Every conversion
// runs the binary with an isolated user profile, so a crashed or killed run
// cannot poison the next one through profile locks.
type Soffice struct {
	binary string
	args   []string
}

func NewSoffice(engine model.Engine) Soffice {
	binary := engine.Binary
	if binary == "" {
		binary = "soffice"
	}
	return Soffice{
		binary: binary,
		args:   append([]string(nil), engine.Args...),
	}
}

func (s Soffice) Convert(ctx context.Context, task model.Task, report ReportFunc) error {
	workDir, err := os.MkdirTemp("", "xlsx2pdf-*")
	if err != nil {
		return fmt.Errorf("creating engine work dir: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(workDir)
	}()

	args := []string{
		"--headless",
		"--norestore",
		"--invisible",
		"-env:UserInstallation=file://" + filepath.Join(workDir, "profile"),
		"--convert-to", "pdf",
		"--outdir", workDir,
	}
	args = append(args, s.args...)
	args = append(args, task.Input)

	// engine output is diagnostics only, stdout stays free for the
	// harness's handle report
	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, s.binary, args...)
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", s.binary, err)
	}
	if report != nil {
		report(cmd.Process.Pid)
	}
	slog.InfoContext(ctx, "engine started", "binary", s.binary, "pid", cmd.Process.Pid, "input", task.Input)

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("engine failed: %w: %s", err, strings.TrimSpace(output.String()))
	}

	stem := strings.TrimSuffix(filepath.Base(task.Input), filepath.Ext(task.Input))
	produced := filepath.Join(workDir, stem+".pdf")
	if _, err := os.Stat(produced); err != nil {
		return fmt.Errorf("engine produced no PDF for %s: %s", task.Input, strings.TrimSpace(output.String()))
	}

	if err := os.MkdirAll(filepath.Dir(task.Output), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := move(produced, task.Output); err != nil {
		return fmt.Errorf("placing output: %w", err)
	}
	slog.InfoContext(ctx, "engine finished", "output", task.Output)
	return nil
}

// move renames and falls back to copy, the temp dir may sit on another
// filesystem than the output root.
func move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
