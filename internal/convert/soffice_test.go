package convert_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/convert"
	"github.com/RadteamBaoDA/xlsx2pdf/internal/model"
	"github.com/stretchr/testify/require"
)

// fakeEngine mimics soffice: it parses --outdir and the trailing input path
// and drops a <stem>.pdf into the outdir.
const fakeEngine = `#!/bin/sh
out=""
while [ $# -gt 1 ]; do
  if [ "$1" = "--outdir" ]; then out="$2"; fi
  shift
done
in="$1"
base=$(basename "$in")
stem="${base%.*}"
printf 'fake pdf' > "$out/$stem.pdf"
`

const brokenEngine = `#!/bin/sh
echo 'cannot open document' >&2
exit 77
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.sh")
	require.NoError(t, os.WriteFile(path, []byte(body), 0755))
	return path
}

func TestSofficeConvert(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	input := filepath.Join(dir, "report.xlsx")
	require.NoError(t, os.WriteFile(input, []byte("x"), 0644))

	task := model.Task{
		ID:     "t-1",
		Input:  input,
		Output: filepath.Join(dir, "out", "report_x.pdf"),
		Engine: model.Engine{Binary: writeScript(t, fakeEngine)},
	}

	var pid int
	conv := convert.NewSoffice(task.Engine)
	err := conv.Convert(t.Context(), task, func(p int) { pid = p })
	require.NoError(t, err)
	require.Positive(t, pid)

	b, err := os.ReadFile(task.Output)
	require.NoError(t, err)
	require.Equal(t, "fake pdf", string(b))
}

func TestSofficeConvertEngineFails(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	task := model.Task{
		Input:  filepath.Join(dir, "report.xlsx"),
		Output: filepath.Join(dir, "report_x.pdf"),
		Engine: model.Engine{Binary: writeScript(t, brokenEngine)},
	}

	err := convert.NewSoffice(task.Engine).Convert(t.Context(), task, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot open document")
}

func TestSofficeConvertNoOutput(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	task := model.Task{
		Input:  filepath.Join(dir, "report.xlsx"),
		Output: filepath.Join(dir, "report_x.pdf"),
		// engine exits zero without producing anything
		Engine: model.Engine{Binary: writeScript(t, "#!/bin/sh\nexit 0\n")},
	}

	err := convert.NewSoffice(task.Engine).Convert(t.Context(), task, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no PDF")
}

func TestSofficeConvertMissingBinary(t *testing.T) {
	t.Parallel()
	task := model.Task{
		Input:  "in.xlsx",
		Output: "out.pdf",
		Engine: model.Engine{Binary: "/does/not/exist"},
	}
	err := convert.NewSoffice(task.Engine).Convert(t.Context(), task, nil)
	require.Error(t, err)
}
