package walk_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/model"
	"github.com/RadteamBaoDA/xlsx2pdf/internal/walk"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestFiles(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	touch(t, filepath.Join(root, "a.xlsx"))
	touch(t, filepath.Join(root, "sub", "b.docx"))
	touch(t, filepath.Join(root, "sub", "deck.pptx"))
	touch(t, filepath.Join(root, "sub", "notes.txt"))
	touch(t, filepath.Join(root, "sub", "~$b.docx"))
	touch(t, filepath.Join(root, ".hidden", "c.xlsx"))
	touch(t, filepath.Join(root, "enhanced_files", "a.xlsx"))

	opts := walk.Options{
		ExcludeDirs: []string{filepath.Join(root, "enhanced_files")},
	}

	var got []walk.Entry
	for entry, err := range walk.Files(t.Context(), root, opts) {
		require.NoError(t, err)
		got = append(got, entry)
	}

	require.Len(t, got, 3)
	byName := map[string]model.Family{}
	for _, e := range got {
		byName[filepath.Base(e.Path)] = e.Family
	}
	require.Equal(t, model.FamilyExcel, byName["a.xlsx"])
	require.Equal(t, model.FamilyWord, byName["b.docx"])
	require.Equal(t, model.FamilyPowerPoint, byName["deck.pptx"])
}

func TestFilesFamilyFilter(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.xlsx"))
	touch(t, filepath.Join(root, "b.docx"))

	opts := walk.Options{Families: []model.Family{model.FamilyWord}}
	var got []walk.Entry
	for entry, err := range walk.Files(t.Context(), root, opts) {
		require.NoError(t, err)
		got = append(got, entry)
	}
	require.Len(t, got, 1)
	require.Equal(t, model.FamilyWord, got[0].Family)
}

func TestFilesBreak(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	for _, name := range []string{"a.xlsx", "b.xlsx", "c.xlsx"} {
		touch(t, filepath.Join(root, name))
	}

	n := 0
	for _, err := range walk.Files(t.Context(), root, walk.Options{}) {
		require.NoError(t, err)
		n++
		break
	}
	require.Equal(t, 1, n)
}
