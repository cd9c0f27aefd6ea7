package lang_test

import (
	"path/filepath"
	"testing"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/lang"
	"github.com/RadteamBaoDA/xlsx2pdf/internal/model"
	"github.com/stretchr/testify/require"
)

func classifier(enabled bool) lang.Classifier {
	return lang.New(model.Language{
		Enabled: enabled,
		Mode:    model.LanguageModeFilename,
		Patterns: map[string][]string{
			"vi": {"_VN", "_vi"},
			"ja": {"_JP"},
			"en": {""},
		},
		OutputFormat: "output-{lang}",
	})
}

func TestClassify(t *testing.T) {
	c := classifier(true)
	require.True(t, c.Enabled())

	require.Equal(t, "vi", c.Classify("/in/report_VN.xlsx"))
	require.Equal(t, "vi", c.Classify("budget_vi.xlsx"))
	require.Equal(t, "ja", c.Classify("plan_JP.docx"))
	// empty pattern claims files no other language matched
	require.Equal(t, "en", c.Classify("plain.pptx"))
}

func TestClassifyDisabled(t *testing.T) {
	c := classifier(false)
	require.False(t, c.Enabled())
	require.Equal(t, lang.Other, c.Classify("report_VN.xlsx"))
}

func TestClassifyOverlapStable(t *testing.T) {
	c := lang.New(model.Language{
		Enabled: true,
		Mode:    model.LanguageModeFilename,
		Patterns: map[string][]string{
			"vi": {"_ASIA"},
			"ja": {"_ASIA"},
		},
	})
	// both languages match; the alphabetically first code wins, every run
	for range 100 {
		require.Equal(t, "ja", c.Classify("report_ASIA.xlsx"))
	}
}

func TestClassifyNoFallback(t *testing.T) {
	c := lang.New(model.Language{
		Enabled:  true,
		Mode:     model.LanguageModeFilename,
		Patterns: map[string][]string{"vi": {"_VN"}},
	})
	require.Equal(t, lang.Other, c.Classify("plain.xlsx"))
}

func TestOutputRoot(t *testing.T) {
	c := classifier(true)
	got := c.OutputRoot(filepath.Join("work", "output"), "vi")
	require.Equal(t, filepath.Join("work", "output-vi"), got)

	disabled := classifier(false)
	require.Equal(t, "output", disabled.OutputRoot("output", "vi"))
}
