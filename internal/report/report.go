// Package report renders the end-of-batch summary, both to the console and
// to a timestamped file next to the logs.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/log"
	"github.com/RadteamBaoDA/xlsx2pdf/internal/model"
)

// Summary is everything the end-of-batch report needs.
type Summary struct {
	Aggregate model.Aggregate
	Languages map[string]int // empty when classification is disabled
	Started   time.Time
	Elapsed   time.Duration
}

// Render writes the human-readable summary table to w.
func (s Summary) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "CONVERSION SUMMARY")
	fmt.Fprintf(tw, "started:\t%s\n", s.Started.Format(time.RFC3339))
	fmt.Fprintf(tw, "elapsed:\t%s\n", s.Elapsed.Round(time.Millisecond))
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "total:\t%d\n", s.Aggregate.Total)
	fmt.Fprintf(tw, "success:\t%d\n", s.Aggregate.Success)
	fmt.Fprintf(tw, "failure:\t%d\n", s.Aggregate.Failure)
	fmt.Fprintf(tw, "timed out:\t%d\n", s.Aggregate.TimedOut)

	if len(s.Languages) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "LANGUAGE DISTRIBUTION")
		for _, code := range sortedKeys(s.Languages) {
			fmt.Fprintf(tw, "%s:\t%d\n", code, s.Languages[code])
		}
	}

	if len(s.Aggregate.Failed) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "FAILED FILES")
		for _, f := range s.Aggregate.Failed {
			fmt.Fprintf(tw, "%s\t%s\n", f.Input, f.Outcome.String())
		}
	}
	return tw.Flush()
}

// Save writes the summary into folder as summary_report_<timestamp>.txt and
// returns the path.
func (s Summary) Save(folder string) (string, error) {
	path, err := log.TimestampedPath(folder, "summary_report.txt")
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating summary report: %w", err)
	}
	if err := s.Render(f); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
