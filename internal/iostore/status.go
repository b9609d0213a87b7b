package iostore

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/huangsam/newslog/schema"
)

// PrintSourceStatus prints record source status information.
func PrintSourceStatus(w io.Writer, status schema.SourceStatus) {
	_, _ = fmt.Fprintf(w, "Source Backend: %s\n", status.Backend)
	if status.Database != "" {
		_, _ = fmt.Fprintf(w, "Database: %s\n", status.Database)
	}
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	printTableSizes(w, status.TableSizes)
}

// PrintHistoryStatus prints report history status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))
	}
	printTableSizes(w, status.TableSizes)
}

func printTableSizes(w io.Writer, sizes map[string]int64) {
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(sizes)) {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, sizes[table])
	}
}
