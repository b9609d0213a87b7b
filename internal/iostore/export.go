package iostore

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/newslog/internal/contract"
	"github.com/huangsam/newslog/internal/parquet"
)

// ExecuteHistoryExport exports the report history of store to two Parquet
// files next to outputFile. Progress is written to w.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("report history is disabled. Set --history-backend to enable it")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no report history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total report runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total report rows: %d\n", status.TableSizes[reportRowsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve report runs: %w", err)
	}
	rows, err := store.GetAllRows()
	if err != nil {
		return fmt.Errorf("failed to retrieve report rows: %w", err)
	}

	runsFile := outputFile + ".report_runs.parquet"
	if err := parquet.WriteReportRunsParquet(parquet.ConvertReportRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write report runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d report runs to: %s\n", len(runs), runsFile)

	rowsFile := outputFile + ".report_rows.parquet"
	if err := parquet.WriteReportRowsParquet(parquet.ConvertReportRowRecords(rows), rowsFile); err != nil {
		return fmt.Errorf("failed to write report rows: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d report rows to: %s\n", len(rows), rowsFile)
	return nil
}
