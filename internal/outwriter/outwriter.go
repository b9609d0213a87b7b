// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/newslog/internal/contract"
	"github.com/huangsam/newslog/internal/parquet"
	"github.com/huangsam/newslog/schema"
)

// ReportHeader is printed once above the text report.
const ReportHeader = "*** Log analysis reporting tool ***"

// LogReportHeader prints the tool header to stdout ahead of the text report.
func LogReportHeader(cfg *contract.Config) {
	if cfg.OutputFile != "" {
		return
	}
	fmt.Printf("\n%s\n\n", ReportHeader)
}

// WriteReport outputs the report, dispatching based on the output format configured.
func WriteReport(report *schema.Report, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires an output file")
		}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteReportEntries(w, parquet.ConvertReport(report))
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		return nil
	default:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return RenderReport(w, report, cfg)
		}, "Wrote "+formatName(cfg.Output)); err != nil {
			return fmt.Errorf("error writing %s output: %w", formatName(cfg.Output), err)
		}
		return nil
	}
}

// RenderReport writes the report to w in any streamable output format.
// Parquet is not streamable and is rejected here.
func RenderReport(w io.Writer, report *schema.Report, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.TableOut:
		return writeReportTable(w, report, cfg)
	case schema.CSVOut:
		return writeReportCSV(w, report, cfg)
	case schema.JSONOut:
		return writeJSON(w, newReportDocument(report, cfg))
	case schema.YAMLOut:
		return writeYAML(w, newReportDocument(report, cfg))
	case schema.TextOut, "":
		return writeReportText(w, report, cfg)
	default:
		return fmt.Errorf("unsupported output format for streaming: %s", cfg.Output)
	}
}

// formatName returns the display name of an output format.
func formatName(mode schema.OutputMode) string {
	switch mode {
	case schema.CSVOut, schema.JSONOut, schema.YAMLOut:
		return strings.ToUpper(string(mode))
	case schema.TableOut:
		return "table"
	default:
		return "text"
	}
}
