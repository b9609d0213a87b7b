package outwriter

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/newslog/internal/contract"
	"github.com/huangsam/newslog/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"
)

// writeReportTable renders one table per configured section.
func writeReportTable(w io.Writer, report *schema.Report, cfg *contract.Config) error {
	first := true
	for _, section := range schema.AllSections {
		if !cfg.Wants(section) {
			continue
		}
		if !first {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		first = false

		if _, err := fmt.Fprintln(w, QuestionText(section, cfg)); err != nil {
			return err
		}
		headers, rows := tableRows(report, section, cfg)
		if err := renderTable(w, headers, rows); err != nil {
			return err
		}
	}
	return nil
}

// tableRows builds the headers and rows of one section.
func tableRows(report *schema.Report, section schema.Section, cfg *contract.Config) ([]string, [][]string) {
	textWidth := getMaxTableTextWidth(cfg)
	var rows [][]string
	switch section {
	case schema.ArticlesSection:
		for i, v := range report.Articles {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				contract.TruncateText(v.Article.Title, textWidth),
				strconv.Itoa(v.Views),
			})
		}
		return []string{"Rank", "Title", "Views"}, rows
	case schema.AuthorsSection:
		for i, v := range report.Authors {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				contract.TruncateText(v.Author.Name, textWidth),
				strconv.Itoa(v.Views),
			})
		}
		return []string{"Rank", "Author", "Views"}, rows
	default:
		for _, s := range report.ErrorDays {
			label := contract.GetPlainLabel(s.ErrorRate)
			if cfg.UseColors {
				label = contract.GetColorLabel(s.ErrorRate)
			}
			rows = append(rows, []string{
				s.Day.Format(contract.DayFormat),
				strconv.Itoa(s.TotalRequests),
				strconv.Itoa(s.ErrorRequests),
				fmt.Sprintf("%.1f%%", s.ErrorRate),
				label,
			})
		}
		return []string{"Day", "Requests", "Errors", "Rate", "Label"}, rows
	}
}

// renderTable writes a right-aligned table.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// getMaxTableTextWidth calculates the maximum width for titles and names in
// table output based on terminal width.
func getMaxTableTextWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Views columns plus borders and padding
	available := termWidth - 30
	if available < 15 {
		return 15
	}
	if available > 90 {
		return 90
	}
	return available
}
