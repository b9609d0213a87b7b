package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/newslog/internal/contract"
	"github.com/huangsam/newslog/schema"
)

// writeReportText writes each configured section under its question, in the
// fixed section order. The output depends only on the report and cfg.
func writeReportText(w io.Writer, report *schema.Report, cfg *contract.Config) error {
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

		if _, err := fmt.Fprintf(w, "%s\n\n", QuestionText(section, cfg)); err != nil {
			return err
		}
		for _, line := range sectionLines(report, section) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// sectionLines renders the answer lines of one section.
func sectionLines(report *schema.Report, section schema.Section) []string {
	var lines []string
	switch section {
	case schema.ArticlesSection:
		for _, v := range report.Articles {
			lines = append(lines, FormatArticleLine(v))
		}
	case schema.AuthorsSection:
		for _, v := range report.Authors {
			lines = append(lines, FormatAuthorLine(v))
		}
	case schema.ErrorDaysSection:
		for _, s := range report.ErrorDays {
			lines = append(lines, FormatErrorDayLine(s))
		}
	}
	return lines
}
