package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/newslog/internal/contract"
	"github.com/huangsam/newslog/schema"
	"gopkg.in/yaml.v3"
)

// reportDocument is the structured form of a report used by JSON and YAML.
type reportDocument struct {
	Sections  []schema.Section `json:"sections" yaml:"sections"`
	Articles  []articleRow     `json:"articles" yaml:"articles"`
	Authors   []authorRow      `json:"authors" yaml:"authors"`
	ErrorDays []errorDayRow    `json:"error_days" yaml:"error_days"`
}

type articleRow struct {
	Rank     int    `json:"rank" yaml:"rank"`
	Slug     string `json:"slug" yaml:"slug"`
	Title    string `json:"title" yaml:"title"`
	AuthorID int64  `json:"author_id" yaml:"author_id"`
	Views    int    `json:"views" yaml:"views"`
}

type authorRow struct {
	Rank  int    `json:"rank" yaml:"rank"`
	ID    int64  `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Views int    `json:"views" yaml:"views"`
}

type errorDayRow struct {
	Day           string  `json:"day" yaml:"day"`
	TotalRequests int     `json:"total_requests" yaml:"total_requests"`
	ErrorRequests int     `json:"error_requests" yaml:"error_requests"`
	ErrorRate     float64 `json:"error_rate" yaml:"error_rate"`
	Label         string  `json:"label" yaml:"label"`
}

// newReportDocument adds ranks and labels to the report rows. Days are
// written as plain dates.
func newReportDocument(report *schema.Report, cfg *contract.Config) reportDocument {
	doc := reportDocument{
		Articles:  make([]articleRow, 0, len(report.Articles)),
		Authors:   make([]authorRow, 0, len(report.Authors)),
		ErrorDays: make([]errorDayRow, 0, len(report.ErrorDays)),
	}
	for _, section := range schema.AllSections {
		if cfg.Wants(section) {
			doc.Sections = append(doc.Sections, section)
		}
	}
	for i, v := range report.Articles {
		doc.Articles = append(doc.Articles, articleRow{
			Rank:     i + 1,
			Slug:     v.Article.Slug,
			Title:    v.Article.Title,
			AuthorID: v.Article.AuthorID,
			Views:    v.Views,
		})
	}
	for i, v := range report.Authors {
		doc.Authors = append(doc.Authors, authorRow{
			Rank:  i + 1,
			ID:    v.Author.ID,
			Name:  v.Author.Name,
			Views: v.Views,
		})
	}
	for _, s := range report.ErrorDays {
		doc.ErrorDays = append(doc.ErrorDays, errorDayRow{
			Day:           s.Day.Format(time.DateOnly),
			TotalRequests: s.TotalRequests,
			ErrorRequests: s.ErrorRequests,
			ErrorRate:     s.ErrorRate,
			Label:         contract.GetPlainLabel(s.ErrorRate),
		})
	}
	return doc
}

// writeReportCSV writes every configured section into one CSV with a
// section column. Columns that do not apply to a section are left empty.
func writeReportCSV(w io.Writer, report *schema.Report, cfg *contract.Config) error {
	header := []string{"section", "rank", "label", "views", "day", "total_requests", "error_requests", "error_rate"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		var records [][]string
		if cfg.Wants(schema.ArticlesSection) {
			for i, v := range report.Articles {
				records = append(records, []string{
					string(schema.ArticlesSection), strconv.Itoa(i + 1), v.Article.Title, strconv.Itoa(v.Views), "", "", "", "",
				})
			}
		}
		if cfg.Wants(schema.AuthorsSection) {
			for i, v := range report.Authors {
				records = append(records, []string{
					string(schema.AuthorsSection), strconv.Itoa(i + 1), v.Author.Name, strconv.Itoa(v.Views), "", "", "", "",
				})
			}
		}
		if cfg.Wants(schema.ErrorDaysSection) {
			for i, s := range report.ErrorDays {
				day := s.Day.Format(time.DateOnly)
				records = append(records, []string{
					string(schema.ErrorDaysSection), strconv.Itoa(i + 1), day, "", day,
					strconv.Itoa(s.TotalRequests), strconv.Itoa(s.ErrorRequests), fmt.Sprintf("%.1f", s.ErrorRate),
				})
			}
		}
		for _, rec := range records {
			if err := csvWriter.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeYAML encodes data as YAML with two-space indentation.
func writeYAML(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return nil
}
