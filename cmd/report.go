package cmd

import (
	"github.com/huangsam/newslog/schema"
	"github.com/spf13/cobra"
)

// reportCmd prints all three answers.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Answer all three log analysis questions.",
	Long: `Read the record source once and print the top articles, the author
ranking and the days whose error rate exceeded the threshold.

This is also what the bare 'newslog' command does.

Examples:
  # Report against the default PostgreSQL 'news' database
  newslog report

  # Report against a MySQL source, as a table
  NEWSLOG_SOURCE_DB_CONNECT="user:pass@tcp(localhost:3306)/news?parseTime=true" \
    newslog report --source-backend mysql --output table

  # Count 404s and any 5xx as errors, grouping days in New York time
  newslog report --error-statuses 404,5xx --timezone America/New_York

  # Export the report for BI tools
  newslog report --output parquet --output-file report.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sectionSetup(schema.AllSections...),
	Run:     runReport,
}

// articlesCmd prints the top articles.
var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Show the most popular articles of all time.",
	Long: `Rank articles by the number of access log entries whose path resolves to
them. Equal view counts are ordered by title.

Examples:
  # Top three articles (default)
  newslog articles

  # Top ten as JSON
  newslog articles --limit 10 --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sectionSetup(schema.ArticlesSection),
	Run:     runReport,
}

// authorsCmd prints the author ranking.
var authorsCmd = &cobra.Command{
	Use:   "authors",
	Short: "Show the most popular article authors of all time.",
	Long: `Rank every author with at least one view by the summed views of their
articles. Equal view counts are ordered by name.

Examples:
  newslog authors --output table`,
	Args:    cobra.NoArgs,
	PreRunE: sectionSetup(schema.AuthorsSection),
	Run:     runReport,
}

// errorsCmd prints the error-heavy days.
var errorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "Show the days on which more than 1% of requests led to errors.",
	Long: `Group requests by calendar day and list the days whose error rate,
rounded to one decimal, is strictly greater than the threshold.

Examples:
  # Days above 1% of 404 responses (default)
  newslog errors

  # Days above 2.5% of any 4xx or 5xx response
  newslog errors --error-threshold 2.5 --error-statuses 4xx,5xx`,
	Args:    cobra.NoArgs,
	PreRunE: sectionSetup(schema.ErrorDaysSection),
	Run:     runReport,
}
