// Package schema has models and constants for all parts of newslog.
package schema

import "time"

// Article is a published article. Slug is its unique key and is embedded in
// the request path of every page view.
type Article struct {
	Slug     string `db:"slug" json:"slug" yaml:"slug"`
	Title    string `db:"title" json:"title" yaml:"title"`
	AuthorID int64  `db:"author" json:"author_id" yaml:"author_id"`
}

// Author wrote zero or more articles.
type Author struct {
	ID   int64  `db:"id" json:"id" yaml:"id"`
	Name string `db:"name" json:"name" yaml:"name"`
}

// LogEntry is one row of the web server access log.
type LogEntry struct {
	Time   time.Time `db:"time" json:"time" yaml:"time"`
	Path   string    `db:"path" json:"path" yaml:"path"`
	Status string    `db:"status" json:"status" yaml:"status"` // e.g. "200 OK", "404 NOT FOUND"
}

// ArticleViewCount is the number of log entries resolved to an article.
type ArticleViewCount struct {
	Article Article `json:"article" yaml:"article"`
	Views   int     `json:"views" yaml:"views"`
}

// AuthorViewCount is the sum of views over all articles of an author.
type AuthorViewCount struct {
	Author Author `json:"author" yaml:"author"`
	Views  int    `json:"views" yaml:"views"`
}

// DailyErrorStat holds request totals for one calendar day.
// ErrorRate is a percentage rounded to one decimal place.
type DailyErrorStat struct {
	Day           time.Time `json:"day" yaml:"day"`
	TotalRequests int       `json:"total_requests" yaml:"total_requests"`
	ErrorRequests int       `json:"error_requests" yaml:"error_requests"`
	ErrorRate     float64   `json:"error_rate" yaml:"error_rate"`
}

// Report is the ordered answer to all three questions for a single run.
type Report struct {
	Articles  []ArticleViewCount `json:"articles" yaml:"articles"`
	Authors   []AuthorViewCount  `json:"authors" yaml:"authors"`
	ErrorDays []DailyErrorStat   `json:"error_days" yaml:"error_days"`
}

// Records bundles the three collections read from a record source.
type Records struct {
	Articles   []Article
	Authors    []Author
	LogEntries []LogEntry
}

// RowCount returns the number of rows a section holds.
func (r *Report) RowCount(section Section) int {
	switch section {
	case ArticlesSection:
		return len(r.Articles)
	case AuthorsSection:
		return len(r.Authors)
	case ErrorDaysSection:
		return len(r.ErrorDays)
	default:
		return 0
	}
}
