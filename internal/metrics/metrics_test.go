package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/newslog/schema"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		Report: &schema.Report{
			Articles: []schema.ArticleViewCount{
				{Article: schema.Article{Slug: "a", Title: "Alpha", AuthorID: 1}, Views: 3},
			},
			Authors: []schema.AuthorViewCount{
				{Author: schema.Author{ID: 1, Name: "Ann"}, Views: 4},
			},
			ErrorDays: []schema.DailyErrorStat{
				{Day: time.Date(2016, 7, 1, 0, 0, 0, 0, time.UTC), TotalRequests: 5, ErrorRequests: 1, ErrorRate: 20},
			},
		},
		LogEntries: 5,
		Duration:   1500 * time.Millisecond,
		Finished:   time.Unix(1_700_000_000, 0),
	}
}

func TestRegistry(t *testing.T) {
	reg := Registry(sampleSnapshot())

	expected := `
# HELP newslog_article_views Views of a top-ranked article
# TYPE newslog_article_views gauge
newslog_article_views{slug="a",title="Alpha"} 3
# HELP newslog_author_views Views summed over all articles of an author
# TYPE newslog_author_views gauge
newslog_author_views{author="Ann"} 4
# HELP newslog_error_day_rate_percent Error rate of a day above the reporting threshold
# TYPE newslog_error_day_rate_percent gauge
newslog_error_day_rate_percent{day="2016-07-01"} 20
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"newslog_article_views", "newslog_author_views", "newslog_error_day_rate_percent")
	assert.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "newslog_error_day_requests")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRegistryNilReport(t *testing.T) {
	reg := Registry(Snapshot{LogEntries: 10})
	count, err := testutil.GatherAndCount(reg, "newslog_article_views", "newslog_log_entries")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newslog.prom")
	require.NoError(t, WriteTextfile(path, sampleSnapshot()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, `newslog_article_views{slug="a",title="Alpha"} 3`)
	assert.Contains(t, text, "newslog_log_entries 5")
	assert.Contains(t, text, "newslog_report_duration_seconds 1.5")
	assert.Contains(t, text, "newslog_last_success_timestamp_seconds 1.7e+09")
}

func TestWriteTextfileInvalidPath(t *testing.T) {
	err := WriteTextfile("/nonexistent/dir/newslog.prom", sampleSnapshot())
	assert.Error(t, err)
}
