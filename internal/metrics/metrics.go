// Package metrics writes report results in the Prometheus text exposition
// format so a node_exporter textfile collector can pick them up.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/huangsam/newslog/schema"
)

const namespace = "newslog"

// Snapshot is everything a finished run exposes as metrics.
type Snapshot struct {
	Report     *schema.Report
	LogEntries int
	Duration   time.Duration
	Finished   time.Time
}

type collectors struct {
	articleViews  *prometheus.GaugeVec
	authorViews   *prometheus.GaugeVec
	errorDayRate  *prometheus.GaugeVec
	errorDayTotal *prometheus.GaugeVec
	logEntries    prometheus.Gauge
	duration      prometheus.Gauge
	lastSuccessTS prometheus.Gauge
}

func newCollectors(reg *prometheus.Registry) *collectors {
	c := &collectors{
		articleViews: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "article_views",
			Help:      "Views of a top-ranked article",
		}, []string{"slug", "title"}),
		authorViews: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "author_views",
			Help:      "Views summed over all articles of an author",
		}, []string{"author"}),
		errorDayRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "error_day_rate_percent",
			Help:      "Error rate of a day above the reporting threshold",
		}, []string{"day"}),
		errorDayTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "error_day_requests",
			Help:      "Requests of a day above the reporting threshold",
		}, []string{"day", "kind"}),
		logEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "log_entries",
			Help:      "Access log entries read by the last run",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "report_duration_seconds",
			Help:      "Time spent building the last report",
		}),
		lastSuccessTS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix timestamp of the last successful report",
		}),
	}
	reg.MustRegister(
		c.articleViews, c.authorViews, c.errorDayRate, c.errorDayTotal,
		c.logEntries, c.duration, c.lastSuccessTS,
	)
	return c
}

// Registry returns a fresh registry populated from s.
func Registry(s Snapshot) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	c := newCollectors(reg)

	if s.Report != nil {
		for _, v := range s.Report.Articles {
			c.articleViews.WithLabelValues(v.Article.Slug, v.Article.Title).Set(float64(v.Views))
		}
		for _, v := range s.Report.Authors {
			c.authorViews.WithLabelValues(v.Author.Name).Set(float64(v.Views))
		}
		for _, d := range s.Report.ErrorDays {
			day := d.Day.Format(time.DateOnly)
			c.errorDayRate.WithLabelValues(day).Set(d.ErrorRate)
			c.errorDayTotal.WithLabelValues(day, "total").Set(float64(d.TotalRequests))
			c.errorDayTotal.WithLabelValues(day, "error").Set(float64(d.ErrorRequests))
		}
	}
	c.logEntries.Set(float64(s.LogEntries))
	c.duration.Set(s.Duration.Seconds())
	c.lastSuccessTS.Set(float64(s.Finished.Unix()))
	return reg
}

// WriteTextfile writes the snapshot to path atomically.
func WriteTextfile(path string, s Snapshot) error {
	if err := prometheus.WriteToTextfile(path, Registry(s)); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
