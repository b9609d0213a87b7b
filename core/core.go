// Package core has core logic for building, tracking and printing reports.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/newslog/core/agg"
	"github.com/huangsam/newslog/core/algo"
	"github.com/huangsam/newslog/internal/contract"
	"github.com/huangsam/newslog/internal/metrics"
	"github.com/huangsam/newslog/internal/outwriter"
	"github.com/huangsam/newslog/schema"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ExecutorFunc defines the function signature for executing report commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteReport builds the report for the configured sections and writes it
// using the configured output format. It serves as the entry point for the
// 'report', 'articles', 'authors' and 'errors' commands.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	out, err := runReport(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	if cfg.Output == schema.TextOut {
		outwriter.LogReportHeader(cfg)
	}
	if err := outwriter.WriteReport(out.report, cfg); err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		snapshot := metrics.Snapshot{
			Report:     out.report,
			LogEntries: out.logEntries,
			Duration:   out.duration,
			Finished:   time.Now(),
		}
		if err := metrics.WriteTextfile(cfg.MetricsFile, snapshot); err != nil {
			contract.LogWarn("Failed to write metrics file", err)
		}
	}
	return nil
}

// RunReport builds the report from the configured record source and tracks
// the run in the history store, without printing anything.
func RunReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.Report, error) {
	out, err := runReport(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	return out.report, nil
}

// runOutcome is a built report plus what the run observed.
type runOutcome struct {
	report     *schema.Report
	logEntries int
	duration   time.Duration
}

func runReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (runOutcome, error) {
	start := time.Now()
	src := mgr.GetSourceStore()
	if src == nil {
		return runOutcome{}, fmt.Errorf("%w: no source store configured", contract.ErrSourceUnavailable)
	}

	tracker := newRunTracker(mgr.GetHistoryStore(), cfg, start)

	records, err := FetchRecords(ctx, cfg, src)
	if err != nil {
		tracker.finish(nil, 0)
		return runOutcome{}, err
	}
	report := AssembleReport(cfg, records)
	tracker.finish(report, len(records.LogEntries))

	duration := time.Since(start)
	contract.LogDebug("Report built",
		zap.Duration("duration", duration),
		zap.Int("log_entries", len(records.LogEntries)),
		zap.Int("articles", len(records.Articles)),
		zap.Int("authors", len(records.Authors)),
		zap.Int("workers", cfg.Workers),
	)
	return runOutcome{report: report, logEntries: len(records.LogEntries), duration: duration}, nil
}

// BuildReport fetches the collections the configured sections need and
// computes the report from them. The core never opens or closes src.
func BuildReport(ctx context.Context, cfg *contract.Config, src contract.RecordSource) (*schema.Report, error) {
	records, err := FetchRecords(ctx, cfg, src)
	if err != nil {
		return nil, err
	}
	return AssembleReport(cfg, records), nil
}

// FetchRecords reads every collection needed by the configured sections in
// full. The reads run concurrently and the first failure cancels the rest.
// Any failure is wrapped with contract.ErrSourceUnavailable.
func FetchRecords(ctx context.Context, cfg *contract.Config, src contract.RecordSource) (*schema.Records, error) {
	needArticles := cfg.Wants(schema.ArticlesSection) || cfg.Wants(schema.AuthorsSection)
	needAuthors := cfg.Wants(schema.AuthorsSection)

	records := &schema.Records{}
	g, gctx := errgroup.WithContext(ctx)
	if needArticles {
		g.Go(func() error {
			articles, err := src.FetchArticles(gctx)
			if err != nil {
				return fmt.Errorf("%w: fetching articles: %w", contract.ErrSourceUnavailable, err)
			}
			records.Articles = articles
			return nil
		})
	}
	if needAuthors {
		g.Go(func() error {
			authors, err := src.FetchAuthors(gctx)
			if err != nil {
				return fmt.Errorf("%w: fetching authors: %w", contract.ErrSourceUnavailable, err)
			}
			records.Authors = authors
			return nil
		})
	}
	g.Go(func() error {
		entries, err := src.FetchLogEntries(gctx)
		if err != nil {
			return fmt.Errorf("%w: fetching log entries: %w", contract.ErrSourceUnavailable, err)
		}
		records.LogEntries = entries
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// AssembleReport computes the configured sections from records.
// Sections that are not configured are left empty.
func AssembleReport(cfg *contract.Config, records *schema.Records) *schema.Report {
	report := &schema.Report{
		Articles:  []schema.ArticleViewCount{},
		Authors:   []schema.AuthorViewCount{},
		ErrorDays: []schema.DailyErrorStat{},
	}

	if cfg.Wants(schema.ArticlesSection) || cfg.Wants(schema.AuthorsSection) {
		resolver := agg.NewResolver(records.Articles, cfg.PathPrefix)
		views := agg.CountArticleViewsParallel(records.LogEntries, resolver, cfg.Workers)
		if cfg.Wants(schema.ArticlesSection) {
			report.Articles = algo.RankArticles(views, cfg.ResultLimit)
		}
		if cfg.Wants(schema.AuthorsSection) {
			report.Authors = algo.RankAuthors(agg.CountAuthorViews(views, records.Authors))
		}
	}

	if cfg.Wants(schema.ErrorDaysSection) {
		classifier := agg.NewStatusClassifier(cfg.ErrorStatuses)
		stats := agg.DailyErrorStats(records.LogEntries, classifier, cfg.Location)
		report.ErrorDays = algo.FilterErrorDays(stats, cfg.ErrorThreshold)
	}
	return report
}
