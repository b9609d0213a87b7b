package core

import (
	"strings"
	"time"

	"github.com/huangsam/newslog/internal/contract"
	"github.com/huangsam/newslog/schema"
)

// runTracker records a report run in the history store, if one is configured.
// Tracking failures are logged and never fail the run.
type runTracker struct {
	store contract.HistoryStore
	runID int64
}

// newRunTracker begins a run in store. A nil store yields a no-op tracker.
func newRunTracker(store contract.HistoryStore, cfg *contract.Config, start time.Time) *runTracker {
	t := &runTracker{store: store}
	if store == nil {
		return t
	}
	sections := make([]string, len(cfg.Sections))
	for i, s := range cfg.Sections {
		sections[i] = string(s)
	}
	configParams := map[string]any{
		"sections":        strings.Join(sections, ","),
		"limit":           cfg.ResultLimit,
		"error_threshold": cfg.ErrorThreshold,
		"error_statuses":  strings.Join(cfg.ErrorStatuses, ","),
		"timezone":        cfg.Location.String(),
		"path_prefix":     cfg.PathPrefix,
		"source_backend":  string(cfg.SourceBackend),
		"workers":         cfg.Workers,
	}
	runID, err := store.BeginRun(start, configParams)
	if err != nil {
		contract.LogWarn("Report tracking initialization failed", err)
		return t
	}
	t.runID = runID
	return t
}

// finish stores the report rows, if any, and closes the run.
func (t *runTracker) finish(report *schema.Report, totalLogEntries int) {
	if t.store == nil || t.runID <= 0 {
		return
	}
	if report != nil {
		if err := t.store.RecordReport(t.runID, report); err != nil {
			contract.LogWarn("Failed to record report rows", err)
		}
	}
	if err := t.store.EndRun(t.runID, time.Now(), totalLogEntries); err != nil {
		contract.LogWarn("Failed to finalize report tracking", err)
	}
}
