package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"OpimeNotify/internal/domain"
	"OpimeNotify/internal/ports"
	"OpimeNotify/internal/realtime"
)

// TrackedSource pairs a snapshot source with the fetch pulling its fresh
// item list. Fetch receives the run clock so sources that stamp items
// with the fetch time share it.
type TrackedSource struct {
	Source realtime.Source
	Fetch  func(ctx context.Context, now time.Time) ([]realtime.Item, error)
}

// RealtimeDeps wires the driven adapters into the novelty workflow.
type RealtimeDeps struct {
	Sources     []TrackedSource
	Store       ports.RowStore
	Broadcaster ports.Broadcaster
	Logger      *slog.Logger
}

// Realtime compares each tracked source against its persisted snapshot,
// alerts on new items and rolls the snapshot forward.
type Realtime struct {
	sources     []TrackedSource
	store       ports.RowStore
	broadcaster ports.Broadcaster
	logger      *slog.Logger
}

// NewRealtime constructs the novelty workflow.
func NewRealtime(deps RealtimeDeps) *Realtime {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Realtime{
		sources:     deps.Sources,
		store:       deps.Store,
		broadcaster: deps.Broadcaster,
		logger:      logger,
	}
}

// Run performs one novelty pass over every tracked source. A failing
// source does not block the others; the first error is reported after
// all sources ran.
func (r *Realtime) Run(ctx context.Context, now time.Time) error {
	var firstErr error
	for _, tracked := range r.sources {
		if err := r.runSource(ctx, tracked, now); err != nil {
			r.logger.Error("source pass failed", "source", tracked.Source.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (r *Realtime) runSource(ctx context.Context, tracked TrackedSource, now time.Time) error {
	src := tracked.Source

	if err := r.store.EnsureTable(ctx, src.Table(), src.Headers()); err != nil {
		return fmt.Errorf("ensure %s: %w", src.Table(), err)
	}
	rows, err := r.store.ReadAll(ctx, src.Table())
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	snapshot := src.FromRows(rows)

	fresh, err := tracked.Fetch(ctx, now)
	if err != nil {
		return fmt.Errorf("fetch fresh list: %w", err)
	}

	rule := src.Rule()
	newItems := rule.DetectNew(snapshot, fresh)
	r.logger.Info("compared against snapshot",
		"source", src.Name(), "snapshot", len(snapshot), "fresh", len(fresh), "new", len(newItems))

	for _, item := range newItems {
		for _, alert := range src.Alerts(item, now) {
			msg := domain.Message{Title: alert.Title, Body: alert.Description, URL: alert.URL}
			if err := r.broadcaster.Broadcast(ctx, msg); err != nil {
				// snapshot stays untouched so the next run re-alerts
				return fmt.Errorf("broadcast alert: %w", err)
			}
		}
	}

	cohortInput := append(newItems, snapshot...)
	if len(cohortInput) == 0 {
		// quiet first run of a sequence-ruled source still seeds the snapshot
		cohortInput = fresh
	}
	retained := rule.RetainedCohort(cohortInput)
	if err := r.store.Clear(ctx, src.Table()); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	if err := r.store.WriteRows(ctx, src.Table(), src.ToRows(retained)); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
