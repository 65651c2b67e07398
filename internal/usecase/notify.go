package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"OpimeNotify/internal/domain"
	"OpimeNotify/internal/ports"
	"OpimeNotify/internal/reminder"
)

// NotifyDeps wires the driven adapters into the delivery workflow.
type NotifyDeps struct {
	Store       ports.RowStore
	Broadcaster ports.Broadcaster
	Logger      *slog.Logger
}

// Notify delivers every due reminder and folds the delivery results back
// into the reminder table.
type Notify struct {
	store       ports.RowStore
	broadcaster ports.Broadcaster
	logger      *slog.Logger
}

// NewNotify constructs the delivery workflow.
func NewNotify(deps NotifyDeps) *Notify {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Notify{store: deps.Store, broadcaster: deps.Broadcaster, logger: logger}
}

// Run performs one delivery pass for the given wall-clock time.
func (n *Notify) Run(ctx context.Context, now time.Time) error {
	if err := n.store.EnsureTable(ctx, reminder.Table, reminder.Columns); err != nil {
		return fmt.Errorf("ensure reminder table: %w", err)
	}
	rows, err := n.store.ReadAll(ctx, reminder.Table)
	if err != nil {
		return fmt.Errorf("read reminder table: %w", err)
	}
	all := reminder.FromRows(rows)

	due := reminder.Due(all, now)
	if len(due) == 0 {
		n.logger.Info("no due reminders")
		return nil
	}

	results := make([]domain.Reminder, 0, len(due))
	for _, r := range due {
		msg := domain.Message{Title: r.Title, Body: r.Description, URL: r.URL}
		if err := n.broadcaster.Broadcast(ctx, msg); err != nil {
			n.logger.Error("broadcast failed", "title", r.Title, "error", err)
			r.Status = err.Error()
		} else {
			n.logger.Info("broadcast delivered", "title", r.Title)
			r.Status = domain.StatusSuccess
		}
		results = append(results, r)
	}

	merged := reminder.Normalize(reminder.MergeResults(all, results))
	return writeReminders(ctx, n.store, merged)
}
