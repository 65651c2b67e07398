// Package usecase orchestrates the three workflows: schedule fetching,
// due-reminder delivery and realtime novelty alerts.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"OpimeNotify/internal/domain"
	"OpimeNotify/internal/ports"
	"OpimeNotify/internal/reminder"
	"OpimeNotify/internal/schedule"
)

// FetchScheduleDeps wires the driven adapters into the fetch workflow.
type FetchScheduleDeps struct {
	Source   ports.AnnouncementSource
	Store    ports.RowStore
	Keywords []string
	Logger   *slog.Logger
}

// FetchSchedule scans the announcement list, expands recognized
// announcements into reminders and merges them into the reminder table.
type FetchSchedule struct {
	source   ports.AnnouncementSource
	store    ports.RowStore
	keywords []string
	logger   *slog.Logger
}

// NewFetchSchedule constructs the fetch workflow.
func NewFetchSchedule(deps FetchScheduleDeps) *FetchSchedule {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchSchedule{
		source:   deps.Source,
		store:    deps.Store,
		keywords: deps.Keywords,
		logger:   logger,
	}
}

// theater announcements live in their own listing category
const theaterCategory = 1

// Run performs one fetch pass for the given wall-clock time.
func (f *FetchSchedule) Run(ctx context.Context, now time.Time) error {
	events, err := f.collectEvents(ctx, now)
	if err != nil {
		return err
	}

	var fresh []domain.Reminder
	for _, ev := range events {
		fresh = append(fresh, schedule.Reminders(ev, now)...)
	}
	f.logger.Info("expanded announcements", "events", len(events), "reminders", len(fresh))

	if err := f.store.EnsureTable(ctx, reminder.Table, reminder.Columns); err != nil {
		return fmt.Errorf("ensure reminder table: %w", err)
	}
	rows, err := f.store.ReadAll(ctx, reminder.Table)
	if err != nil {
		return fmt.Errorf("read reminder table: %w", err)
	}
	existing := reminder.FromRows(rows)

	merged := reminder.Normalize(append(existing, fresh...))
	if len(merged) == len(existing) && len(fresh) == 0 {
		return nil
	}
	return writeReminders(ctx, f.store, merged)
}

// collectEvents walks the theater listing and the general listing, pulls
// the full article for every recognized title and parses it.
func (f *FetchSchedule) collectEvents(ctx context.Context, now time.Time) ([]domain.ScheduleEvent, error) {
	var events []domain.ScheduleEvent

	theater, err := f.source.ListAnnouncements(ctx, 1, theaterCategory)
	if err != nil {
		return nil, fmt.Errorf("list theater announcements: %w", err)
	}
	for _, a := range theater {
		if !schedule.IsTheaterScheduleTitle(a.Title) {
			continue
		}
		full, err := f.source.FetchAnnouncement(ctx, a.URL)
		if err != nil {
			f.logger.Warn("skip unreadable announcement", "url", a.URL, "error", err)
			continue
		}
		parsed := schedule.ParseTheater(full, now)
		events = append(events, schedule.FilterTheater(parsed, f.keywords, now)...)
	}

	general, err := f.source.ListAnnouncements(ctx, 1, 0)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	for _, a := range general {
		switch {
		case schedule.IsTalkSaleTitle(a.Title):
			full, err := f.source.FetchAnnouncement(ctx, a.URL)
			if err != nil {
				f.logger.Warn("skip unreadable announcement", "url", a.URL, "error", err)
				continue
			}
			parsed := schedule.ParseTalkSale(full, now)
			events = append(events, schedule.FilterTalkSale(parsed, now)...)
		case schedule.IsMonthlyPhotoTitle(a.Title):
			full, err := f.source.FetchAnnouncement(ctx, a.URL)
			if err != nil {
				f.logger.Warn("skip unreadable announcement", "url", a.URL, "error", err)
				continue
			}
			events = append(events, schedule.ParseMonthlyPhoto(full, now)...)
		}
	}

	return events, nil
}

// writeReminders replaces the reminder table with the normalized set.
func writeReminders(ctx context.Context, store ports.RowStore, list []domain.Reminder) error {
	header, err := store.Headers(ctx, reminder.Table)
	if err != nil {
		return fmt.Errorf("read reminder header: %w", err)
	}
	if len(header) == 0 {
		header = reminder.Columns
	}

	rows := make([][]string, 0, len(list))
	for _, r := range list {
		rows = append(rows, reminder.ToRow(r, header))
	}

	if err := store.Clear(ctx, reminder.Table); err != nil {
		return fmt.Errorf("clear reminder table: %w", err)
	}
	if err := store.WriteRows(ctx, reminder.Table, rows); err != nil {
		return fmt.Errorf("write reminder table: %w", err)
	}
	return nil
}
