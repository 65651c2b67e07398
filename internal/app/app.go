package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"OpimeNotify/internal/config"
	"OpimeNotify/internal/domain"
	"OpimeNotify/internal/infrastructure/line"
	"OpimeNotify/internal/infrastructure/official"
	"OpimeNotify/internal/infrastructure/sheets"
	"OpimeNotify/internal/infrastructure/shopapi"
	"OpimeNotify/internal/infrastructure/sqlitestore"
	"OpimeNotify/internal/logging"
	"OpimeNotify/internal/ports"
	"OpimeNotify/internal/realtime"
	"OpimeNotify/internal/usecase"
)

// Commands accepted by Run.
const (
	CommandFetch    = "fetch"
	CommandNotify   = "notify"
	CommandRealtime = "realtime"
)

// Application wires config to the three workflows.
type Application struct {
	cfg      config.Config
	fetch    *usecase.FetchSchedule
	notify   *usecase.Notify
	realtime *usecase.Realtime
	closer   func() error
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.LogLevel)
	}

	store, closer, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	session := official.NewSession(cfg.Sources.OfficialURL, nil, baseLogger.With("component", "official"))
	shop := shopapi.NewClient(cfg.Sources.GoodsURL, cfg.Sources.CDShopURL, nil)
	notifier := line.NewNotifier(cfg.LINE.Endpoint, cfg.LINE.AccessToken, nil)

	fetch := usecase.NewFetchSchedule(usecase.FetchScheduleDeps{
		Source:   session,
		Store:    store,
		Keywords: cfg.Notify.Keywords,
		Logger:   baseLogger.With("component", "fetch"),
	})
	notify := usecase.NewNotify(usecase.NotifyDeps{
		Store:       store,
		Broadcaster: notifier,
		Logger:      baseLogger.With("component", "notify"),
	})
	rt := usecase.NewRealtime(usecase.RealtimeDeps{
		Sources:     trackedSources(session, shop),
		Store:       store,
		Broadcaster: notifier,
		Logger:      baseLogger.With("component", "realtime"),
	})

	return &Application{cfg: cfg, fetch: fetch, notify: notify, realtime: rt, closer: closer}, nil
}

// Run executes one command for the current time. The configured zone
// resolves the local reading, then the zone is dropped: every timestamp
// the workflows compare or persist is a zone-less wall-clock value.
func (a *Application) Run(ctx context.Context, command string) error {
	now := domain.WallClock(time.Now().In(a.cfg.Location()))
	switch command {
	case CommandFetch:
		return a.fetch.Run(ctx, now)
	case CommandNotify:
		return a.notify.Run(ctx, now)
	case CommandRealtime:
		return a.realtime.Run(ctx, now)
	}
	return fmt.Errorf("unknown command %q", command)
}

// Close releases store resources.
func (a *Application) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}

func newStore(ctx context.Context, cfg config.Config) (ports.RowStore, func() error, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		store, err := sqlitestore.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.BackendSheets:
		store, err := sheets.New(ctx, cfg.Store.GoogleKeyFile, cfg.Store.SpreadsheetID)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func trackedSources(session *official.Session, shop *shopapi.Client) []usecase.TrackedSource {
	tags := realtime.ShopTagSource{}
	cdshop := realtime.CDShopNewsSource{}
	news := realtime.OfficialNewsSource{}

	return []usecase.TrackedSource{
		{
			Source: news,
			Fetch: func(ctx context.Context, _ time.Time) ([]realtime.Item, error) {
				list, err := session.ListAnnouncements(ctx, 1, 0)
				if err != nil {
					return nil, err
				}
				return news.FromAnnouncements(list), nil
			},
		},
		{
			Source: tags,
			Fetch: func(ctx context.Context, now time.Time) ([]realtime.Item, error) {
				list, err := shop.FetchTagList(ctx)
				if err != nil {
					return nil, err
				}
				return tags.FromTags(list, now), nil
			},
		},
		{
			Source: cdshop,
			Fetch: func(ctx context.Context, _ time.Time) ([]realtime.Item, error) {
				list, err := shop.FetchCDShopNews(ctx)
				if err != nil {
					return nil, err
				}
				return cdshop.FromNews(list), nil
			},
		},
	}
}
