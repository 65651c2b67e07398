package ports

import (
	"context"

	"OpimeNotify/internal/domain"
)

// AnnouncementSource pulls news articles from the official site.
type AnnouncementSource interface {
	// ListAnnouncements returns the announcements of one news-list page
	// for a category (0 = all, 1 = theater), body not yet fetched.
	ListAnnouncements(ctx context.Context, page, category int) ([]domain.Announcement, error)
	// FetchAnnouncement loads the full article behind a listing entry.
	FetchAnnouncement(ctx context.Context, url string) (domain.Announcement, error)
}

// ShopAPI exposes the goods-shop and CD-shop JSON endpoints.
type ShopAPI interface {
	FetchTagList(ctx context.Context) ([]domain.ShopTag, error)
	FetchCDShopNews(ctx context.Context) ([]domain.NewsItem, error)
}

// RowStore is the tabular persistence collaborator: named tables of
// string rows with a stable column order, row 1 holding the headers.
type RowStore interface {
	// EnsureTable creates the table with the given columns when missing.
	EnsureTable(ctx context.Context, table string, headers []string) error
	Headers(ctx context.Context, table string) ([]string, error)
	ReadAll(ctx context.Context, table string) ([]map[string]string, error)
	// WriteRows replaces the data rows (row 2 onwards) of a table. Cells
	// may hold formulas such as a row-generated id.
	WriteRows(ctx context.Context, table string, rows [][]string) error
	Clear(ctx context.Context, table string) error
}

// Broadcaster delivers one message to every subscriber.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg domain.Message) error
}
