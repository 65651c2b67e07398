package realtime

import (
	"fmt"
	"time"

	"OpimeNotify/internal/domain"
)

// OfficialNewsSource tracks the official-site news list. Publish dates
// carry day resolution only; an item is new when its date strictly
// exceeds the last-seen maximum.
type OfficialNewsSource struct{}

func (OfficialNewsSource) Name() string  { return "official_news" }
func (OfficialNewsSource) Table() string { return "official_curr_article_list" }
func (OfficialNewsSource) Rule() Rule    { return TimestampRule{} }

func (OfficialNewsSource) Headers() []string {
	return []string{"id", "title", "date"}
}

// FromAnnouncements converts a fresh news-list fetch. Only the title and
// publish date of the listing matter for novelty.
func (OfficialNewsSource) FromAnnouncements(list []domain.Announcement) []Item {
	var items []Item
	for _, a := range list {
		if a.Title == "" || a.PublishedAt.IsZero() {
			continue
		}
		items = append(items, Item{Title: a.Title, Date: a.PublishedAt})
	}
	return items
}

func (OfficialNewsSource) FromRows(rows []map[string]string) []Item {
	var items []Item
	for _, row := range rows {
		if row["title"] == "" || row["date"] == "" {
			continue
		}
		date, err := time.Parse(domain.DateFormat, row["date"])
		if err != nil {
			continue
		}
		items = append(items, Item{Title: row["title"], Date: date})
	}
	return items
}

func (OfficialNewsSource) ToRows(items []Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{"", it.Title, it.Date.Format(domain.DateFormat)})
	}
	return rows
}

func (OfficialNewsSource) Alerts(item Item, now time.Time) []domain.Reminder {
	body := fmt.Sprintf("NGT48オフィシャルサイトのニュースが更新されました。\n[%s]", item.Title)
	return []domain.Reminder{{
		Seq:         0,
		Title:       "【新着ニュース】",
		FireAt:      now.Format(domain.DateFormat),
		Description: body,
		URL:         "https://ngt48.jp/news",
		Status:      domain.StatusRealtime,
	}}
}
