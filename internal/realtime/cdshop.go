package realtime

import (
	"fmt"
	"time"

	"OpimeNotify/internal/domain"
)

// CDShopNewsSource tracks the CD-shop news list. The shop sometimes
// publishes several articles with the same day-resolution timestamp, so
// novelty at a tied timestamp falls back to the title hash.
type CDShopNewsSource struct{}

func (CDShopNewsSource) Name() string  { return "cdshop_news" }
func (CDShopNewsSource) Table() string { return "cdshop_curr_article_list" }
func (CDShopNewsSource) Rule() Rule    { return TiedHashRule{} }

func (CDShopNewsSource) Headers() []string {
	return []string{"id", "title", "date"}
}

// FromNews converts a fresh news-list fetch.
func (CDShopNewsSource) FromNews(news []domain.NewsItem) []Item {
	var items []Item
	for _, n := range news {
		if n.Title == "" || n.Published.IsZero() {
			continue
		}
		items = append(items, Item{Title: n.Title, Date: n.Published})
	}
	return items
}

func (CDShopNewsSource) FromRows(rows []map[string]string) []Item {
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

func (CDShopNewsSource) ToRows(items []Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{"", it.Title, it.Date.Format(domain.DateFormat)})
	}
	return rows
}

func (CDShopNewsSource) Alerts(item Item, now time.Time) []domain.Reminder {
	body := fmt.Sprintf("NGT48オフィシャルCDショップの新着記事が更新されました。\n[%s]", item.Title)
	return []domain.Reminder{{
		Seq:         0,
		Title:       "【新着CDショップ情報】",
		FireAt:      now.Format(domain.DateFormat),
		Description: body,
		URL:         "https://ngt48cd.shop/news/list",
		Status:      domain.StatusRealtime,
	}}
}
