package domain

import "time"

// Announcement is one fetched news article: title, publish date, tag
// category and plain body text. Immutable once created by a source.
type Announcement struct {
	Title       string
	Category    string
	PublishedAt time.Time
	Body        string
	URL         string
}

// ShopTag is one entry of the goods-shop tag list API. Tag ids grow
// monotonically as products are registered.
type ShopTag struct {
	ID       int
	Code     string
	Name     string
	NameKana string
}

// NewsItem is one entry of the CD-shop news list API.
type NewsItem struct {
	Title     string
	Published time.Time
}
