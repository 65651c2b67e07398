package schedule

import (
	"testing"
	"time"

	"OpimeNotify/internal/domain"
)

func photoAnnouncement() domain.Announcement {
	return domain.Announcement{
		Title:       "2024年6月度個別生写真予約販売のご案内",
		PublishedAt: time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
		URL:         "https://official-goods-store.jp/ngt48/news/1",
		Body: `いつもご利用ありがとうございます。

6月10日(月)10:00より、下記商品の販売を開始いたします。

・2024年6月度個別生写真5枚セット`,
	}
}

func TestIsMonthlyPhotoTitle(t *testing.T) {
	t.Parallel()

	if !IsMonthlyPhotoTitle("2024年6月度個別生写真予約販売のご案内") {
		t.Fatalf("photo title not recognized")
	}
	if IsMonthlyPhotoTitle("生誕祭グッズ販売のご案内") {
		t.Fatalf("unrelated title recognized")
	}
}

func TestParseMonthlyPhoto(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 4, 0, 0, 0, 0, time.UTC)
	events := ParseMonthlyPhoto(photoAnnouncement(), now)

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Title != "2024年6月度個別生写真" {
		t.Fatalf("title not truncated at reservation marker: %s", ev.Title)
	}
	want := time.Date(2024, time.June, 10, 10, 0, 0, 0, time.UTC)
	if !ev.SalesOpenAt.Equal(want) {
		t.Fatalf("unexpected sale open: %v", ev.SalesOpenAt)
	}
	if ev.SourceURL != "https://official-goods-store.jp/ngt48/news/1" {
		t.Fatalf("unexpected source url: %s", ev.SourceURL)
	}
}

func TestParseMonthlyPhotoWithoutSaleDate(t *testing.T) {
	t.Parallel()

	a := photoAnnouncement()
	a.Body = "販売開始日時は追ってご案内いたします。"
	if events := ParseMonthlyPhoto(a, time.Now()); len(events) != 0 {
		t.Fatalf("announcement without sale-open sentence produced %d events", len(events))
	}
}
