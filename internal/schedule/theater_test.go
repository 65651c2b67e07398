package schedule

import (
	"testing"
	"time"

	"OpimeNotify/internal/domain"
)

const theaterBody = `いつもNGT48を応援いただきありがとうございます。

申込期間:2024年5月20日(月)10:00~5月25日(土)23:59まで
当落発表:5月27日(月)18:00まで

●6月1日(土)

昼公演 開演13:00
演目:TestShow
出演メンバー:A,B

夜公演 開演18:00
演目:NightShow
出演メンバー:C,D

●6月2日(日)
休館日

【チケット申込について】
こちらは対象外のテキストです。
演目:ダミー公演
昼公演 開演12:00`

func theaterAnnouncement() domain.Announcement {
	return domain.Announcement{
		Title:       "2024年6月1日(土)~6月2日(日)NGT48劇場公演スケジュールのご案内",
		Category:    "劇場公演",
		PublishedAt: time.Date(2024, time.May, 18, 0, 0, 0, 0, time.UTC),
		Body:        theaterBody,
	}
}

func TestIsTheaterScheduleTitle(t *testing.T) {
	t.Parallel()

	if !IsTheaterScheduleTitle("2024年6月1日(土)~6月2日(日)NGT48劇場公演スケジュールのご案内") {
		t.Fatalf("period-schedule title not recognized")
	}
	if IsTheaterScheduleTitle("特別公演開催のお知らせ") {
		t.Fatalf("special announcement recognized as schedule")
	}
}

func TestParseTheater(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.May, 19, 0, 0, 0, 0, time.UTC)
	events := ParseTheater(theaterAnnouncement(), now)

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(events), events)
	}

	day := events[0]
	if day.Title != "TestShow【昼公演】" {
		t.Fatalf("unexpected title: %s", day.Title)
	}
	wantStart := time.Date(2024, time.June, 1, 13, 0, 0, 0, time.UTC)
	if !day.OccursAt.Equal(wantStart) {
		t.Fatalf("unexpected start: %v", day.OccursAt)
	}
	if day.Description != "出演メンバー:A,B" {
		t.Fatalf("unexpected description: %q", day.Description)
	}

	night := events[1]
	if night.Title != "NightShow【夜公演】" {
		t.Fatalf("unexpected title: %s", night.Title)
	}
	if night.OccursAt.Hour() != 18 {
		t.Fatalf("unexpected night start: %v", night.OccursAt)
	}

	wantOfferStart := time.Date(2024, time.May, 20, 10, 0, 0, 0, time.UTC)
	wantOfferEnd := time.Date(2024, time.May, 25, 23, 59, 0, 0, time.UTC)
	wantResult := time.Date(2024, time.May, 27, 18, 0, 0, 0, time.UTC)
	for _, ev := range events {
		if !ev.OfferStart.Equal(wantOfferStart) {
			t.Fatalf("offer start: got %v", ev.OfferStart)
		}
		if !ev.OfferEnd.Equal(wantOfferEnd) {
			t.Fatalf("offer end: got %v", ev.OfferEnd)
		}
		if !ev.ResultAt.Equal(wantResult) {
			t.Fatalf("result date: got %v", ev.ResultAt)
		}
	}
}

func TestParseTheaterIgnoresOtherCategories(t *testing.T) {
	t.Parallel()

	a := theaterAnnouncement()
	a.Title = "NGT48 特別公演のご案内"
	if events := ParseTheater(a, time.Now()); len(events) != 0 {
		t.Fatalf("non-schedule announcement produced %d events", len(events))
	}
}

func TestParseTheaterDropsIncompleteSections(t *testing.T) {
	t.Parallel()

	a := theaterAnnouncement()
	// date-only block plus a section without an explicit showtime
	a.Body = "●6月1日(土)\n\n演目:TimelessShow\n出演メンバー:A"
	if events := ParseTheater(a, time.Now()); len(events) != 0 {
		t.Fatalf("section without showtime produced %d events", len(events))
	}

	a.Body = "●6月1日(土)\n\n昼公演 開演13:00\n出演メンバー:A"
	if events := ParseTheater(a, time.Now()); len(events) != 0 {
		t.Fatalf("titleless section produced %d events", len(events))
	}
}

func TestFilterTheater(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.May, 19, 0, 0, 0, 0, time.UTC)
	events := ParseTheater(theaterAnnouncement(), now)

	kept := FilterTheater(events, []string{"A,B"}, time.Time{})
	if len(kept) != 1 || kept[0].Title != "TestShow【昼公演】" {
		t.Fatalf("keyword filter kept %+v", kept)
	}

	late := time.Date(2024, time.June, 1, 15, 0, 0, 0, time.UTC)
	kept = FilterTheater(events, nil, late)
	if len(kept) != 1 || kept[0].Title != "NightShow【夜公演】" {
		t.Fatalf("start filter kept %+v", kept)
	}
}
