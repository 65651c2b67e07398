package schedule

import (
	"strings"
	"testing"
	"time"

	"OpimeNotify/internal/domain"
)

func TestTheaterReminderOffsets(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.May, 19, 0, 0, 0, 0, time.UTC)
	ev := domain.ScheduleEvent{
		Kind:       domain.KindTheater,
		Title:      "TestShow【昼公演】",
		OccursAt:   time.Date(2024, time.June, 1, 13, 0, 0, 0, time.UTC),
		OfferStart: time.Date(2024, time.May, 20, 10, 0, 0, 0, time.UTC),
		OfferEnd:   time.Date(2024, time.May, 25, 23, 59, 0, 0, time.UTC),
		ResultAt:   time.Date(2024, time.May, 27, 18, 0, 0, 0, time.UTC),
	}

	reminders := Reminders(ev, now)
	if len(reminders) != 4 {
		t.Fatalf("expected 4 reminders, got %d", len(reminders))
	}

	want := map[int]string{
		0: "2024/06/01 11:00:00", // show - 2h
		1: "2024/05/20 09:30:00", // offer open - 30m
		2: "2024/05/25 20:59:00", // offer close - 3h
		3: "2024/05/27 15:00:00", // lottery result - 3h
	}
	for _, r := range reminders {
		if r.FireAt != want[r.Seq] {
			t.Fatalf("seq %d fires at %s, want %s", r.Seq, r.FireAt, want[r.Seq])
		}
		if r.Status != domain.StatusBefore {
			t.Fatalf("seq %d status %s", r.Seq, r.Status)
		}
	}
	if reminders[0].Title != "TestShow【昼公演】" {
		t.Fatalf("main reminder title: %s", reminders[0].Title)
	}
	if !strings.Contains(reminders[0].Description, "TestShow【昼公演】") {
		t.Fatalf("main reminder body misses title: %q", reminders[0].Description)
	}
}

func TestRemindersSkipPastFireTimes(t *testing.T) {
	t.Parallel()

	ev := domain.ScheduleEvent{
		Kind:     domain.KindTheater,
		Title:    "TestShow",
		OccursAt: time.Date(2024, time.June, 1, 13, 0, 0, 0, time.UTC),
	}

	// exactly at fire time is not "strictly in the future"
	now := time.Date(2024, time.June, 1, 11, 0, 0, 0, time.UTC)
	if got := Reminders(ev, now); len(got) != 0 {
		t.Fatalf("reminder emitted at its own fire time: %+v", got)
	}

	now = now.Add(-time.Second)
	if got := Reminders(ev, now); len(got) != 1 {
		t.Fatalf("expected 1 reminder just before fire time, got %d", len(got))
	}
}

func TestRemindersZonedClock(t *testing.T) {
	t.Parallel()

	jst := time.FixedZone("JST", 9*60*60)
	ev := domain.ScheduleEvent{
		Kind:     domain.KindTheater,
		Title:    "TestShow",
		OccursAt: time.Date(2024, time.June, 1, 13, 0, 0, 0, time.UTC),
	}

	// fire time 11:00 wall clock already passed, whatever zone now carries
	now := time.Date(2024, time.June, 1, 11, 30, 0, 0, jst)
	if got := Reminders(ev, now); len(got) != 0 {
		t.Fatalf("reminder emitted after its wall-clock fire time: %+v", got)
	}

	now = time.Date(2024, time.June, 1, 10, 30, 0, 0, jst)
	got := Reminders(ev, now)
	if len(got) != 1 || got[0].FireAt != "2024/06/01 11:00:00" {
		t.Fatalf("expected the 11:00 reminder before its fire time, got %+v", got)
	}
}

func TestRemindersWithoutDate(t *testing.T) {
	t.Parallel()

	ev := domain.ScheduleEvent{Kind: domain.KindTheater, Title: "undated"}
	if got := Reminders(ev, time.Now()); got != nil {
		t.Fatalf("undated event produced reminders: %+v", got)
	}
}

func TestTalkSaleReminders(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.May, 29, 0, 0, 0, 0, time.UTC)
	ev := domain.ScheduleEvent{
		Kind:         domain.KindTalkSale,
		Title:        "NGT48「タイトル未定」劇場盤オンラインおしゃべり会第4次~第5次受付のご案内",
		OccursAt:     time.Date(2024, time.May, 28, 0, 0, 0, 0, time.UTC),
		Round:        4,
		SaleStart:    time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
		SaleEnd:      time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC),
		ProductTitle: "NGT48「タイトル未定」劇場盤",
		Description:  "対象メンバー:X,Y",
	}

	reminders := Reminders(ev, now)
	if len(reminders) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(reminders))
	}
	if reminders[0].FireAt != "2024/06/01 10:00:00" {
		t.Fatalf("round-open fire: %s", reminders[0].FireAt)
	}
	if reminders[1].FireAt != "2024/06/03 09:00:00" {
		t.Fatalf("round-close fire: %s", reminders[1].FireAt)
	}
	if reminders[0].Title != "NGT48「タイトル未定」劇場盤 第4次受付開始" {
		t.Fatalf("round-open title: %s", reminders[0].Title)
	}
	if !strings.Contains(reminders[0].Description, "対象メンバー:X,Y") {
		t.Fatalf("round-open body misses members: %q", reminders[0].Description)
	}
}

func TestMonthlyPhotoReminder(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 4, 0, 0, 0, 0, time.UTC)
	ev := domain.ScheduleEvent{
		Kind:        domain.KindMonthlyPhoto,
		Title:       "2024年6月度個別生写真",
		OccursAt:    time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
		SalesOpenAt: time.Date(2024, time.June, 10, 10, 0, 0, 0, time.UTC),
		SourceURL:   "https://official-goods-store.jp/ngt48/news/1",
	}

	reminders := Reminders(ev, now)
	if len(reminders) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(reminders))
	}
	r := reminders[0]
	if r.FireAt != "2024/06/10 08:00:00" {
		t.Fatalf("unexpected fire time: %s", r.FireAt)
	}
	if r.Title != "2024年6月度個別生写真 予約販売開始" {
		t.Fatalf("unexpected title: %s", r.Title)
	}
	if r.URL != ev.SourceURL {
		t.Fatalf("unexpected url: %s", r.URL)
	}
}
