package official

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newsServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/news/articles/", func(w http.ResponseWriter, r *http.Request) {
		page := `
		<div class="news-block-inner">
		  <a href="` + server.URL + `/news/detail/1">
		    <div class="date">2024.06.01</div>
		    <div class="title"><span>劇場公演</span>公演スケジュールのご案内</div>
		  </a>
		  <a href="` + server.URL + `/other/link">skip me</a>
		  <a href="` + server.URL + `/news/detail/2">
		    <div class="date">2024.05.30</div>
		    <div class="title">タグなしのお知らせ</div>
		  </a>
		</div>`
		_, _ = w.Write([]byte(page))
	})
	mux.HandleFunc("/news/detail/1", func(w http.ResponseWriter, r *http.Request) {
		page := `
		<div class="news-block-inner">
		  <div class="title"><span>劇場公演</span>公演スケジュールのご案内</div>
		  <div class="date">2024.06.01 NEWS</div>
		  <div class="content">
		    本文1行目
		    本文2行目
		  </div>
		</div>`
		_, _ = w.Write([]byte(page))
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestListAnnouncements(t *testing.T) {
	t.Parallel()

	server := newsServer(t)
	s := NewSession(server.URL+"/news", server.Client(), nil)

	list, err := s.ListAnnouncements(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("ListAnnouncements: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 announcements, got %d", len(list))
	}

	first := list[0]
	if first.Title != "公演スケジュールのご案内" {
		t.Fatalf("unexpected title: %q", first.Title)
	}
	want := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(want) {
		t.Fatalf("unexpected publish date: %v", first.PublishedAt)
	}
	if !strings.HasSuffix(first.URL, "/news/detail/1") {
		t.Fatalf("unexpected url: %s", first.URL)
	}

	if list[1].Title != "タグなしのお知らせ" {
		t.Fatalf("untagged title: %q", list[1].Title)
	}
}

func TestFetchAnnouncement(t *testing.T) {
	t.Parallel()

	server := newsServer(t)
	s := NewSession(server.URL+"/news", server.Client(), nil)

	a, err := s.FetchAnnouncement(context.Background(), server.URL+"/news/detail/1")
	if err != nil {
		t.Fatalf("FetchAnnouncement: %v", err)
	}
	if a.Category != "劇場公演" {
		t.Fatalf("unexpected category: %q", a.Category)
	}
	if a.Title != "公演スケジュールのご案内" {
		t.Fatalf("unexpected title: %q", a.Title)
	}
	if a.PublishedAt.IsZero() {
		t.Fatalf("publish date not parsed")
	}
	if !strings.Contains(a.Body, "本文1行目") {
		t.Fatalf("body not extracted: %q", a.Body)
	}
}

func TestFetchAnnouncementErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	s := NewSession(server.URL+"/news", server.Client(), nil)
	if _, err := s.FetchAnnouncement(context.Background(), server.URL+"/news/detail/9"); err == nil {
		t.Fatalf("expected error for 404 page")
	}
}
