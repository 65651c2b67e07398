// Package official scrapes the official-site news pages.
package official

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"OpimeNotify/internal/domain"
	"OpimeNotify/internal/jptext"
	"OpimeNotify/internal/ports"
)

const defaultNewsURL = "https://ngt48.jp/news"

// Session fetches and extracts news-list and article pages.
type Session struct {
	newsURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ ports.AnnouncementSource = (*Session)(nil)

// NewSession wires an HTTP client; newsURL defaults to the official site.
func NewSession(newsURL string, client *http.Client, logger *slog.Logger) *Session {
	if newsURL == "" {
		newsURL = defaultNewsURL
	}
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Session{newsURL: newsURL, client: client, logger: logger}
}

// ListAnnouncements walks one news-list page of a category and returns
// the listed articles with title, publish date and detail URL.
func (s *Session) ListAnnouncements(ctx context.Context, page, category int) ([]domain.Announcement, error) {
	pageURL := fmt.Sprintf("%s/articles/%d/0/%d", s.newsURL, page, category)
	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("news list page %d: %w", page, err)
	}

	body := doc.Find("div.news-block-inner")
	detailExpr := regexp.MustCompile(regexp.QuoteMeta(s.newsURL) + "/detail/")

	var announcements []domain.Announcement
	body.Find("a").Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok || !detailExpr.MatchString(href) {
			return
		}
		a := domain.Announcement{URL: href}
		if titleEl := link.Find("div.title"); titleEl.Length() > 0 {
			_, a.Title = splitTagAndTitle(titleEl)
		} else {
			a.Title = strings.TrimSpace(link.Text())
		}
		if published, ok := jptext.Extract(jptext.DottedDate, link.Find("div.date").Text()); ok {
			a.PublishedAt = published
		}
		announcements = append(announcements, a)
	})

	s.debug("news list extracted", "page", page, "category", category, "count", len(announcements))
	return announcements, nil
}

// FetchAnnouncement loads one article page: tag category, title, publish
// date and plain body text.
func (s *Session) FetchAnnouncement(ctx context.Context, url string) (domain.Announcement, error) {
	doc, err := s.fetchDocument(ctx, url)
	if err != nil {
		return domain.Announcement{}, fmt.Errorf("article %s: %w", url, err)
	}

	body := doc.Find("div.news-block-inner")
	titleEl := body.Find("div.title").First()
	if titleEl.Length() == 0 {
		return domain.Announcement{}, fmt.Errorf("article %s: no title element", url)
	}
	tagname, title := splitTagAndTitle(titleEl)

	a := domain.Announcement{
		Title:    title,
		Category: tagname,
		Body:     strings.TrimSpace(body.Find("div.content").Text()),
		URL:      url,
	}
	if published, ok := jptext.Extract(jptext.DottedDate, body.Find("div.date").Text()); ok {
		a.PublishedAt = published
	}
	return a, nil
}

func (s *Session) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "OpimeNotify/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news site returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// splitTagAndTitle separates the category tag span from the title text.
func splitTagAndTitle(titleEl *goquery.Selection) (tagname, title string) {
	tagname = strings.TrimSpace(titleEl.Find("span").First().Text())
	title = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(titleEl.Text()), tagname))
	return tagname, title
}

func (s *Session) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
