// Package shopapi talks to the goods-shop and CD-shop JSON endpoints.
package shopapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"OpimeNotify/internal/domain"
	"OpimeNotify/internal/ports"
)

const (
	defaultGoodsURL  = "https://official-goods-store.jp/ngt48/"
	defaultCDShopURL = "https://ngt48cd.shop/"
)

// Client is a reusable HTTP client for both shop APIs.
type Client struct {
	goodsURL  string
	cdShopURL string
	client    *http.Client
}

var _ ports.ShopAPI = (*Client)(nil)

// NewClient wires endpoints and an HTTP client; empty arguments fall
// back to the production URLs and a timeout client.
func NewClient(goodsURL, cdShopURL string, client *http.Client) *Client {
	if goodsURL == "" {
		goodsURL = defaultGoodsURL
	}
	if cdShopURL == "" {
		cdShopURL = defaultCDShopURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{goodsURL: goodsURL, cdShopURL: cdShopURL, client: client}
}

// FetchTagList pulls the goods-shop tag list. The shop publishes no news
// feed; new products are inferred from freshly registered tags.
func (c *Client) FetchTagList(ctx context.Context) ([]domain.ShopTag, error) {
	var payload struct {
		Tags []struct {
			ID       int    `json:"id"`
			Code     string `json:"code"`
			Name     string `json:"name"`
			NameKana string `json:"name_kana"`
		} `json:"tags"`
	}
	if err := c.getJSON(ctx, c.goodsURL+"api/tag/lists.json?shop_id=279", &payload); err != nil {
		return nil, fmt.Errorf("tag list: %w", err)
	}

	tags := make([]domain.ShopTag, 0, len(payload.Tags))
	for _, t := range payload.Tags {
		tags = append(tags, domain.ShopTag{ID: t.ID, Code: t.Code, Name: t.Name, NameKana: t.NameKana})
	}
	return tags, nil
}

// FetchCDShopNews pulls the CD-shop news list.
func (c *Client) FetchCDShopNews(ctx context.Context) ([]domain.NewsItem, error) {
	var payload []struct {
		Title string `json:"title"`
		Date  struct {
			Published string `json:"published"`
		} `json:"date"`
	}
	if err := c.getJSON(ctx, c.cdShopURL+"api/v1/news?group_id=5", &payload); err != nil {
		return nil, fmt.Errorf("cdshop news: %w", err)
	}

	var news []domain.NewsItem
	for _, entry := range payload {
		if entry.Title == "" || entry.Date.Published == "" {
			continue
		}
		published, err := time.Parse(time.RFC3339, entry.Date.Published)
		if err != nil {
			continue
		}
		// drop the offset: snapshot rows carry none, so novelty
		// comparison happens on wall-clock values
		news = append(news, domain.NewsItem{Title: entry.Title, Published: domain.WallClock(published)})
	}
	return news, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
