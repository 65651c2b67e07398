package realtime

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"OpimeNotify/internal/domain"
)

// Source describes one tracked external list: its snapshot table, row
// layout, identity rule and the alert built per new item.
type Source interface {
	Name() string
	Table() string
	Headers() []string
	Rule() Rule
	FromRows(rows []map[string]string) []Item
	ToRows(items []Item) [][]string
	Alerts(item Item, now time.Time) []domain.Reminder
}

var monthlyPhotoTagExpr = regexp.MustCompile(`^\d{4}年\d{1,2}月度個別生写真`)

// ShopTagSource tracks the goods-shop tag list. The shop publishes no
// news feed, so a freshly registered monthly-photo tag is the only
// signal that a new product went on sale. Tag ids grow monotonically.
type ShopTagSource struct{}

func (ShopTagSource) Name() string  { return "shop_tags" }
func (ShopTagSource) Table() string { return "monthly_photo_curr_tag_list" }
func (ShopTagSource) Rule() Rule    { return SequenceRule{} }

func (ShopTagSource) Headers() []string {
	return []string{"id", "title", "date", "code", "name", "name_kana"}
}

// FromTags keeps the monthly-photo tags of a fresh tag-list fetch,
// stamped with the fetch time.
func (ShopTagSource) FromTags(tags []domain.ShopTag, now time.Time) []Item {
	var items []Item
	for _, tag := range tags {
		if !monthlyPhotoTagExpr.MatchString(tag.Name) {
			continue
		}
		items = append(items, Item{
			ID:       tag.ID,
			Title:    fmt.Sprintf("[%s]%s", tag.Code, tag.Name),
			Date:     now,
			Code:     tag.Code,
			Name:     tag.Name,
			NameKana: tag.NameKana,
		})
	}
	return items
}

func (ShopTagSource) FromRows(rows []map[string]string) []Item {
	var items []Item
	for _, row := range rows {
		if row["title"] == "" || row["date"] == "" {
			continue
		}
		date, err := time.Parse(domain.DateFormat, row["date"])
		if err != nil {
			continue
		}
		id, _ := strconv.Atoi(row["id"])
		items = append(items, Item{
			ID:       id,
			Title:    row["title"],
			Date:     date,
			Code:     row["code"],
			Name:     row["name"],
			NameKana: row["name_kana"],
		})
	}
	return items
}

func (s ShopTagSource) ToRows(items []Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			strconv.Itoa(it.ID),
			it.Title,
			it.Date.Format(domain.DateFormat),
			it.Code,
			it.Name,
			it.NameKana,
		})
	}
	return rows
}

func (ShopTagSource) Alerts(item Item, now time.Time) []domain.Reminder {
	url := fmt.Sprintf("https://official-goods-store.jp/ngt48/product/list?tag_codes=NGT-T-003%%252C%s", item.Code)
	body := fmt.Sprintf("NGT48オフィシャルショップにて月別生写真が新発売されている可能性があります。\n[%s]", item.Name)
	return []domain.Reminder{{
		Seq:         0,
		Title:       "【新着ショップ情報】" + item.Name,
		FireAt:      now.Format(domain.DateFormat),
		Description: body,
		URL:         url,
		Status:      domain.StatusRealtime,
	}}
}
