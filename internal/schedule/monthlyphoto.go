package schedule

import (
	"regexp"
	"strings"
	"time"

	"OpimeNotify/internal/domain"
	"OpimeNotify/internal/jptext"
)

var (
	photoSaleOpenExpr  = regexp.MustCompile(`(\d+月\d+日\(.\)\d+:\d+)より、下記商品の販売を開始いたします。`)
	photoTitleGateExpr = regexp.MustCompile(`生写真.*予約`)
)

// IsMonthlyPhotoTitle reports whether a normalized announcement title
// looks like a monthly-photo reservation-sale notice.
func IsMonthlyPhotoTitle(title string) bool {
	return photoTitleGateExpr.MatchString(jptext.Normalize(title))
}

// ParseMonthlyPhoto extracts the single reservation-sale event of a
// monthly-photo announcement. An announcement without the sale-open
// sentence is unusable and yields nothing.
func ParseMonthlyPhoto(a domain.Announcement, now time.Time) []domain.ScheduleEvent {
	title := strings.SplitN(a.Title, "予約", 2)[0]
	body := jptext.Normalize(a.Body)

	m := photoSaleOpenExpr.FindStringSubmatch(body)
	if m == nil {
		return nil
	}
	opensAt, ok := jptext.ExtractYear(jptext.MonthDayClock, jptext.StripWeekday(m[1]), now.Year())
	if !ok {
		return nil
	}

	return []domain.ScheduleEvent{{
		Kind:        domain.KindMonthlyPhoto,
		Title:       title,
		OccursAt:    a.PublishedAt,
		Description: a.Body,
		SalesOpenAt: opensAt,
		SourceURL:   a.URL,
	}}
}
