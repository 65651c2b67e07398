package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"OpimeNotify/internal/domain"
	"OpimeNotify/internal/jptext"
)

const (
	receptionMarker = "ご予約受付日程"
	roundSeparator  = "・"
)

var (
	productTitleExpr = regexp.MustCompile(`(NGT48.*劇場盤)`)
	roundExpr        = regexp.MustCompile(`第(\d+)次受付\.+(\d+/\d+\(.\)\d+:\d+)~(\d+/\d+\(.\)\d+:\d+)`)
	talkSaleGateExpr = regexp.MustCompile(`オンラインおしゃべり会.*第\d+次`)
)

// IsTalkSaleTitle reports whether a normalized announcement title looks
// like an online talk-sale reception notice.
func IsTalkSaleTitle(title string) bool {
	return talkSaleGateExpr.MatchString(jptext.Normalize(title))
}

// ParseTalkSale expands one online talk-sale announcement into one event
// per reception round. Rounds that do not match the reception pattern are
// dropped rather than failing the whole announcement.
func ParseTalkSale(a domain.Announcement, now time.Time) []domain.ScheduleEvent {
	product := a.Title
	if m := productTitleExpr.FindStringSubmatch(a.Title); m != nil {
		product = m[1]
	}
	title := jptext.Normalize(a.Title)
	body := jptext.Normalize(a.Body)

	parts := strings.Split(body, receptionMarker)
	window := strings.SplitN(parts[len(parts)-1], sectionBreak, 2)[0]

	var events []domain.ScheduleEvent
	for _, fragment := range strings.Split(window, roundSeparator) {
		ev, ok := parseRound(fragment, now.Year())
		if !ok {
			continue
		}
		ev.Title = title
		ev.OccursAt = a.PublishedAt
		ev.ProductTitle = product
		events = append(events, ev)
	}
	return events
}

func parseRound(fragment string, year int) (domain.ScheduleEvent, bool) {
	m := roundExpr.FindStringSubmatch(fragment)
	if m == nil {
		return domain.ScheduleEvent{}, false
	}
	round, err := strconv.Atoi(m[1])
	if err != nil {
		return domain.ScheduleEvent{}, false
	}
	start, ok := jptext.ExtractYear(jptext.SlashDayClock, jptext.ReplaceWeekday(m[2], " "), year)
	if !ok {
		return domain.ScheduleEvent{}, false
	}
	end, ok := jptext.ExtractYear(jptext.SlashDayClock, jptext.ReplaceWeekday(m[3], " "), year)
	if !ok {
		return domain.ScheduleEvent{}, false
	}

	lines := strings.Split(strings.TrimSpace(fragment), "\n")
	return domain.ScheduleEvent{
		Kind:        domain.KindTalkSale,
		Description: lines[len(lines)-1],
		Round:       round,
		SaleStart:   start,
		SaleEnd:     end,
	}, true
}

// FilterTalkSale drops rounds whose reception already closed before start.
func FilterTalkSale(events []domain.ScheduleEvent, start time.Time) []domain.ScheduleEvent {
	var kept []domain.ScheduleEvent
	for _, ev := range events {
		if !start.IsZero() && !ev.SaleEnd.IsZero() && ev.SaleEnd.Before(start) {
			continue
		}
		kept = append(kept, ev)
	}
	return kept
}
