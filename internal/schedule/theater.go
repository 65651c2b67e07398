// Package schedule turns announcement text into typed schedule events
// and expands events into timed reminders.
package schedule

import (
	"regexp"
	"strings"
	"time"

	"OpimeNotify/internal/domain"
	"OpimeNotify/internal/jptext"
)

const (
	offerMarker    = "申込期間"
	ticketMarker   = "【チケット申込について】"
	daySeparator   = "●"
	closedKeyword  = "休館日"
	dayShowMarker  = "昼公演"
	nightMarker    = "夜公演"
	programMarker  = "演目"
	castMarker     = "出演メンバー"
	sectionBreak   = "\n\n"
	titleSeparator = ":"
)

var (
	theaterTitleExpr = regexp.MustCompile(`^\d{4}年\d+月\d+日\(.\)~\d+月\d+日\(.\)NGT48劇場公演スケジュールのご案内`)
	offerWindowExpr  = regexp.MustCompile(`(\d{4}年\d+月\d+日\(.\)\d{2}:\d{2})~(\d+月\d+日\(.\)\d{2}:\d{2})まで`)
	lotteryExpr      = regexp.MustCompile(`当落発表:(\d+月\d+日\(.\)\d{2}:\d{2})まで`)
)

// IsTheaterScheduleTitle reports whether a normalized announcement title
// is a period-schedule announcement. Anything else (single-show specials,
// cancellations) is deliberately ignored.
func IsTheaterScheduleTitle(title string) bool {
	return theaterTitleExpr.MatchString(jptext.Normalize(title))
}

type theaterParser struct {
	refYear    time.Time // announcement publish date, zero when unknown
	now        time.Time
	offerStart time.Time
	offerEnd   time.Time
	resultAt   time.Time
}

// ParseTheater expands one theater schedule announcement into one event
// per (date, performance) pair. Announcements whose title does not match
// the period-schedule pattern yield nothing.
func ParseTheater(a domain.Announcement, now time.Time) []domain.ScheduleEvent {
	title := jptext.Normalize(a.Title)
	if !theaterTitleExpr.MatchString(title) {
		return nil
	}

	body := jptext.Normalize(a.Body)
	p := &theaterParser{refYear: a.PublishedAt, now: now}
	p.parseOfferWindow(body)

	// content below the ticket-application marker is not schedule data
	body = strings.SplitN(body, ticketMarker, 2)[0]

	var events []domain.ScheduleEvent
	for _, block := range strings.Split(body, daySeparator) {
		events = append(events, p.parseDayBlock(block)...)
	}
	return events
}

// parseOfferWindow captures the shared application/lottery timestamps
// from the text between the offer marker and the next blank line.
func (p *theaterParser) parseOfferWindow(body string) {
	parts := strings.Split(body, offerMarker)
	window := strings.SplitN(parts[len(parts)-1], sectionBreak, 2)[0]
	year := jptext.ReferenceYear(p.refYear, p.now)

	if m := offerWindowExpr.FindStringSubmatch(window); m != nil {
		if start, ok := jptext.Extract(jptext.YearMonthDayClock, jptext.StripWeekday(m[1])); ok {
			p.offerStart = start
		}
		endYear := year
		if !p.offerStart.IsZero() {
			endYear = p.offerStart.Year()
		}
		if end, ok := jptext.ExtractYear(jptext.MonthDayClock, jptext.StripWeekday(m[2]), endYear); ok {
			p.offerEnd = end
		}
	}
	if m := lotteryExpr.FindStringSubmatch(window); m != nil {
		if result, ok := jptext.ExtractYear(jptext.MonthDayClock, jptext.StripWeekday(m[1]), year); ok {
			p.resultAt = result
		}
	}
}

// parseDayBlock handles one per-date block. A closed-day block or a block
// without a leading date yields nothing.
func (p *theaterParser) parseDayBlock(block string) []domain.ScheduleEvent {
	if strings.Contains(block, closedKeyword) {
		return nil
	}
	day, ok := jptext.ExtractYear(jptext.MonthDay, block, jptext.ReferenceYear(p.refYear, p.now))
	if !ok {
		return nil
	}

	var events []domain.ScheduleEvent
	for _, section := range strings.Split(block, sectionBreak) {
		if ev, ok := p.parseSection(section, day); ok {
			events = append(events, ev)
		}
	}
	return events
}

// parseSection classifies the lines of one performance section. A section
// with no program title, or whose time was never set by a day/night line,
// is not a performance and is dropped.
func (p *theaterParser) parseSection(section string, day time.Time) (domain.ScheduleEvent, bool) {
	var (
		title       string
		suffix      string
		description string
		start       = day
		timeSet     bool
	)

	for _, line := range strings.Split(section, "\n") {
		switch {
		case strings.Contains(line, dayShowMarker) || strings.Contains(line, nightMarker):
			if strings.Contains(line, dayShowMarker) {
				suffix = dayShowMarker
			} else {
				suffix = nightMarker
			}
			clock, ok := jptext.Extract(jptext.Clock, line)
			if !ok {
				continue
			}
			start = time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location())
			timeSet = true
		case strings.Contains(line, programMarker):
			if i := strings.LastIndex(line, titleSeparator); i >= 0 {
				title = line[i+len(titleSeparator):]
			} else {
				title = line
			}
		case strings.Contains(line, castMarker) || description != "":
			description += line
		}
	}

	if title == "" || !timeSet {
		return domain.ScheduleEvent{}, false
	}
	if suffix != "" {
		title += "【" + suffix + "】"
	}
	return domain.ScheduleEvent{
		Kind:        domain.KindTheater,
		Title:       title,
		OccursAt:    start,
		Description: description,
		OfferStart:  p.offerStart,
		OfferEnd:    p.offerEnd,
		ResultAt:    p.resultAt,
	}, true
}

// FilterTheater keeps events at or after start that mention one of the
// keywords in their title or description. Empty keywords keep everything.
func FilterTheater(events []domain.ScheduleEvent, keywords []string, start time.Time) []domain.ScheduleEvent {
	var kept []domain.ScheduleEvent
	for _, ev := range events {
		if !start.IsZero() && !ev.OccursAt.IsZero() && ev.OccursAt.Before(start) {
			continue
		}
		if len(keywords) == 0 {
			kept = append(kept, ev)
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(ev.Title, kw) || strings.Contains(ev.Description, kw) {
				kept = append(kept, ev)
				break
			}
		}
	}
	return kept
}
