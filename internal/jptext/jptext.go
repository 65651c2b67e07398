// Package jptext canonicalizes Japanese announcement text and extracts
// calendar fragments from it.
package jptext

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFKC compatibility normalization (full-width to
// half-width, combined forms) and removes every space character.
// Idempotent.
func Normalize(text string) string {
	// NFKC folds ideographic spaces to ASCII, so one pass removes both.
	t := norm.NFKC.String(text)
	return strings.ReplaceAll(t, " ", "")
}

var weekdayExpr = regexp.MustCompile(`[(（].[)）]`)

// StripWeekday removes every parenthesized single-character weekday
// marker: "8月23日(水)" -> "8月23日".
func StripWeekday(text string) string {
	return ReplaceWeekday(text, "")
}

// ReplaceWeekday substitutes weekday markers with repl. The talk-sale
// patterns need a space there to keep day and clock apart.
func ReplaceWeekday(text, repl string) string {
	return weekdayExpr.ReplaceAllString(text, repl)
}

// Pattern is one recognized calendar/clock fragment family.
type Pattern struct {
	expr    *regexp.Regexp
	layout  string
	hasYear bool
}

var (
	// MonthDay matches "6月1日".
	MonthDay = Pattern{regexp.MustCompile(`\d+月\d+日`), "1月2日", false}
	// MonthDayClock matches "6月1日13:00" (weekday already stripped).
	MonthDayClock = Pattern{regexp.MustCompile(`\d+月\d+日\d+:\d+`), "1月2日15:04", false}
	// YearMonthDayClock matches "2024年6月1日13:00".
	YearMonthDayClock = Pattern{regexp.MustCompile(`\d{4}年\d+月\d+日\d+:\d+`), "2006年1月2日15:04", true}
	// SlashDayClock matches "6/1 13:00", the talk-sale round form.
	SlashDayClock = Pattern{regexp.MustCompile(`\d+/\d+ \d+:\d+`), "1/2 15:04", false}
	// DottedDate matches "2024.06.01", the news-list publish date form.
	DottedDate = Pattern{regexp.MustCompile(`\d{4}\.\d{2}\.\d{2}`), "2006.01.02", true}
	// Clock matches a bare "13:00".
	Clock = Pattern{regexp.MustCompile(`\d+:\d+`), "15:04", false}
)

// Extract finds the first fragment of text matching p and parses it.
// Patterns without a year component come back in year 0; callers fill it
// in via WithYear. A missing fragment is a normal outcome, not an error.
func Extract(p Pattern, text string) (time.Time, bool) {
	frag := p.expr.FindString(text)
	if frag == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(p.layout, frag)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ExtractYear extracts a yearless fragment and stamps it with year.
func ExtractYear(p Pattern, text string, year int) (time.Time, bool) {
	t, ok := Extract(p, text)
	if !ok {
		return time.Time{}, false
	}
	if !p.hasYear {
		t = WithYear(t, year)
	}
	return t, true
}

// WithYear rebuilds t with the given calendar year.
func WithYear(t time.Time, year int) time.Time {
	return time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, t.Location())
}

// ReferenceYear picks the year to assume for yearless fragments: the
// enclosing announcement's publish year when known, else now's year.
func ReferenceYear(published, now time.Time) int {
	if !published.IsZero() {
		return published.Year()
	}
	return now.Year()
}
