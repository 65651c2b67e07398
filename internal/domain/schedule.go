package domain

import "time"

// DateFormat is the fixed pattern used for every persisted timestamp.
// Persisted values are zone-less wall-clock readings; time.Parse labels
// them UTC.
const DateFormat = "2006/01/02 15:04:05"

// WallClock reinterprets t as the zone-less reading DateFormat values
// carry: same calendar fields, UTC label. Clocks must pass through this
// before being compared against extracted or persisted timestamps.
func WallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// EventKind discriminates ScheduleEvent variants.
type EventKind string

const (
	KindTheater      EventKind = "theater"
	KindTalkSale     EventKind = "otsale"
	KindMonthlyPhoto EventKind = "monthly_photo"
)

// ScheduleEvent is a dated occurrence extracted from one announcement.
// Kind selects which of the optional field groups is meaningful; a zero
// OccursAt marks an informational event that produces no reminders.
type ScheduleEvent struct {
	Kind        EventKind
	Title       string
	OccursAt    time.Time
	Description string

	// theater
	OfferStart time.Time
	OfferEnd   time.Time
	ResultAt   time.Time

	// online talk sale
	Round        int
	SaleStart    time.Time
	SaleEnd      time.Time
	ProductTitle string

	// monthly photo
	SalesOpenAt time.Time
	SourceURL   string
}

// Reminder statuses. Anything else is a delivery error detail kept for
// the next run.
const (
	StatusBefore   = "BEFORE"
	StatusRealtime = "REALTIME"
	StatusSuccess  = "SUCCESS"
)

// Reminder is a timed notice to be delivered once. Seq distinguishes the
// multiple reminders one event emits (0 = main); it is not a global key.
// Identity across the persisted set is (Title, FireAt).
type Reminder struct {
	Seq         int
	Title       string
	FireAt      string // DateFormat
	Description string
	URL         string
	Status      string
}

// FireTime parses the formatted fire timestamp.
func (r Reminder) FireTime() (time.Time, error) {
	return time.Parse(DateFormat, r.FireAt)
}

// Message is the delivery payload handed to a broadcaster.
type Message struct {
	Title string
	Body  string
	URL   string
}
