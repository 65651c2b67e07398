// Package realtime detects items that appeared in an external source
// since the previous run, using per-source identity rules, and turns
// them into immediate alert reminders.
package realtime

import (
	"hash/fnv"
	"time"

	"OpimeNotify/internal/jptext"
)

// Item is the last-seen snapshot unit persisted between runs. Only the
// fields meaningful for the owning source are set.
type Item struct {
	ID       int
	Title    string
	Date     time.Time
	Code     string
	Name     string
	NameKana string
}

// Rule is one source-specific identity policy: which fresh items count
// as new against the snapshot, and which subset of the fresh list is
// kept as the next snapshot (the max-identity cohort).
type Rule interface {
	DetectNew(snapshot, fresh []Item) []Item
	RetainedCohort(items []Item) []Item
}

// TimestampRule treats an item as new when its timestamp strictly
// exceeds the snapshot maximum. An empty snapshot means a first run and
// every fresh item is new.
type TimestampRule struct{}

func (TimestampRule) DetectNew(snapshot, fresh []Item) []Item {
	max, ok := maxDate(snapshot)
	if !ok {
		return fresh
	}
	var out []Item
	for _, it := range fresh {
		if it.Date.IsZero() || it.Title == "" {
			continue
		}
		if it.Date.After(max) {
			out = append(out, it)
		}
	}
	return out
}

func (TimestampRule) RetainedCohort(items []Item) []Item {
	return dateCohort(items)
}

// SequenceRule treats an item as new when its integer id strictly
// exceeds the snapshot maximum. A cold store yields nothing: the id
// space starts above zero and with nothing to compare we stay quiet.
// Deliberately asymmetric to TimestampRule's first-run flood.
type SequenceRule struct{}

func (SequenceRule) DetectNew(snapshot, fresh []Item) []Item {
	if len(snapshot) == 0 {
		return nil
	}
	max := maxID(snapshot)
	var out []Item
	for _, it := range fresh {
		if it.Date.IsZero() || it.Title == "" {
			continue
		}
		if it.ID > max {
			out = append(out, it)
		}
	}
	return out
}

func (SequenceRule) RetainedCohort(items []Item) []Item {
	if len(items) == 0 {
		return nil
	}
	max := maxID(items)
	var out []Item
	for _, it := range items {
		if it.ID == max {
			out = append(out, it)
		}
	}
	return out
}

// TiedHashRule extends TimestampRule for sources that release several
// items on the same day: an item at exactly the snapshot-maximum
// timestamp is still new when its normalized-title hash is absent from
// the snapshot.
type TiedHashRule struct{}

func (TiedHashRule) DetectNew(snapshot, fresh []Item) []Item {
	max, ok := maxDate(snapshot)
	if !ok {
		return fresh
	}
	seen := make(map[uint64]struct{}, len(snapshot))
	for _, it := range snapshot {
		seen[titleHash(it.Title)] = struct{}{}
	}

	var out []Item
	for _, it := range fresh {
		if it.Date.IsZero() || it.Title == "" {
			continue
		}
		if it.Date.After(max) {
			out = append(out, it)
			continue
		}
		if it.Date.Equal(max) {
			if _, ok := seen[titleHash(it.Title)]; !ok {
				out = append(out, it)
			}
		}
	}
	return out
}

func (TiedHashRule) RetainedCohort(items []Item) []Item {
	return dateCohort(items)
}

func titleHash(title string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(jptext.Normalize(title)))
	return h.Sum64()
}

func maxDate(items []Item) (time.Time, bool) {
	var max time.Time
	for _, it := range items {
		if it.Date.After(max) {
			max = it.Date
		}
	}
	return max, !max.IsZero()
}

func maxID(items []Item) int {
	max := 0
	for _, it := range items {
		if it.ID > max {
			max = it.ID
		}
	}
	return max
}

func dateCohort(items []Item) []Item {
	max, ok := maxDate(items)
	if !ok {
		return nil
	}
	var out []Item
	for _, it := range items {
		if it.Date.Equal(max) {
			out = append(out, it)
		}
	}
	return out
}
