// Package reminder reconciles generated reminders with the persisted
// reminder table: due selection, delivery-result merging and the
// dedupe/sort normalization applied before every write-back.
package reminder

import (
	"sort"
	"time"

	"OpimeNotify/internal/domain"
)

// identity is the uniqueness key across the persisted set. Seq is not
// part of it: sequence numbers restart at 0 for every event.
func identity(r domain.Reminder) string {
	return r.Title + "\x00" + r.FireAt
}

// Due selects every reminder whose fire time is strictly before now's
// wall-clock reading; now may be zoned, fire timestamps are not. Rows
// with an unparseable fire timestamp are never due.
func Due(all []domain.Reminder, now time.Time) []domain.Reminder {
	now = domain.WallClock(now)
	var due []domain.Reminder
	for _, r := range all {
		fire, err := r.FireTime()
		if err != nil {
			continue
		}
		if fire.Before(now) {
			due = append(due, r)
		}
	}
	return due
}

// MergeResults folds delivery results back into the original set. A
// successfully delivered reminder is dropped; a failed one is replaced by
// its result record, whose status carries the error detail for the next
// run; originals without a result are kept unchanged.
func MergeResults(original, results []domain.Reminder) []domain.Reminder {
	byIdentity := make(map[string]domain.Reminder, len(results))
	for _, res := range results {
		byIdentity[identity(res)] = res
	}

	var merged []domain.Reminder
	for _, r := range original {
		res, ok := byIdentity[identity(r)]
		if !ok {
			merged = append(merged, r)
			continue
		}
		if res.Status == domain.StatusSuccess {
			continue
		}
		merged = append(merged, res)
	}
	return merged
}

// Normalize dedupes by (title, fireAt) and sorts ascending by fire time.
// The sort order is the row-assignment contract for the persisted table.
func Normalize(list []domain.Reminder) []domain.Reminder {
	seen := make(map[string]struct{}, len(list))
	var out []domain.Reminder
	for _, r := range list {
		id := identity(r)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, erri := out[i].FireTime()
		tj, errj := out[j].FireTime()
		if erri != nil || errj != nil {
			return errj != nil && erri == nil
		}
		return ti.Before(tj)
	})
	return out
}
