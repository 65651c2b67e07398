package reminder

import (
	"strconv"

	"OpimeNotify/internal/domain"
)

// Table is the worksheet holding the reminder set.
const Table = "schedule_list"

// Columns is the expected column order of the reminder table. The id
// column is row-generated on write; Seq survives only within one run.
var Columns = []string{"id", "title", "date", "description", "url", "status"}

// FromRow builds a reminder from one persisted row. Rows without a fire
// timestamp are informational leftovers and are skipped.
func FromRow(row map[string]string) (domain.Reminder, bool) {
	if row["date"] == "" || row["title"] == "" {
		return domain.Reminder{}, false
	}
	seq, _ := strconv.Atoi(row["id"])
	return domain.Reminder{
		Seq:         seq,
		Title:       row["title"],
		FireAt:      row["date"],
		Description: row["description"],
		URL:         row["url"],
		Status:      row["status"],
	}, true
}

// FromRows converts a full table read, dropping unusable rows.
func FromRows(rows []map[string]string) []domain.Reminder {
	var reminders []domain.Reminder
	for _, row := range rows {
		if r, ok := FromRow(row); ok {
			reminders = append(reminders, r)
		}
	}
	return reminders
}

// ToRow renders a reminder in the given column order. The id cell is a
// row formula so the store assigns ids by position; an empty status
// defaults to BEFORE.
func ToRow(r domain.Reminder, header []string) []string {
	row := make([]string, 0, len(header))
	for _, col := range header {
		switch col {
		case "id":
			row = append(row, "=ROW()-1")
		case "title":
			row = append(row, r.Title)
		case "date":
			row = append(row, r.FireAt)
		case "description":
			row = append(row, r.Description)
		case "url":
			row = append(row, r.URL)
		case "status":
			if r.Status == "" {
				row = append(row, domain.StatusBefore)
			} else {
				row = append(row, r.Status)
			}
		default:
			row = append(row, "")
		}
	}
	return row
}
