package model

import "time"

// DueDateLayout is the calendar-date layout accepted for due_date.
const DueDateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// DaysLeft returns the number of calendar days from today until dueDate.
// It returns nil when dueDate is nil or not a valid YYYY-MM-DD date.
// Only the calendar date of today (in its own location) is used.
func DaysLeft(dueDate *string, today time.Time) *int {
	if dueDate == nil {
		return nil
	}
	due, err := time.Parse(DueDateLayout, *dueDate)
	if err != nil {
		return nil
	}

	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	// Both are UTC midnights so the division is exact. Sub saturates for
	// dates more than ~292 years apart.
	n := int((due.Unix() - start.Unix()) / secondsPerDay)
	return &n
}
