package model

type RepeatType string

const (
	RepeatDaily  RepeatType = "daily"
	RepeatWeekly RepeatType = "weekly"
)

func (r RepeatType) IsValid() bool {
	return r == RepeatDaily || r == RepeatWeekly
}

// RepeatingTodo is a recurring to-do template. RepeatDays holds weekday
// numbers (0 = Sunday) and only matters for weekly templates.
type RepeatingTodo struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	RepeatType  RepeatType `json:"repeat_type"`
	RepeatDays  []int      `json:"repeat_days"`
}
