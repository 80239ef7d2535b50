package model

import "time"

// CreatedAtLayout is the ISO-8601 layout used when the server stamps created_at.
const CreatedAtLayout = "2006-01-02T15:04:05.000000"

// Todo is the persisted form of a to-do item. It deliberately has no
// days_left field; see TodoView.
type Todo struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"created_at"`
	DueDate     *string `json:"due_date"`
}

// TodoView is a Todo as returned to clients, with days_left computed at read time.
type TodoView struct {
	Todo
	DaysLeft *int `json:"days_left"`
}

// NewTodoView attaches the days_left value derived from t.DueDate and today.
func NewTodoView(t Todo, today time.Time) TodoView {
	return TodoView{Todo: t, DaysLeft: DaysLeft(t.DueDate, today)}
}

// TodoPatch lists the fields a partial update may touch.
type TodoPatch struct {
	Completed *bool `json:"completed"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TodoPatch) IsEmpty() bool {
	return p.Completed == nil
}

// Apply returns t with the patch fields applied.
func (p TodoPatch) Apply(t Todo) Todo {
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}
