package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/limegom/FastApi-Todos-by-jong1/internal/model"
	"github.com/limegom/FastApi-Todos-by-jong1/internal/repository"
)

// TodoInput is the full client-supplied representation of a to-do item,
// used for both create and full replacement.
type TodoInput struct {
	ID          *int    `json:"id" validate:"required"`
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Completed   bool    `json:"completed"`
	CreatedAt   *string `json:"created_at"`
	DueDate     *string `json:"due_date"`
}

func (in TodoInput) toTodo(id int) model.Todo {
	t := model.Todo{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		DueDate:     in.DueDate,
	}
	if in.CreatedAt != nil {
		t.CreatedAt = *in.CreatedAt
	}
	return t
}

type Option func(*clock)

type clock struct {
	now func() time.Time
	loc *time.Location
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *clock) { c.now = now }
}

// WithLocation sets the time zone whose calendar date counts as "today"
// when computing days_left.
func WithLocation(loc *time.Location) Option {
	return func(c *clock) { c.loc = loc }
}

func newClock(opts []Option) clock {
	c := clock{now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c clock) today() time.Time {
	return c.now().In(c.loc)
}

type TodoService struct {
	store repository.Store[model.Todo]
	clock clock
}

func NewTodoService(store repository.Store[model.Todo], opts ...Option) *TodoService {
	return &TodoService{store: store, clock: newClock(opts)}
}

func (s *TodoService) views(todos []model.Todo) []model.TodoView {
	today := s.clock.today()
	views := make([]model.TodoView, 0, len(todos))
	for _, t := range todos {
		views = append(views, model.NewTodoView(t, today))
	}
	return views
}

func (s *TodoService) view(t model.Todo) model.TodoView {
	return model.NewTodoView(t, s.clock.today())
}

// List returns every item with days_left attached, incomplete items first.
// Relative order inside each group follows the stored order.
func (s *TodoService) List(ctx context.Context) ([]model.TodoView, error) {
	todos, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	views := s.views(todos)
	slices.SortStableFunc(views, func(a, b model.TodoView) int {
		switch {
		case a.Completed == b.Completed:
			return 0
		case !a.Completed:
			return -1
		default:
			return 1
		}
	})
	return views, nil
}

// Search matches query case-insensitively against title and description.
func (s *TodoService) Search(ctx context.Context, query string) ([]model.TodoView, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", ErrInvalidInput)
	}

	todos, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search todos: %w", err)
	}

	q := strings.ToLower(query)
	matched := make([]model.Todo, 0)
	for _, t := range todos {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			(t.Description != "" && strings.Contains(strings.ToLower(t.Description), q)) {
			matched = append(matched, t)
		}
	}
	return s.views(matched), nil
}

func (s *TodoService) GetByID(ctx context.Context, id int) (model.TodoView, error) {
	todos, err := s.store.Load(ctx)
	if err != nil {
		return model.TodoView{}, fmt.Errorf("failed to get todo: %w", err)
	}

	i := indexTodo(todos, id)
	if i < 0 {
		return model.TodoView{}, ErrNotFound
	}
	return s.view(todos[i]), nil
}

func (s *TodoService) Create(ctx context.Context, input TodoInput) (model.TodoView, error) {
	if err := validateInput(input); err != nil {
		return model.TodoView{}, err
	}

	todo := input.toTodo(*input.ID)
	if todo.CreatedAt == "" {
		todo.CreatedAt = s.clock.now().UTC().Format(model.CreatedAtLayout)
	}

	err := s.store.Mutate(ctx, func(todos []model.Todo) ([]model.Todo, error) {
		if indexTodo(todos, todo.ID) >= 0 {
			return nil, fmt.Errorf("%w: todo %d", ErrConflict, todo.ID)
		}
		return append(todos, todo), nil
	})
	if err != nil {
		return model.TodoView{}, fmt.Errorf("failed to create todo: %w", err)
	}

	return s.view(todo), nil
}

// Update replaces every field of the item except id and created_at.
func (s *TodoService) Update(ctx context.Context, id int, input TodoInput) (model.TodoView, error) {
	input.ID = &id
	if err := validateInput(input); err != nil {
		return model.TodoView{}, err
	}

	var updated model.Todo
	err := s.store.Mutate(ctx, func(todos []model.Todo) ([]model.Todo, error) {
		i := indexTodo(todos, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		updated = input.toTodo(id)
		updated.CreatedAt = todos[i].CreatedAt
		todos[i] = updated
		return todos, nil
	})
	if err != nil {
		return model.TodoView{}, fmt.Errorf("failed to update todo: %w", err)
	}

	return s.view(updated), nil
}

func (s *TodoService) Patch(ctx context.Context, id int, patch model.TodoPatch) (model.TodoView, error) {
	if patch.IsEmpty() {
		return model.TodoView{}, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	return s.modify(ctx, id, "patch", patch.Apply)
}

// ToggleComplete flips the completed flag.
func (s *TodoService) ToggleComplete(ctx context.Context, id int) (model.TodoView, error) {
	return s.modify(ctx, id, "toggle", func(t model.Todo) model.Todo {
		t.Completed = !t.Completed
		return t
	})
}

func (s *TodoService) modify(ctx context.Context, id int, op string, fn func(model.Todo) model.Todo) (model.TodoView, error) {
	var updated model.Todo
	err := s.store.Mutate(ctx, func(todos []model.Todo) ([]model.Todo, error) {
		i := indexTodo(todos, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		updated = fn(todos[i])
		todos[i] = updated
		return todos, nil
	})
	if err != nil {
		return model.TodoView{}, fmt.Errorf("failed to %s todo: %w", op, err)
	}

	return s.view(updated), nil
}

func (s *TodoService) Delete(ctx context.Context, id int) error {
	err := s.store.Mutate(ctx, func(todos []model.Todo) ([]model.Todo, error) {
		i := indexTodo(todos, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		return slices.Delete(todos, i, i+1), nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

// DeleteCompleted removes every completed item in one save and returns how
// many were removed.
func (s *TodoService) DeleteCompleted(ctx context.Context) (int, error) {
	var removed int
	err := s.store.Mutate(ctx, func(todos []model.Todo) ([]model.Todo, error) {
		remaining := slices.DeleteFunc(todos, func(t model.Todo) bool { return t.Completed })
		removed = len(todos) - len(remaining)
		return remaining, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete completed todos: %w", err)
	}
	return removed, nil
}

func indexTodo(todos []model.Todo, id int) int {
	return slices.IndexFunc(todos, func(t model.Todo) bool { return t.ID == id })
}
