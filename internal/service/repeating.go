package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/limegom/FastApi-Todos-by-jong1/internal/model"
	"github.com/limegom/FastApi-Todos-by-jong1/internal/repository"
)

type RepeatingInput struct {
	ID          *int             `json:"id" validate:"required"`
	Title       string           `json:"title" validate:"required,max=200"`
	Description string           `json:"description" validate:"max=2000"`
	RepeatType  model.RepeatType `json:"repeat_type" validate:"required,oneof=daily weekly"`
	RepeatDays  []int            `json:"repeat_days" validate:"dive,min=0,max=6"`
}

func (in RepeatingInput) toRepeating(id int) model.RepeatingTodo {
	days := in.RepeatDays
	if days == nil {
		days = []int{}
	}
	return model.RepeatingTodo{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		RepeatType:  in.RepeatType,
		RepeatDays:  days,
	}
}

// RepeatingService manages recurring to-do templates. Its id space is
// independent of TodoService.
type RepeatingService struct {
	store repository.Store[model.RepeatingTodo]
}

func NewRepeatingService(store repository.Store[model.RepeatingTodo]) *RepeatingService {
	return &RepeatingService{store: store}
}

func (s *RepeatingService) List(ctx context.Context) ([]model.RepeatingTodo, error) {
	items, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list repeating todos: %w", err)
	}
	return items, nil
}

func (s *RepeatingService) GetByID(ctx context.Context, id int) (model.RepeatingTodo, error) {
	items, err := s.store.Load(ctx)
	if err != nil {
		return model.RepeatingTodo{}, fmt.Errorf("failed to get repeating todo: %w", err)
	}

	i := indexRepeating(items, id)
	if i < 0 {
		return model.RepeatingTodo{}, ErrNotFound
	}
	return items[i], nil
}

func (s *RepeatingService) Create(ctx context.Context, input RepeatingInput) (model.RepeatingTodo, error) {
	if err := validateInput(input); err != nil {
		return model.RepeatingTodo{}, err
	}

	item := input.toRepeating(*input.ID)
	err := s.store.Mutate(ctx, func(items []model.RepeatingTodo) ([]model.RepeatingTodo, error) {
		if indexRepeating(items, item.ID) >= 0 {
			return nil, fmt.Errorf("%w: repeating todo %d", ErrConflict, item.ID)
		}
		return append(items, item), nil
	})
	if err != nil {
		return model.RepeatingTodo{}, fmt.Errorf("failed to create repeating todo: %w", err)
	}
	return item, nil
}

func (s *RepeatingService) Update(ctx context.Context, id int, input RepeatingInput) (model.RepeatingTodo, error) {
	input.ID = &id
	if err := validateInput(input); err != nil {
		return model.RepeatingTodo{}, err
	}

	item := input.toRepeating(id)
	err := s.store.Mutate(ctx, func(items []model.RepeatingTodo) ([]model.RepeatingTodo, error) {
		i := indexRepeating(items, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		items[i] = item
		return items, nil
	})
	if err != nil {
		return model.RepeatingTodo{}, fmt.Errorf("failed to update repeating todo: %w", err)
	}
	return item, nil
}

func (s *RepeatingService) Delete(ctx context.Context, id int) error {
	err := s.store.Mutate(ctx, func(items []model.RepeatingTodo) ([]model.RepeatingTodo, error) {
		i := indexRepeating(items, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		return slices.Delete(items, i, i+1), nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete repeating todo: %w", err)
	}
	return nil
}

func indexRepeating(items []model.RepeatingTodo, id int) int {
	return slices.IndexFunc(items, func(r model.RepeatingTodo) bool { return r.ID == id })
}
