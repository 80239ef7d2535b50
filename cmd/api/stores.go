package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/limegom/FastApi-Todos-by-jong1/internal/config"
	"github.com/limegom/FastApi-Todos-by-jong1/internal/http/handler"
	"github.com/limegom/FastApi-Todos-by-jong1/internal/model"
	"github.com/limegom/FastApi-Todos-by-jong1/internal/repository"
)

type stores struct {
	todos     repository.Store[model.Todo]
	repeating repository.Store[model.RepeatingTodo]
	checks    []handler.HealthCheck
	db        *sqlx.DB
}

func (s *stores) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

func openStores(ctx context.Context, cfg config.Config, log *zap.Logger) (*stores, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		return openPostgresStores(ctx, cfg, log)
	default:
		return openFileStores(cfg, log)
	}
}

// schemaOptions returns the per-collection schema options, empty when
// SCHEMA_VALIDATION is off.
func schemaOptions(cfg config.Config) (todoOpts, repOpts []repository.Option) {
	if cfg.Store.SchemaValidation {
		todoOpts = append(todoOpts, repository.WithSchema("todos.schema.json", model.TodoCollectionSchema))
		repOpts = append(repOpts, repository.WithSchema("repeating.schema.json", model.RepeatingCollectionSchema))
	}
	return todoOpts, repOpts
}

func openFileStores(cfg config.Config, log *zap.Logger) (*stores, error) {
	todoOpts, repOpts := schemaOptions(cfg)

	todos, err := repository.NewFileStore[model.Todo](cfg.Store.TodoFile, todoOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open todo store: %w", err)
	}
	repeating, err := repository.NewFileStore[model.RepeatingTodo](cfg.Store.RepeatingFile, repOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open repeating store: %w", err)
	}

	log.Info("file stores ready",
		zap.String("todo_file", todos.Path()),
		zap.String("repeating_file", repeating.Path()),
		zap.Bool("schema_validation", cfg.Store.SchemaValidation),
	)
	return &stores{todos: todos, repeating: repeating}, nil
}

func openPostgresStores(ctx context.Context, cfg config.Config, log *zap.Logger) (*stores, error) {
	dsn := cfg.DB.DSN()
	if err := repository.MigrateUp(dsn); err != nil {
		return nil, err
	}

	db, err := repository.NewDB(dsn)
	if err != nil {
		return nil, err
	}
	log.Info("database connected",
		zap.String("host", cfg.DB.Host),
		zap.String("name", cfg.DB.Name),
		zap.Bool("schema_validation", cfg.Store.SchemaValidation),
	)

	todoOpts, repOpts := schemaOptions(cfg)
	todos, err := repository.NewPostgresStore[model.Todo](db, repository.TodoCollection, todoOpts...)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open todo store: %w", err)
	}
	repeating, err := repository.NewPostgresStore[model.RepeatingTodo](db, repository.RepeatingCollection, repOpts...)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open repeating store: %w", err)
	}

	return &stores{
		todos:     todos,
		repeating: repeating,
		checks: []handler.HealthCheck{
			{Name: "database", Check: db.PingContext},
		},
		db: db,
	}, nil
}
