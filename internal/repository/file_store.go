package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/sync/semaphore"
)

const defaultFileMode fs.FileMode = 0o644

// WithFileMode sets the permission bits of the backing file. Other stores
// ignore it.
func WithFileMode(mode fs.FileMode) Option {
	return func(o *storeOptions) {
		o.mode = mode
	}
}

// FileStore keeps a collection as a JSON array in a single file.
// Writes go through a temp file and a rename, so readers never observe a
// partially written collection.
type FileStore[T any] struct {
	path   string
	mode   fs.FileMode
	sem    *semaphore.Weighted
	schema *jsonschema.Schema
}

func NewFileStore[T any](path string, opts ...Option) (*FileStore[T], error) {
	o := newStoreOptions(opts)
	schema, err := o.compileSchema()
	if err != nil {
		return nil, err
	}

	return &FileStore[T]{
		path:   path,
		mode:   o.mode,
		sem:    semaphore.NewWeighted(1),
		schema: schema,
	}, nil
}

func (s *FileStore[T]) Path() string {
	return s.path
}

func (s *FileStore[T]) Load(ctx context.Context) ([]T, error) {
	return s.load()
}

func (s *FileStore[T]) Save(ctx context.Context, records []T) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire store lock: %w", err)
	}
	defer s.sem.Release(1)

	return s.write(records)
}

func (s *FileStore[T]) Mutate(ctx context.Context, fn func(records []T) ([]T, error)) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire store lock: %w", err)
	}
	defer s.sem.Release(1)

	records, err := s.load()
	if err != nil {
		return err
	}

	next, err := fn(records)
	if err != nil {
		return err
	}

	return s.write(next)
}

func (s *FileStore[T]) load() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []T{}, nil
		}
		return nil, readErr("read file", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	return decodeRecords[T](data, s.schema)
}

func (s *FileStore[T]) write(records []T) error {
	data, err := encodeRecords(records)
	if err != nil {
		return writeErr("encode", err)
	}
	if err := writeFileAtomic(s.path, data, s.mode); err != nil {
		return writeErr("write file", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, mode fs.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Chmod(mode); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var _ Store[struct{}] = (*FileStore[struct{}])(nil)
