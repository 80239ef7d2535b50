package repository

import (
	"errors"
	"fmt"
)

var (
	ErrStorageRead  = errors.New("storage read failure")
	ErrStorageWrite = errors.New("storage write failure")
)

type Kind int

const (
	KindRead Kind = iota + 1
	KindWrite
)

func (k Kind) sentinel() error {
	if k == KindWrite {
		return ErrStorageWrite
	}
	return ErrStorageRead
}

// PersistenceError reports a failed read or write against the backing store.
// It matches ErrStorageRead or ErrStorageWrite with errors.Is, depending on Kind.
type PersistenceError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind.sentinel(), e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{e.Kind.sentinel(), e.Err}
}

func readErr(op string, err error) error {
	return &PersistenceError{Kind: KindRead, Op: op, Err: err}
}

func writeErr(op string, err error) error {
	return &PersistenceError{Kind: KindWrite, Op: op, Err: err}
}
