package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced by every catalogcore operation. Match them with
// errors.Is; a *Error carrying a kind matches that kind.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStorageFailure    = errors.New("storage failure")
)

// Error describes a failed operation on a single entity.
type Error struct {
	Kind   error
	Op     string
	Entity EntityType
	ID     string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Entity != "" {
		b.WriteString(string(e.Entity))
		if e.ID != "" {
			fmt.Fprintf(&b, " %q", e.ID)
		}
		b.WriteString(": ")
	}
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	} else {
		b.WriteString("error")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound builds an ErrNotFound error for entity id.
func NotFound(op string, entity EntityType, id string) error {
	return &Error{Kind: ErrNotFound, Op: op, Entity: entity, ID: id}
}

// DuplicateKey builds an ErrDuplicateKey error for entity id.
func DuplicateKey(op string, entity EntityType, id string) error {
	return &Error{Kind: ErrDuplicateKey, Op: op, Entity: entity, ID: id}
}

// InvalidArgument builds an ErrInvalidArgument error with a reason.
func InvalidArgument(op string, entity EntityType, id string, reason error) error {
	return &Error{Kind: ErrInvalidArgument, Op: op, Entity: entity, ID: id, Err: reason}
}

// InsufficientStock reports that withdrawing would take id below zero.
func InsufficientStock(op, id string, have, want int) error {
	return &Error{Kind: ErrInsufficientStock, Op: op, Entity: EntityStock, ID: id,
		Err: fmt.Errorf("have %d, need %d", have, want)}
}

// StorageFailure wraps a persistence read/write error.
func StorageFailure(op string, err error) error {
	var de *Error
	if errors.As(err, &de) && de.Kind == ErrStorageFailure {
		return err
	}
	return &Error{Kind: ErrStorageFailure, Op: op, Err: err}
}
