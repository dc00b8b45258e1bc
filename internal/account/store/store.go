// Package store exposes the authoritative profile store as a wide-column
// style contract: statement templates with positional parameters in, rows of
// typed column values out. Connection management and the SQL dialect stay
// behind this boundary.
package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
)

// Store is the query/update contract consumed by the account service.
type Store interface {
	// Query runs a statement template with positional parameters and
	// returns the matching rows. No rows is not an error.
	Query(ctx context.Context, stmt string, args ...any) ([]Row, error)
	// Exec runs a mutating statement template with positional parameters.
	Exec(ctx context.Context, stmt string, args ...any) error
}

// Row is one result row: column values in SELECT order. Values are decoded
// through the typed accessors below rather than asserted in place, so a
// malformed row surfaces as a structured error instead of a panic.
type Row []any

// Structured decode errors. Callers treat either as an internal fault: the
// row exists but does not match the expected shape.
var (
	ErrMissingColumn = errors.New("store: missing column")
	ErrTypeMismatch  = errors.New("store: column type mismatch")
)

// StringAt decodes column i as a string. NULL decodes to "".
func (r Row) StringAt(i int) (string, error) {
	v, err := r.at(i)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("%w: column %d is %T, want string", ErrTypeMismatch, i, v)
	}
}

// OptionalStringAt decodes column i as an optional string: NULL and the
// empty string both normalize to absent.
func (r Row) OptionalStringAt(i int) (*string, error) {
	s, err := r.StringAt(i)
	if err != nil || s == "" {
		return nil, err
	}
	return &s, nil
}

// BoolAt decodes column i as a boolean. NULL decodes to false.
func (r Row) BoolAt(i int) (bool, error) {
	v, err := r.at(i)
	if err != nil {
		return false, err
	}
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	default:
		return false, fmt.Errorf("%w: column %d is %T, want bool", ErrTypeMismatch, i, v)
	}
}

// FlagsAt decodes column i as a 32-bit account bitfield: 4 raw bytes,
// big-endian. NULL decodes to 0.
func (r Row) FlagsAt(i int) (uint32, error) {
	v, err := r.at(i)
	if err != nil {
		return 0, err
	}
	switch raw := v.(type) {
	case nil:
		return 0, nil
	case []byte:
		if len(raw) != 4 {
			return 0, fmt.Errorf("%w: column %d has %d bytes, want 4", ErrTypeMismatch, i, len(raw))
		}
		return binary.BigEndian.Uint32(raw), nil
	default:
		return 0, fmt.Errorf("%w: column %d is %T, want []byte", ErrTypeMismatch, i, v)
	}
}

func (r Row) at(i int) (any, error) {
	if i < 0 || i >= len(r) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrMissingColumn, i, len(r))
	}
	return r[i], nil
}
