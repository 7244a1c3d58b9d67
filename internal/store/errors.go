package store

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"io"

	"github.com/lib/pq"
)

// ErrorKind classifies a store failure. The retry loop only acts on
// KindTransient; everything else propagates to the caller immediately.
type ErrorKind int

const (
	// KindTransient covers rate limiting, connection exhaustion and
	// dropped connections. Safe to retry.
	KindTransient ErrorKind = iota
	// KindConstraint covers unique/foreign-key violations.
	KindConstraint
	// KindPermanent is everything else.
	KindPermanent
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindConstraint:
		return "constraint"
	default:
		return "permanent"
	}
}

// Error wraps a driver error with an explicit classification, so callers
// never have to inspect error message text.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// classify wraps err as an *Error with its kind derived from the driver
// error. SQLSTATE classes 53 (insufficient resources), 57 (operator
// intervention) and 40 (transaction rollback) are the states a hosted
// Postgres emits when it is shedding load.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	kind := KindPermanent

	var pqErr *pq.Error
	switch {
	case errors.As(err, &pqErr):
		switch pqErr.Code.Class() {
		case "53", "57", "40":
			kind = KindTransient
		case "23":
			kind = KindConstraint
		}
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		kind = KindTransient
	}

	return &Error{Kind: kind, Op: op, Err: err}
}

// IsTransient reports whether err is a store error classified as retryable.
func IsTransient(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindTransient
}

// IsConstraint reports whether err is a store error for a violated constraint.
func IsConstraint(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindConstraint
}
