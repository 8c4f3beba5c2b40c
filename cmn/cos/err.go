// Package cos provides common low-level types and utilities for all grace packages.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"errors"
	"fmt"
	"strconv"
)

type (
	// invalid argument: nil buffers, out-of-range offsets, self-referential writes
	ErrInvalidArg struct {
		what   string
		detail string
	}
	// illegal operation in the current state
	ErrIllegalOp struct {
		what   string
		detail string
	}
)

// ErrInvalidArg

func NewErrInvalidArg(what, detail string) *ErrInvalidArg {
	return &ErrInvalidArg{what: what, detail: detail}
}

func (e *ErrInvalidArg) Error() string {
	if e.detail == "" {
		return "invalid argument: " + e.what
	}
	return "invalid argument: " + e.what + ": " + e.detail
}

func IsErrInvalidArg(err error) bool {
	var e *ErrInvalidArg
	return errors.As(err, &e)
}

// ErrIllegalOp

func NewErrIllegalOp(what, detail string) *ErrIllegalOp {
	return &ErrIllegalOp{what: what, detail: detail}
}

func (e *ErrIllegalOp) Error() string {
	if e.detail == "" {
		return "illegal operation: " + e.what
	}
	return "illegal operation: " + e.what + ": " + e.detail
}

func IsErrIllegalOp(err error) bool {
	var e *ErrIllegalOp
	return errors.As(err, &e)
}

// CheckRange validates [off, off+n) against the total length l
func CheckRange(off, n, l int) error {
	if off < 0 || n < 0 || off > l || n > l-off {
		return NewErrInvalidArg("range",
			"offset "+strconv.Itoa(off)+", length "+strconv.Itoa(n)+" out of bounds [0, "+strconv.Itoa(l)+"]")
	}
	return nil
}

func Plural(num int) (s string) {
	if num != 1 {
		s = "s"
	}
	return
}

// Errs accumulates (up to `cap`) distinct errors; not thread-safe
type Errs struct {
	errs []error
	cap  int
}

func NewErrs(maxErrs int) Errs { return Errs{cap: maxErrs} }

func (e *Errs) Add(err error) {
	if err == nil {
		return
	}
	for _, added := range e.errs {
		if added.Error() == err.Error() {
			return
		}
	}
	if e.cap <= 0 || len(e.errs) < e.cap {
		e.errs = append(e.errs, err)
	}
}

func (e *Errs) Cnt() int { return len(e.errs) }

func (e *Errs) Err() error {
	switch len(e.errs) {
	case 0:
		return nil
	case 1:
		return e.errs[0]
	default:
		return fmt.Errorf("%w (and %d more error%s)", e.errs[0], len(e.errs)-1, Plural(len(e.errs)-1))
	}
}
