// Package scb implements the streaming char buffer: a chunked, lazily materialized text
// buffer with encoding-state tracking, zero-copy sub-buffer embedding, and streaming
// to one or more connected writers.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package scb

import (
	"errors"
	"fmt"

	"github.com/graceframework/grace-framework-sub000/cmn/cos"
)

var (
	ErrSelfWrite          = cos.NewErrInvalidArg("buffer", "cannot write a buffer into itself")
	ErrCyclicWrite        = cos.NewErrInvalidArg("buffer", "write would create a cycle")
	ErrConsumingReader    = cos.NewErrIllegalOp("reader", "remove-after-reading reader already active")
	ErrEncodingTransition = cos.NewErrIllegalOp("encoding", "cannot mix encoding states in one chunk")

	errReaderClosed = errors.New("scb: reader closed")
)

// ErrVersion is returned when reading the external form of a different version
type ErrVersion struct {
	Got, Want uint32
}

func (e *ErrVersion) Error() string {
	return fmt.Sprintf("scb: unsupported external form version %d (expecting %d)", e.Got, e.Want)
}

func IsErrVersion(err error) bool {
	var e *ErrVersion
	return errors.As(err, &e)
}
