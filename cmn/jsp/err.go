// Package jsp (JSON persistence) provides utilities to store and load arbitrary
// JSON-encoded structures with optional checksumming and compression.
/*
 * Copyright (c) 2021-2026, NVIDIA CORPORATION. All rights reserved.
 */
package jsp

import "fmt"

type (
	ErrBadSignature struct {
		tag      string
		got      string
		expected string
	}
	ErrUnsupportedVersion struct {
		tag      string
		got      byte
		expected byte
	}
	ErrBadCksum struct {
		tag      string
		got      uint64
		expected uint64
	}
)

func (e *ErrBadSignature) Error() string {
	return fmt.Sprintf("bad signature %q: got %q, expected %q", e.tag, e.got, e.expected)
}

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported jsp version %q: got %d, expected %d", e.tag, e.got, e.expected)
}

func (e *ErrBadCksum) Error() string {
	return fmt.Sprintf("bad checksum %q: got %x, expected %x", e.tag, e.got, e.expected)
}
