//go:build deadbeef

/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package memsys

const deadBEEF = "DEADBEEF"

// fill freed chunks to catch use-after-free
func deadbeef(b []byte) {
	b = b[:cap(b)]
	for i := 0; i < len(b); i += len(deadBEEF) {
		copy(b[i:], deadBEEF)
	}
}
