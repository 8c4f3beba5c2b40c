// Package memsys provides chunked, growable byte buffers with io.Reader and io.Writer
// interfaces on top of pooled, reusable chunks.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package memsys

import (
	"math/bits"
	"sync"
	"sync/atomic"

	"github.com/graceframework/grace-framework-sub000/cmn/cos"
	"github.com/graceframework/grace-framework-sub000/cmn/debug"
)

// slab sizes: powers of two from MinChunkSize up to MaxChunkSize
const (
	MinChunkSize     = 256
	DefaultChunkSize = 8 * cos.KiB
	MaxChunkSize     = cos.MiB

	minShift = 8 // log2(MinChunkSize)
	numSlabs = 13
)

type (
	slab struct {
		pool sync.Pool
		size int
		hits atomic.Int64
	}
	// SlabStats is a point-in-time snapshot of slab usage
	SlabStats struct {
		Size int   `json:"size"`
		Hits int64 `json:"hits"`
	}
)

var slabs [numSlabs]slab

func init() {
	for i := range slabs {
		slabs[i].size = MinChunkSize << i
	}
	debug.Assert(slabs[numSlabs-1].size == MaxChunkSize)
}

// slab index for a given requested size (rounded up)
func slabIdx(size int) int {
	if size <= MinChunkSize {
		return 0
	}
	idx := bits.Len(uint(size-1)) - minShift
	return min(idx, numSlabs-1)
}

func allocChunk(size int) []byte {
	s := &slabs[slabIdx(size)]
	if v := s.pool.Get(); v != nil {
		s.hits.Add(1)
		b := v.(*[]byte)
		return (*b)[:0]
	}
	return make([]byte, 0, s.size)
}

func freeChunk(b []byte) {
	size := cap(b)
	idx := slabIdx(size)
	if slabs[idx].size != size {
		return // not ours
	}
	deadbeef(b)
	b = b[:0]
	slabs[idx].pool.Put(&b)
}

func Stats() []SlabStats {
	stats := make([]SlabStats, numSlabs)
	for i := range slabs {
		stats[i] = SlabStats{Size: slabs[i].size, Hits: slabs[i].hits.Load()}
	}
	return stats
}
