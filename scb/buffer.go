/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package scb

import (
	"strings"
	"sync/atomic"
	"weak"

	"github.com/graceframework/grace-framework-sub000/cmn"
	"github.com/graceframework/grace-framework-sub000/cmn/debug"
	"github.com/graceframework/grace-framework-sub000/codec"
)

// stats names
const (
	StatChunkCount  = "scb.chunk.n"
	StatChunkSize   = "scb.chunk.size"
	StatFlushCount  = "scb.flush.n"
	StatFlushSize   = "scb.flush.size"
	StatDirectCount = "scb.direct.n"
	StatSubBufCount = "scb.subbuf.n"
	StatInlineCount = "scb.inline.n"
	StatEncodeCount = "scb.encode.n"
	StatResetCount  = "scb.reset.n"
)

var StatNames = []string{
	StatChunkCount, StatChunkSize, StatFlushCount, StatFlushSize, StatDirectCount,
	StatSubBufCount, StatInlineCount, StatEncodeCount, StatResetCount,
}

type (
	// Tracker receives buffer activity counters (see package stats)
	Tracker interface {
		Add(name string, val int64)
		Inc(name string)
	}
	Option func(*Buffer)

	// Buffer is a streaming char buffer: an ordered list of immutable chunks followed
	// by a mutable tail. Not thread-safe: one goroutine writes, reads, and flushes.
	Buffer struct {
		registry *codec.Registry
		defEnc   codec.Encoder
		tracker  Tracker
		first    *node
		last     *node
		tail     *allocBuffer
		// sub-buffer chunks in the list, and weak references to the buffers embedding this one
		dynamic map[*subChunk]struct{}
		parents map[uint64]weak.Pointer[Buffer]
		// connected writers (streaming mode)
		targets   []*target
		consuming *Reader
		strCache  string
		conf      cmn.BufferConf
		id        uint64
		changes   uint64
		seq       uint64 // last committed node
		resets    uint64
		strAt     uint64 // strCache valid when strAt == changes+1
		// growth
		chunkSize      int
		totalChunkSize int
		// sizes: static chunks in the list, and sub-buffer chunks (-1: recompute)
		totalInList int64
		dynSize     int64
		nreaders    int

		allowSubBuffers bool
		notifyParents   bool
		preferSubChunk  bool
	}
)

var idCounter atomic.Uint64

func nextID() uint64 { return idCounter.Add(1) }

type nopTracker struct{}

func (nopTracker) Add(string, int64) {}
func (nopTracker) Inc(string)        {}

func WithTracker(t Tracker) Option { return func(b *Buffer) { b.tracker = t } }

func WithRegistry(r *codec.Registry) Option { return func(b *Buffer) { b.registry = r } }

// WithDefaultEncoder sets the codec of DefaultWriter.
func WithDefaultEncoder(enc codec.Encoder) Option { return func(b *Buffer) { b.defEnc = enc } }

// WithPreferSubChunk: embed this buffer into others regardless of its size.
func WithPreferSubChunk(prefer bool) Option { return func(b *Buffer) { b.preferSubChunk = prefer } }

// New creates a buffer; nil conf means cmn.DefaultBufferConf().
func New(conf *cmn.BufferConf, opts ...Option) *Buffer {
	b := &Buffer{id: nextID()}
	if conf == nil {
		b.conf = cmn.DefaultBufferConf()
	} else {
		b.conf = *conf
	}
	b.conf.ChunkSize = max(b.conf.ChunkSize, 1)
	b.conf.MaxChunkSize = max(b.conf.MaxChunkSize, b.conf.ChunkSize)
	b.chunkSize = b.conf.ChunkSize
	b.allowSubBuffers = !b.conf.DisableSubBuffers
	b.notifyParents = !b.conf.DisableNotifyParents
	b.tracker = nopTracker{}
	b.registry = codec.Default
	for _, opt := range opts {
		opt(b)
	}
	if b.defEnc == nil {
		b.defEnc = codec.HTML
	}
	b.tail = newAlloc(b.chunkSize, nil)
	return b
}

// FromConfig creates a buffer with the configured tunables and default codec.
func FromConfig(config *cmn.Config, opts ...Option) (*Buffer, error) {
	b := New(&config.Buffer, opts...)
	enc, err := b.registry.MustLookup(config.Codec.Default)
	if err != nil {
		return nil, err
	}
	b.defEnc = enc
	return b, nil
}

// derive creates an empty buffer sharing b's configuration and options
func (b *Buffer) derive() *Buffer {
	return New(&b.conf, WithRegistry(b.registry), WithDefaultEncoder(b.defEnc), WithTracker(b.tracker))
}

func (b *Buffer) ID() uint64                    { return b.id }
func (b *Buffer) Conf() cmn.BufferConf          { return b.conf }
func (b *Buffer) Registry() *codec.Registry     { return b.registry }
func (b *Buffer) DefaultEncoder() codec.Encoder { return b.defEnc }

// Changes is the change counter, incremented on every mutation (including
// those of embedded sub-buffers while parent notification is in effect).
func (b *Buffer) Changes() uint64 { return b.changes }

func (b *Buffer) IsConnected() bool { return len(b.targets) > 0 }

func (b *Buffer) SetAllowSubBuffers(v bool) { b.allowSubBuffers = v }
func (b *Buffer) SetNotifyParents(v bool)   { b.notifyParents = v }
func (b *Buffer) SetPreferSubChunk(v bool)  { b.preferSubChunk = v }

// NumChunks is the number of committed chunks (the tail excluded)
func (b *Buffer) NumChunks() (n int) {
	for nd := b.first; nd != nil; nd = nd.next {
		n++
	}
	return
}

// TailSize is the number of pending (not yet committed) bytes
func (b *Buffer) TailSize() int { return b.tail.pending() }

// Size is the number of bytes a full read yields.
func (b *Buffer) Size() int64 {
	return b.totalInList + b.dynamicSize() + int64(b.tail.pending())
}

func (b *Buffer) IsEmpty() bool {
	if b.totalInList > 0 || b.tail.hasChunk() {
		return false
	}
	return b.dynamicSize() == 0
}

func (b *Buffer) dynamicSize() int64 {
	if len(b.dynamic) == 0 {
		return 0
	}
	if b.dynSize < 0 || b.hasSilent() {
		var total int64
		for sc := range b.dynamic {
			total += int64(sc.size())
		}
		b.dynSize = total
	}
	return b.dynSize
}

// embedded children that won't notify: connected, or notification turned off
func (b *Buffer) hasSilent() bool {
	for sc := range b.dynamic {
		if !sc.child.notifyParents {
			return true
		}
	}
	return false
}

// String is cached until the next change, and only while no reader is open.
func (b *Buffer) String() string {
	if b.strAt == b.changes+1 && len(b.dynamic) == 0 {
		return b.strCache
	}
	var sb strings.Builder
	sb.Grow(int(b.Size()))
	b.writeRaw(&sb)
	s := sb.String()
	if b.nreaders == 0 {
		b.strCache, b.strAt = s, b.changes+1
	}
	return s
}

// Bytes returns a copy of the content.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, 0, b.Size())
	for nd := b.first; nd != nil; nd = nd.next {
		switch c := nd.body.(type) {
		case *arrayChunk:
			out = append(out, c.buf...)
		case *stringChunk:
			out = append(out, c.s...)
		case *subChunk:
			out = append(out, c.encoded().Bytes()...)
		}
	}
	return append(out, b.tail.bytes()...)
}

// Reset empties the buffer; resetChunkSize also drops the grown chunk size.
// Parents are not notified (see Clear).
func (b *Buffer) Reset(resetChunkSize bool) {
	b.detachChildren()
	b.first, b.last = nil, nil
	b.totalInList, b.dynSize = 0, 0
	if resetChunkSize {
		b.chunkSize, b.totalChunkSize = b.conf.ChunkSize, 0
	}
	// readers may still hold chunks referencing the tail array
	if b.nreaders > 0 || b.tail.capacity() != b.chunkSize {
		b.tail = newAlloc(b.chunkSize, nil)
	} else {
		b.tail.reuse(nil)
	}
	b.resets++
	b.changes++
	b.strCache, b.strAt = "", 0
	b.tracker.Inc(StatResetCount)
}

// Clear is Reset(false) followed by parent notification.
func (b *Buffer) Clear() {
	b.Reset(false)
	b.notify()
}

////////////////
// chunk list //
////////////////

func (b *Buffer) appendNode(c chunk) {
	b.seq++
	nd := &node{body: c, seq: b.seq, prev: b.last}
	if b.last == nil {
		b.first = nd
	} else {
		b.last.next = nd
	}
	b.last = nd
	if sc, ok := c.(*subChunk); ok {
		if b.dynamic == nil {
			b.dynamic = make(map[*subChunk]struct{}, 4)
		}
		b.dynamic[sc] = struct{}{}
		b.dynSize = -1
		return
	}
	sz := c.size()
	b.totalInList += int64(sz)
	b.tracker.Inc(StatChunkCount)
	b.tracker.Add(StatChunkSize, int64(sz))
}

// unlinkFirst drops the head after it was consumed or streamed out;
// nd.next stays intact for readers positioned on nd
func (b *Buffer) unlinkFirst(nd *node) {
	debug.Assert(b.first == nd)
	b.first = nd.next
	if b.first == nil {
		b.last = nil
	} else {
		b.first.prev = nil
	}
	if sc, ok := nd.body.(*subChunk); ok {
		delete(b.dynamic, sc)
		b.dynSize = -1
		b.unregisterChild(sc)
	} else {
		b.totalInList -= int64(nd.body.size())
	}
	b.markChanged()
}

// commitTail freezes pending tail content into a chunk
func (b *Buffer) commitTail() {
	if b.tail.hasChunk() {
		b.appendNode(b.tail.createChunk())
	}
}

// markChanged: called on every mutation
func (b *Buffer) markChanged() {
	b.changes++
	if b.notifyParents && len(b.parents) > 0 && !b.IsConnected() {
		b.notify()
	}
}

// growChunkSize grows the next tail by GrowPercent of the total allocated so far
func (b *Buffer) growChunkSize() {
	grow := b.conf.GrowPercent
	switch {
	case grow <= 0:
	case grow == 100:
		b.chunkSize = min(b.totalChunkSize, b.conf.MaxChunkSize)
	case grow == 200:
		b.chunkSize = min(b.totalChunkSize<<1, b.conf.MaxChunkSize)
	default:
		b.chunkSize = min(b.totalChunkSize*grow/100, b.conf.MaxChunkSize)
	}
	b.chunkSize = max(b.chunkSize, b.conf.ChunkSize)
}
