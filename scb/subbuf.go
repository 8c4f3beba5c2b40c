/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package scb

import (
	"io"
	"slices"
	"weak"

	"github.com/graceframework/grace-framework-sub000/cmn/cos"
	"github.com/graceframework/grace-framework-sub000/cmn/nlog"
	"github.com/graceframework/grace-framework-sub000/codec"
)

// subChunk embeds a child buffer, optionally to be encoded with encoders when read
type subChunk struct {
	child    *Buffer
	encoders []codec.Encoder
	snap     *Buffer // encoded snapshot of the child
	snapAt   uint64  // child.changes+1 when taken
	sz       int
	szAt     uint64
}

func (c *subChunk) encoded() *Buffer {
	if len(c.encoders) == 0 {
		return c.child
	}
	if c.snap == nil || c.snapAt != c.child.changes+1 || len(c.child.dynamic) > 0 {
		c.snap = c.child.EncodeToBuffer(c.encoders...)
		c.snapAt = c.child.changes + 1
	}
	return c.snap
}

func (c *subChunk) size() int {
	// the child's counter covers its own content only when it embeds nothing
	if c.szAt == c.child.changes+1 && len(c.child.dynamic) == 0 {
		return c.sz
	}
	c.sz = int(c.encoded().Size())
	c.szAt = c.child.changes + 1
	return c.sz
}

func (c *subChunk) writeTo(w io.Writer) (int64, error) { return c.encoded().writeRaw(w) }

func (c *subChunk) encodeTo(app codec.EncodedAppender, enc codec.Encoder) error {
	return c.encoded().EncodeTo(app, enc)
}

func (c *subChunk) newCursor() cursor { return &stringCursor{s: c.encoded().String()} }

// WriteBuffer writes child into b: embedded zero-copy (and encoded lazily with
// encoders, if any) when large enough, otherwise encoded and copied.
func (b *Buffer) WriteBuffer(child *Buffer, encoders ...codec.Encoder) error {
	if child == nil {
		return cos.NewErrInvalidArg("buffer", "nil")
	}
	if child == b {
		return ErrSelfWrite
	}
	if child.leadsTo(b) || b.streamsInto(child) {
		return ErrCyclicWrite
	}
	if b.shouldEmbed(child) {
		b.embed(child, encoders)
		return nil
	}
	return b.inline(child, encoders)
}

func (b *Buffer) shouldEmbed(child *Buffer) bool {
	if !b.allowSubBuffers || b.IsConnected() || child.IsConnected() {
		return false
	}
	if child.preferSubChunk {
		return true
	}
	size := child.Size()
	return size >= int64(b.conf.SubBufferChunkMinSize) && b.isNextChunkBigEnough(int(size))
}

func (b *Buffer) embed(child *Buffer, encoders []codec.Encoder) {
	b.markChanged()
	b.commitTail()
	sc := &subChunk{child: child}
	if len(encoders) > 0 {
		sc.encoders = slices.Clone(encoders)
	}
	b.appendNode(sc)
	child.addParent(b)
	b.tracker.Inc(StatSubBufCount)
}

func (b *Buffer) inline(child *Buffer, encoders []codec.Encoder) error {
	src := child
	if len(encoders) > 0 {
		src = child.EncodeToBuffer(encoders...)
	}
	b.tracker.Inc(StatInlineCount)
	return src.EncodeTo(b.EncodedAppender(), nil)
}

// leadsTo: x is reachable from b through embedded sub-buffers or connected writers
func (b *Buffer) leadsTo(x *Buffer) bool {
	if b == x {
		return true
	}
	for sc := range b.dynamic {
		if sc.child.leadsTo(x) {
			return true
		}
	}
	for _, t := range b.targets {
		if tb, _, ok := bufferOf(t.w); ok && tb.leadsTo(x) {
			return true
		}
	}
	return false
}

// streamsInto: content flushed by b ends up in a buffer that x leads to
func (b *Buffer) streamsInto(x *Buffer) bool {
	for _, t := range b.targets {
		if tb, _, ok := bufferOf(t.w); ok && tb.receivedBy(x) {
			return true
		}
	}
	return false
}

// receivedBy: writing into b (directly or down its connected chain) changes x
func (b *Buffer) receivedBy(x *Buffer) bool { return x.leadsTo(b) || b.streamsInto(x) }

/////////////
// parents //
/////////////

func (b *Buffer) addParent(p *Buffer) {
	if b.parents == nil {
		b.parents = make(map[uint64]weak.Pointer[Buffer], 2)
	} else {
		b.pruneParents()
	}
	b.parents[p.id] = weak.Make(p)
}

func (b *Buffer) pruneParents() {
	for id, wp := range b.parents {
		if wp.Value() == nil {
			delete(b.parents, id)
		}
	}
}

// NumParents is the number of live buffers embedding this one.
func (b *Buffer) NumParents() int {
	b.pruneParents()
	return len(b.parents)
}

// notify visits each live parent, invalidating its cached sizes
func (b *Buffer) notify() {
	for id, wp := range b.parents {
		p := wp.Value()
		if p == nil {
			delete(b.parents, id)
			continue
		}
		p.dynSize = -1
		p.markChanged()
	}
}

// unregisterChild: sc was removed from b.dynamic
func (b *Buffer) unregisterChild(sc *subChunk) {
	for other := range b.dynamic {
		if other.child == sc.child {
			return
		}
	}
	delete(sc.child.parents, b.id)
}

func (b *Buffer) detachChildren() {
	if len(b.dynamic) == 0 {
		return
	}
	for sc := range b.dynamic {
		delete(sc.child.parents, b.id)
	}
	clear(b.dynamic)
	if nlog.FastV(5, nlog.SmoduleSCB) {
		nlog.Infoln("buffer", b.id, "detached sub-buffers")
	}
}
