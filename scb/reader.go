/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package scb

import (
	"io"

	"github.com/graceframework/grace-framework-sub000/cmn/nlog"
)

// Reader is an independent cursor over the buffer's content. Reading and writing may
// interleave (same goroutine): text written after the reader reached the end becomes
// readable on the next Read. A remove-after-reading (consuming) reader releases what
// it has read; only one may be active at a time.
//
// When positioned in the tail the reader remembers (allocID, generation, offset) and
// the sequence number of the last committed chunk; a change in either means the
// position has moved into committed chunks (or was streamed out) and is resynchronized.
type Reader struct {
	b      *Buffer
	node   *node // nil: reading the tail
	cc     cursor
	n      int64
	tid    uint64
	tgen   uint64
	seq    uint64
	resets uint64
	tpos   int
	remove bool
	closed bool
}

// interface guard
var (
	_ io.ReadCloser = (*Reader)(nil)
	_ io.ByteReader = (*Reader)(nil)
)

func (b *Buffer) Reader(removeAfterReading bool) (*Reader, error) {
	if removeAfterReading && b.consuming != nil {
		return nil, ErrConsumingReader
	}
	r := &Reader{b: b, remove: removeAfterReading}
	if removeAfterReading {
		b.consuming = r
	}
	b.nreaders++
	r.restart()
	return r, nil
}

// Consumed is the number of bytes read so far.
func (r *Reader) Consumed() int64 { return r.n }

func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.b.nreaders--
	if r.b.consuming == r {
		r.b.consuming = nil
	}
	return nil
}

func (r *Reader) ReadByte() (byte, error) {
	var a [1]byte
	if _, err := r.Read(a[:]); err != nil {
		return 0, err
	}
	return a[0], nil
}

func (r *Reader) Read(p []byte) (n int, err error) {
	if r.closed {
		return 0, errReaderClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	b := r.b
	if r.resets != b.resets {
		r.restart()
	}
	for n < len(p) {
		if r.node != nil {
			if !r.nodeValid() {
				r.resync()
				continue
			}
			n += r.cc.read(p[n:])
			if r.cc.left() == 0 {
				r.advance()
			}
			continue
		}
		if !r.tailValid() {
			if r.resync(); r.node != nil {
				continue
			}
		}
		t := b.tail
		if r.tpos >= t.used {
			break
		}
		m := copy(p[n:], t.buf[r.tpos:t.used])
		r.tpos += m
		n += m
		if r.remove {
			t.chunkStart = r.tpos
			b.markChanged()
		}
	}
	r.n += int64(n)
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (r *Reader) restart() {
	r.resets = r.b.resets
	if r.b.first != nil {
		r.enter(r.b.first)
	} else {
		r.toTail()
	}
}

func (r *Reader) enter(nd *node) {
	r.node, r.cc = nd, nd.body.newCursor()
}

func (r *Reader) enterAt(nd *node, ac *arrayChunk, off int) {
	r.node, r.cc = nd, &bytesCursor{b: ac.buf, pos: off}
}

func (r *Reader) toTail() {
	t := r.b.tail
	r.node, r.cc = nil, nil
	r.tid, r.tgen, r.tpos = t.id, t.gen, t.chunkStart
	r.seq = r.b.seq
}

// advance past the current (exhausted) node
func (r *Reader) advance() {
	b, nd := r.b, r.node
	if r.remove && b.first == nd {
		b.unlinkFirst(nd)
	}
	next := nd.next
	if next == nil && b.last != nd && b.first != nil && b.first.seq > nd.seq {
		// nd was streamed out and new chunks followed
		next = b.first
	}
	if next != nil {
		r.enter(next)
	} else {
		r.toTail()
	}
}

func (r *Reader) nodeValid() bool {
	if ac, ok := r.node.body.(*arrayChunk); ok {
		return ac.valid(r.b.tail)
	}
	return true
}

func (r *Reader) tailValid() bool {
	t := r.b.tail
	return t.id == r.tid && t.gen == r.tgen && r.seq == r.b.seq && r.tpos >= t.chunkStart
}

// resync finds the reader's true position after its tail region got committed
// (or its array reused), walking back through the chunks committed since
func (r *Reader) resync() {
	b := r.b
	if nlog.FastV(5, nlog.SmoduleSCB) {
		nlog.Infof("buffer %d: reader resync (alloc %d gen %d pos %d)", b.id, r.tid, r.tgen, r.tpos)
	}
	if r.node != nil {
		// the chunk was streamed out and its array reused
		if b.first != nil {
			r.enter(b.first)
		} else {
			r.toTail()
		}
		return
	}
	var next *node
	for nd := b.last; nd != nil && nd.seq > r.seq; nd = nd.prev {
		if ac, ok := nd.body.(*arrayChunk); ok && ac.allocID == r.tid && ac.gen == r.tgen {
			end := ac.off + len(ac.buf)
			if r.tpos >= end {
				break
			}
			if r.tpos >= ac.off {
				r.enterAt(nd, ac, r.tpos-ac.off)
				return
			}
		}
		next = nd
	}
	if next != nil {
		r.enter(next)
		return
	}
	t := b.tail
	if t.id == r.tid && t.gen == r.tgen && r.tpos >= t.chunkStart {
		r.seq = b.seq
		return
	}
	r.toTail()
}
