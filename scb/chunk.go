/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package scb

import (
	"io"

	"github.com/graceframework/grace-framework-sub000/codec"
)

type (
	// node links committed chunks; seq is the commit order within the buffer
	node struct {
		next, prev *node
		body       chunk
		seq        uint64
	}

	// chunk variants: *arrayChunk, *stringChunk, *subChunk
	chunk interface {
		size() int
		writeTo(w io.Writer) (int64, error)
		encodeTo(app codec.EncodedAppender, enc codec.Encoder) error
		newCursor() cursor
	}

	// read position within a chunk
	cursor interface {
		read(p []byte) int
		left() int
	}

	// frozen region [off, off+len(buf)) of the tail identified by (allocID, gen)
	arrayChunk struct {
		buf     []byte
		state   *codec.State
		allocID uint64
		gen     uint64
		off     int
	}

	// immutable string; parts, when present, tag consecutive regions
	stringChunk struct {
		s     string
		state *codec.State
		parts []part
	}
	part struct {
		state *codec.State
		n     int
	}

	bytesCursor struct {
		b   []byte
		pos int
	}
	stringCursor struct {
		s   string
		pos int
	}
)

// interface guard
var (
	_ chunk = (*arrayChunk)(nil)
	_ chunk = (*stringChunk)(nil)
	_ chunk = (*subChunk)(nil)

	_ cursor = (*bytesCursor)(nil)
	_ cursor = (*stringCursor)(nil)
)

////////////////
// arrayChunk //
////////////////

func (c *arrayChunk) size() int { return len(c.buf) }

func (c *arrayChunk) writeTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.buf)
	return int64(n), err
}

func (c *arrayChunk) encodeTo(app codec.EncodedAppender, enc codec.Encoder) error {
	return app.Append(enc, c.state, c.buf)
}

func (c *arrayChunk) newCursor() cursor { return &bytesCursor{b: c.buf} }

// the region is intact unless its tail array was reused since
func (c *arrayChunk) valid(t *allocBuffer) bool { return c.allocID != t.id || c.gen == t.gen }

/////////////////
// stringChunk //
/////////////////

func (c *stringChunk) size() int { return len(c.s) }

func (c *stringChunk) writeTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, c.s)
	return int64(n), err
}

func (c *stringChunk) encodeTo(app codec.EncodedAppender, enc codec.Encoder) error {
	if c.parts == nil {
		return app.AppendString(enc, c.state, c.s)
	}
	var off int
	for _, p := range c.parts {
		if err := app.AppendString(enc, p.state, c.s[off:off+p.n]); err != nil {
			return err
		}
		off += p.n
	}
	return nil
}

func (c *stringChunk) newCursor() cursor { return &stringCursor{s: c.s} }

// each part with its state; a single-state chunk is one part
func (c *stringChunk) eachPart(cb func(state *codec.State, n int)) {
	if c.parts == nil {
		cb(c.state, len(c.s))
		return
	}
	for _, p := range c.parts {
		cb(p.state, p.n)
	}
}

/////////////
// cursors //
/////////////

func (c *bytesCursor) read(p []byte) int {
	n := copy(p, c.b[c.pos:])
	c.pos += n
	return n
}

func (c *bytesCursor) left() int { return len(c.b) - c.pos }

func (c *stringCursor) read(p []byte) int {
	n := copy(p, c.s[c.pos:])
	c.pos += n
	return n
}

func (c *stringCursor) left() int { return len(c.s) - c.pos }
