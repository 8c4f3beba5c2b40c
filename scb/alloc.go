/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package scb

import (
	"github.com/graceframework/grace-framework-sub000/cmn/cos"
	"github.com/graceframework/grace-framework-sub000/codec"
)

const errOverflow = "tail overflow"

// allocBuffer is the mutable tail: content before chunkStart is already
// frozen into chunks (or streamed out), [chunkStart, used) is pending.
type allocBuffer struct {
	buf        []byte
	state      *codec.State
	id         uint64
	gen        uint64 // bumped on reuse
	used       int
	chunkStart int
}

func newAlloc(size int, state *codec.State) *allocBuffer {
	return &allocBuffer{buf: make([]byte, size), state: state, id: nextID()}
}

func (t *allocBuffer) capacity() int  { return len(t.buf) }
func (t *allocBuffer) space() int     { return len(t.buf) - t.used }
func (t *allocBuffer) pending() int   { return t.used - t.chunkStart }
func (t *allocBuffer) hasChunk() bool { return t.used > t.chunkStart }
func (t *allocBuffer) bytes() []byte  { return t.buf[t.chunkStart:t.used] }

// needsBoundary: pending content was written under a different state
func (t *allocBuffer) needsBoundary(state *codec.State) bool {
	return t.hasChunk() && !t.state.Equal(state)
}

func (t *allocBuffer) setState(state *codec.State) error {
	if t.needsBoundary(state) {
		return ErrEncodingTransition
	}
	t.state = state
	return nil
}

func (t *allocBuffer) write(state *codec.State, p []byte) error {
	if err := t.setState(state); err != nil {
		return err
	}
	if len(p) > t.space() {
		cos.AssertMsg(false, errOverflow)
	}
	t.used += copy(t.buf[t.used:], p)
	return nil
}

func (t *allocBuffer) writeString(state *codec.State, s string) error {
	if err := t.setState(state); err != nil {
		return err
	}
	if len(s) > t.space() {
		cos.AssertMsg(false, errOverflow)
	}
	t.used += copy(t.buf[t.used:], s)
	return nil
}

func (t *allocBuffer) writeByte(state *codec.State, c byte) error {
	if err := t.setState(state); err != nil {
		return err
	}
	cos.Assert(t.used < len(t.buf))
	t.buf[t.used] = c
	t.used++
	return nil
}

// createChunk freezes the pending region
func (t *allocBuffer) createChunk() *arrayChunk {
	c := &arrayChunk{
		buf:     t.buf[t.chunkStart:t.used:t.used],
		state:   t.state,
		allocID: t.id,
		gen:     t.gen,
		off:     t.chunkStart,
	}
	t.chunkStart = t.used
	return c
}

// reuse drops everything; only when no chunk references the array
func (t *allocBuffer) reuse(state *codec.State) {
	t.used, t.chunkStart = 0, 0
	t.gen++
	t.state = state
}
