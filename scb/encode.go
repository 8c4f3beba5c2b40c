/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package scb

import (
	"strings"

	"github.com/graceframework/grace-framework-sub000/codec"
)

type (
	// bufferAppender writes tagged text into a buffer, keeping the states;
	// enc (when set) applies to text appended without an encoder
	bufferAppender struct {
		b   *Buffer
		enc codec.Encoder
		buf []byte
		// last state transition
		from, to *codec.State
		via      codec.Encoder
	}
	// partsBuilder flattens tagged text into a single multi-part string chunk
	partsBuilder struct {
		buf   []byte
		parts []part
	}
)

// interface guard
var (
	_ codec.EncodedAppender = (*bufferAppender)(nil)
	_ codec.EncodedAppender = (*partsBuilder)(nil)
)

// EncodeTo walks the chunks passing each chunk's own state along, so that
// encoders already applied are not applied again. A nil enc passes text
// (and states) through as is.
func (b *Buffer) EncodeTo(app codec.EncodedAppender, enc codec.Encoder) error {
	for nd := b.first; nd != nil; nd = nd.next {
		if err := nd.body.encodeTo(app, enc); err != nil {
			return err
		}
	}
	if b.tail.hasChunk() {
		return app.Append(enc, b.tail.state, b.tail.bytes())
	}
	return nil
}

// EncodeToBuffer returns a new buffer holding the encoded and flattened result:
// one multi-part string chunk. Encoders apply in order.
func (b *Buffer) EncodeToBuffer(encoders ...codec.Encoder) *Buffer {
	if len(encoders) == 0 {
		return b.encodeOnce(nil)
	}
	src := b
	for _, enc := range encoders {
		src = src.encodeOnce(enc)
	}
	return src
}

func (b *Buffer) encodeOnce(enc codec.Encoder) *Buffer {
	pb := &partsBuilder{buf: make([]byte, 0, b.Size())}
	b.EncodeTo(pb, enc) //nolint:errcheck // never fails
	out := b.derive()
	if c := pb.chunk(); c != nil {
		out.appendNode(c)
	}
	b.tracker.Inc(StatEncodeCount)
	return out
}

func (b *Buffer) EncodeToString(enc codec.Encoder) string {
	var sb strings.Builder
	sb.Grow(int(b.Size()))
	b.EncodeTo(codec.NewWriterAppender(&sb), enc) //nolint:errcheck // strings.Builder does not fail
	return sb.String()
}

// EncodedAppender returns an appender writing into b.
func (b *Buffer) EncodedAppender() codec.EncodedAppender { return &bufferAppender{b: b} }

////////////////////
// bufferAppender //
////////////////////

func (a *bufferAppender) encoder(enc codec.Encoder) codec.Encoder {
	if enc == nil {
		return a.enc
	}
	return enc
}

// the state after applying enc; cached for the common run of equal states
func (a *bufferAppender) next(state *codec.State, enc codec.Encoder) *codec.State {
	if a.to == nil || a.from != state || a.via != enc {
		a.from, a.via, a.to = state, enc, state.Append(enc)
	}
	return a.to
}

func (a *bufferAppender) Append(enc codec.Encoder, state *codec.State, p []byte) error {
	enc = a.encoder(enc)
	if !state.ShouldEncodeWith(enc) {
		return a.b.writeBytes(state, p)
	}
	a.buf = enc.AppendEncoded(a.buf[:0], p)
	return a.b.writeBytes(a.next(state, enc), a.buf)
}

func (a *bufferAppender) AppendString(enc codec.Encoder, state *codec.State, s string) error {
	enc = a.encoder(enc)
	if !state.ShouldEncodeWith(enc) {
		return a.b.writeString(state, s)
	}
	a.buf = enc.AppendEncodedString(a.buf[:0], s)
	return a.b.writeBytes(a.next(state, enc), a.buf)
}

func (a *bufferAppender) Flush() error { return a.b.Flush() }

//////////////////
// partsBuilder //
//////////////////

func (pb *partsBuilder) add(state *codec.State, n int) {
	if n == 0 {
		return
	}
	if l := len(pb.parts); l > 0 && pb.parts[l-1].state.Equal(state) {
		pb.parts[l-1].n += n
		return
	}
	pb.parts = append(pb.parts, part{state: state, n: n})
}

func (pb *partsBuilder) Append(enc codec.Encoder, state *codec.State, p []byte) error {
	l := len(pb.buf)
	if state.ShouldEncodeWith(enc) {
		pb.buf = enc.AppendEncoded(pb.buf, p)
		state = state.Append(enc)
	} else {
		pb.buf = append(pb.buf, p...)
	}
	pb.add(state, len(pb.buf)-l)
	return nil
}

func (pb *partsBuilder) AppendString(enc codec.Encoder, state *codec.State, s string) error {
	l := len(pb.buf)
	if state.ShouldEncodeWith(enc) {
		pb.buf = enc.AppendEncodedString(pb.buf, s)
		state = state.Append(enc)
	} else {
		pb.buf = append(pb.buf, s...)
	}
	pb.add(state, len(pb.buf)-l)
	return nil
}

func (*partsBuilder) Flush() error { return nil }

func (pb *partsBuilder) chunk() *stringChunk {
	switch len(pb.parts) {
	case 0:
		return nil
	case 1:
		return &stringChunk{s: string(pb.buf), state: pb.parts[0].state}
	default:
		return &stringChunk{s: string(pb.buf), parts: pb.parts}
	}
}

// Parts returns the (state, length) runs of the content, in order; adjacent
// runs with equal states are merged.
func (b *Buffer) Parts() (states []*codec.State, lengths []int) {
	pb := &partsBuilder{}
	b.EncodeTo(pb, nil) //nolint:errcheck // never fails
	for _, p := range pb.parts {
		states = append(states, p.state)
		lengths = append(lengths, p.n)
	}
	return
}
