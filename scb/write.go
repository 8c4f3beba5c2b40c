/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package scb

import (
	"io"
	"unicode/utf8"

	"github.com/graceframework/grace-framework-sub000/cmn/cos"
	"github.com/graceframework/grace-framework-sub000/codec"
)

// Writer is a view writing into its buffer; an encoded writer applies its
// encoder and tags the written text with the resulting state.
type Writer struct {
	b       *Buffer
	enc     codec.Encoder
	state   *codec.State
	scratch []byte
}

// interface guard
var (
	_ io.Writer              = (*Buffer)(nil)
	_ io.StringWriter        = (*Buffer)(nil)
	_ io.ByteWriter          = (*Buffer)(nil)
	_ io.WriterTo            = (*Buffer)(nil)
	_ codec.AppenderProvider = (*Buffer)(nil)

	_ io.WriteCloser         = (*Writer)(nil)
	_ io.StringWriter        = (*Writer)(nil)
	_ io.ByteWriter          = (*Writer)(nil)
	_ codec.AppenderProvider = (*Writer)(nil)
)

// Writer returns a raw writer: text is tagged with the undefined state.
func (b *Buffer) Writer() *Writer { return &Writer{b: b} }

func (b *Buffer) EncodedWriter(enc codec.Encoder) *Writer {
	if enc == nil {
		return b.Writer()
	}
	return &Writer{b: b, enc: enc, state: codec.NewState(enc)}
}

// DefaultWriter is the encoded writer of the configured default codec.
func (b *Buffer) DefaultWriter() *Writer { return b.EncodedWriter(b.defEnc) }

////////////
// Buffer //
////////////

func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.writeBytes(nil, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (b *Buffer) WriteString(s string) (int, error) {
	if err := b.writeString(nil, s); err != nil {
		return 0, err
	}
	return len(s), nil
}

// WriteSubstring writes s[off:off+n] without copying when it makes its own chunk.
func (b *Buffer) WriteSubstring(s string, off, n int) error {
	if err := cos.CheckRange(off, n, len(s)); err != nil {
		return err
	}
	return b.writeString(nil, s[off:off+n])
}

// Append writes s[start:end].
func (b *Buffer) Append(s string, start, end int) error {
	if err := cos.CheckRange(start, end-start, len(s)); err != nil {
		return err
	}
	return b.writeString(nil, s[start:end])
}

func (b *Buffer) WriteByte(c byte) error { return b.writeByte(nil, c) }

func (b *Buffer) WriteRune(r rune) (int, error) {
	var a [utf8.UTFMax]byte
	n := utf8.EncodeRune(a[:], r)
	if err := b.writeBytes(nil, a[:n]); err != nil {
		return 0, err
	}
	return n, nil
}

// WriteTo writes the content into w: embedded when w is another buffer (or its writer),
// state-preserving when w provides an encoded appender, flattened otherwise.
// Returns the number of (unencoded) bytes.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	if tb, enc, ok := bufferOf(w); ok {
		if tb == b {
			return 0, ErrSelfWrite
		}
		size := b.Size()
		var err error
		if enc != nil {
			err = tb.WriteBuffer(b, enc)
		} else {
			err = tb.WriteBuffer(b)
		}
		if err != nil {
			return 0, err
		}
		return size, nil
	}
	if ap, ok := w.(codec.AppenderProvider); ok {
		size := b.Size()
		if err := b.EncodeTo(ap.EncodedAppender(), nil); err != nil {
			return 0, err
		}
		return size, nil
	}
	return b.writeRaw(w)
}

func bufferOf(w io.Writer) (*Buffer, codec.Encoder, bool) {
	switch w := w.(type) {
	case *Buffer:
		return w, nil, true
	case *Writer:
		return w.b, w.enc, true
	}
	return nil, nil, false
}

// writeRaw writes flattened content; sub-buffers with encoders are encoded
func (b *Buffer) writeRaw(w io.Writer) (n int64, err error) {
	var written int64
	for nd := b.first; nd != nil; nd = nd.next {
		written, err = nd.body.writeTo(w)
		n += written
		if err != nil {
			return
		}
	}
	if b.tail.hasChunk() {
		var m int
		m, err = w.Write(b.tail.bytes())
		n += int64(m)
	}
	return
}

////////////////
// write path //
////////////////

func (b *Buffer) writeBytes(state *codec.State, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	b.markChanged()
	if b.shouldWriteDirectly(len(p)) {
		return b.writeDirect(state, p, "")
	}
	for len(p) > 0 {
		space, err := b.allocateSpace(state)
		if err != nil {
			return err
		}
		n := min(space, len(p))
		if err := b.tail.write(state, p[:n]); err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

func (b *Buffer) writeString(state *codec.State, s string) error {
	if s == "" {
		return nil
	}
	b.markChanged()
	if b.shouldWriteDirectly(len(s)) {
		return b.writeDirect(state, nil, s)
	}
	if b.conf.SubStringChunkMinSize > 0 && len(s) >= b.conf.SubStringChunkMinSize && b.isNextChunkBigEnough(len(s)) {
		return b.appendString(state, s)
	}
	for s != "" {
		space, err := b.allocateSpace(state)
		if err != nil {
			return err
		}
		n := min(space, len(s))
		if err := b.tail.writeString(state, s[:n]); err != nil {
			return err
		}
		s = s[n:]
	}
	return nil
}

func (b *Buffer) writeByte(state *codec.State, c byte) error {
	b.markChanged()
	if _, err := b.allocateSpace(state); err != nil {
		return err
	}
	return b.tail.writeByte(state, c)
}

// appendString commits the tail and adds s as its own chunk
func (b *Buffer) appendString(state *codec.State, s string) error {
	b.commitTail()
	b.appendNode(&stringChunk{s: s, state: state})
	if b.IsConnected() {
		return b.flushConnected()
	}
	return nil
}

// allocateSpace returns the room left in the tail for text tagged with state,
// committing (or streaming out) pending content on encoding change and when full
func (b *Buffer) allocateSpace(state *codec.State) (int, error) {
	if b.tail.needsBoundary(state) {
		switch {
		case !b.IsConnected():
			b.commitTail()
		case b.encodeAware():
			if err := b.flushConnected(); err != nil {
				return 0, err
			}
		default:
			// flattened on flush anyway
			b.tail.state = state
		}
	}
	if space := b.tail.space(); space > 0 {
		return space, nil
	}
	if b.IsConnected() {
		if err := b.flushConnected(); err != nil {
			return 0, err
		}
	} else {
		b.commitTail()
	}
	b.totalChunkSize += b.tail.capacity()
	b.growChunkSize()
	if b.tail.used > 0 || b.chunkSize > b.tail.capacity() {
		b.tail = newAlloc(b.chunkSize, state)
	}
	return b.tail.space(), nil
}

func (b *Buffer) shouldWriteDirectly(n int) bool {
	if !b.IsConnected() {
		return false
	}
	minSize := b.conf.WriteDirectlyToConnectedMinSize
	if minSize < 0 || n < minSize {
		return false
	}
	return b.isNextChunkBigEnough(n)
}

func (b *Buffer) isNextChunkBigEnough(n int) bool { return n > b.newChunkMinSize() }

// newChunkMinSize: a barely used tail is better filled than committed
func (b *Buffer) newChunkMinSize() int {
	pending := b.tail.pending()
	if b.conf.ChunkMinSize <= 0 || pending == 0 || pending >= b.conf.ChunkMinSize {
		return 0
	}
	return b.tail.space()
}

////////////
// Writer //
////////////

func (w *Writer) Buffer() *Buffer        { return w.b }
func (w *Writer) Encoder() codec.Encoder { return w.enc }
func (w *Writer) Flush() error           { return w.b.Flush() }
func (w *Writer) Close() error           { return w.b.Close() }

func (w *Writer) EncodedAppender() codec.EncodedAppender {
	return &bufferAppender{b: w.b, enc: w.enc}
}

func (w *Writer) Write(p []byte) (int, error) {
	if w.enc == nil {
		return w.b.Write(p)
	}
	w.scratch = w.enc.AppendEncoded(w.scratch[:0], p)
	if err := w.b.writeBytes(w.state, w.scratch); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *Writer) WriteString(s string) (int, error) {
	if w.enc == nil {
		return w.b.WriteString(s)
	}
	var err error
	if w.b.conf.SubStringChunkMinSize > 0 && len(s) >= w.b.conf.SubStringChunkMinSize {
		err = w.b.writeString(w.state, codec.EncodeString(w.enc, s))
	} else {
		w.scratch = w.enc.AppendEncodedString(w.scratch[:0], s)
		err = w.b.writeBytes(w.state, w.scratch)
	}
	if err != nil {
		return 0, err
	}
	return len(s), nil
}

func (w *Writer) WriteByte(c byte) error {
	if w.enc == nil {
		return w.b.WriteByte(c)
	}
	_, err := w.Write([]byte{c})
	return err
}

func (w *Writer) WriteRune(r rune) (int, error) {
	var a [utf8.UTFMax]byte
	n := utf8.EncodeRune(a[:], r)
	return w.Write(a[:n])
}

// WriteBuffer embeds (or copies) child, applying the writer's encoder.
func (w *Writer) WriteBuffer(child *Buffer) error {
	if w.enc == nil {
		return w.b.WriteBuffer(child)
	}
	return w.b.WriteBuffer(child, w.enc)
}
