/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package codec

import (
	"io"
)

type (
	// EncodedAppender receives text tagged with the state it is already in.
	// Implementations encode with enc unless state.ShouldEncodeWith(enc) is false;
	// a nil enc passes the text (and its state) through.
	EncodedAppender interface {
		Append(enc Encoder, state *State, p []byte) error
		AppendString(enc Encoder, state *State, s string) error
		Flush() error
	}
	// AppenderProvider is the optional capability of a downstream writer that
	// wants tagged content instead of flattened text.
	AppenderProvider interface {
		EncodedAppender() EncodedAppender
	}
	flusher interface {
		Flush() error
	}

	// WriterAppender flattens tagged content into a plain io.Writer.
	WriterAppender struct {
		w   io.Writer
		buf []byte
	}
)

// interface guard
var _ EncodedAppender = (*WriterAppender)(nil)

func NewWriterAppender(w io.Writer) *WriterAppender { return &WriterAppender{w: w} }

func (a *WriterAppender) Writer() io.Writer { return a.w }

func (a *WriterAppender) Append(enc Encoder, state *State, p []byte) (err error) {
	if len(p) == 0 {
		return nil
	}
	if state.ShouldEncodeWith(enc) {
		a.buf = enc.AppendEncoded(a.buf[:0], p)
		_, err = a.w.Write(a.buf)
		return
	}
	_, err = a.w.Write(p)
	return
}

func (a *WriterAppender) AppendString(enc Encoder, state *State, s string) (err error) {
	if s == "" {
		return nil
	}
	if state.ShouldEncodeWith(enc) {
		a.buf = enc.AppendEncodedString(a.buf[:0], s)
		_, err = a.w.Write(a.buf)
		return
	}
	_, err = io.WriteString(a.w, s)
	return
}

func (a *WriterAppender) Flush() error {
	if f, ok := a.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}
