/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package scb

import (
	"io"

	"github.com/graceframework/grace-framework-sub000/cmn/cos"
	"github.com/graceframework/grace-framework-sub000/cmn/nlog"
	"github.com/graceframework/grace-framework-sub000/codec"
)

type (
	// connected writer; app is set when the writer wants tagged content
	target struct {
		w         io.Writer
		app       codec.EncodedAppender
		init      func() (io.Writer, error)
		autoFlush bool
	}
	flusher interface {
		Flush() error
	}
)

func (t *target) set(w io.Writer) {
	t.w = w
	if ap, ok := w.(codec.AppenderProvider); ok {
		t.app = ap.EncodedAppender()
	}
}

func (t *target) writeChunk(c chunk) (err error) {
	if t.app != nil {
		return c.encodeTo(t.app, nil)
	}
	_, err = c.writeTo(t.w)
	return
}

func (t *target) write(state *codec.State, p []byte, s string) (err error) {
	switch {
	case t.app != nil && p != nil:
		err = t.app.Append(nil, state, p)
	case t.app != nil:
		err = t.app.AppendString(nil, state, s)
	case p != nil:
		_, err = t.w.Write(p)
	default:
		_, err = io.WriteString(t.w, s)
	}
	return
}

func (t *target) flush() error {
	if f, ok := t.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// ConnectTo switches the buffer into streaming mode: from now on committed content
// is written to w (and all previously connected writers, in registration order)
// instead of being retained. Connecting disables parent notification.
func (b *Buffer) ConnectTo(w io.Writer, autoFlush bool) error {
	if w == nil {
		return cos.NewErrInvalidArg("writer", "nil")
	}
	if err := b.checkTarget(w); err != nil {
		return err
	}
	t := &target{autoFlush: autoFlush}
	t.set(w)
	b.connect(t)
	return nil
}

// ConnectToLazy is ConnectTo with the writer created upon the first flush.
func (b *Buffer) ConnectToLazy(init func() (io.Writer, error), autoFlush bool) error {
	if init == nil {
		return cos.NewErrInvalidArg("writer", "nil initializer")
	}
	b.connect(&target{init: init, autoFlush: autoFlush})
	return nil
}

func (b *Buffer) connect(t *target) {
	if !b.IsConnected() && b.notifyParents && len(b.parents) > 0 {
		// last notification
		b.notify()
	}
	b.notifyParents = false
	b.targets = append(b.targets, t)
}

// RemoveConnections stops streaming; content written from now on is retained.
func (b *Buffer) RemoveConnections() { b.targets = nil }

func (b *Buffer) checkTarget(w io.Writer) error {
	tb, _, ok := bufferOf(w)
	if !ok {
		return nil
	}
	if tb == b {
		return ErrSelfWrite
	}
	if tb.leadsTo(b) {
		return ErrCyclicWrite
	}
	// embedded content must not stream into itself
	for sc := range b.dynamic {
		if tb.receivedBy(sc.child) {
			return ErrCyclicWrite
		}
	}
	return nil
}

func (b *Buffer) resolve(t *target) error {
	if t.w != nil {
		return nil
	}
	w, err := t.init()
	if err != nil {
		return err
	}
	if w == nil {
		return cos.NewErrInvalidArg("writer", "lazy initializer returned nil")
	}
	if err := b.checkTarget(w); err != nil {
		return err
	}
	t.set(w)
	return nil
}

func (b *Buffer) resolveAll() error {
	for _, t := range b.targets {
		if err := b.resolve(t); err != nil {
			return err
		}
	}
	return nil
}

func (b *Buffer) encodeAware() bool {
	for _, t := range b.targets {
		if t.app != nil || t.w == nil {
			return true
		}
	}
	return false
}

// Flush streams everything pending to the connected writers and flushes them;
// a no-op for an unconnected buffer.
func (b *Buffer) Flush() error {
	if !b.IsConnected() {
		return nil
	}
	if err := b.flushConnected(); err != nil {
		return err
	}
	for _, t := range b.targets {
		if t.w == nil {
			continue // not yet created
		}
		if err := t.flush(); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes; connected writers are owned by the caller and stay open.
func (b *Buffer) Close() error { return b.Flush() }

// flushConnected writes committed chunks and the pending tail content to every target;
// writer errors are returned unchanged
func (b *Buffer) flushConnected() error {
	if b.first == nil && !b.tail.hasChunk() {
		return nil
	}
	var size int64
	if err := b.resolveAll(); err != nil {
		return err
	}
	for nd := b.first; nd != nil; nd = b.first {
		for _, t := range b.targets {
			if err := t.writeChunk(nd.body); err != nil {
				b.logWriteErr(err)
				return err
			}
		}
		size += int64(nd.body.size())
		b.unlinkFirst(nd)
	}
	if tail := b.tail; tail.hasChunk() {
		p := tail.bytes()
		for _, t := range b.targets {
			if err := t.write(tail.state, p, ""); err != nil {
				b.logWriteErr(err)
				return err
			}
		}
		size += int64(len(p))
		tail.chunkStart = tail.used
	}
	b.tail.reuse(b.tail.state)
	b.tracker.Inc(StatFlushCount)
	b.tracker.Add(StatFlushSize, size)
	return b.autoFlush()
}

// writeDirect bypasses the tail (after streaming out whatever precedes)
func (b *Buffer) writeDirect(state *codec.State, p []byte, s string) error {
	if err := b.flushConnected(); err != nil {
		return err
	}
	if err := b.resolveAll(); err != nil {
		return err
	}
	for _, t := range b.targets {
		if err := t.write(state, p, s); err != nil {
			b.logWriteErr(err)
			return err
		}
	}
	b.tracker.Inc(StatDirectCount)
	return b.autoFlush()
}

func (b *Buffer) autoFlush() error {
	for _, t := range b.targets {
		if !t.autoFlush {
			continue
		}
		if err := t.flush(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Buffer) logWriteErr(err error) {
	if nlog.FastV(4, nlog.SmoduleSCB) {
		nlog.Warningf("buffer %d: connected writer failed: %v", b.id, err)
	}
}
