/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package memsys

import (
	"errors"
	"io"

	"github.com/graceframework/grace-framework-sub000/cmn/cos"
	"github.com/graceframework/grace-framework-sub000/cmn/debug"
	"github.com/graceframework/grace-framework-sub000/cmn/nlog"
)

type ReadMode int

const (
	// single-pass: consumed chunks are released back to the pool
	RemoveAfterReading ReadMode = iota
	// replayable: see Rewind
	RetainAfterReading
)

// interface guard
var (
	_ io.ReadWriter   = (*ByteBuffer)(nil)
	_ io.ByteScanner  = (*ByteBuffer)(nil)
	_ io.ByteWriter   = (*ByteBuffer)(nil)
	_ io.StringWriter = (*ByteBuffer)(nil)
	_ io.ReaderFrom   = (*ByteBuffer)(nil)
	_ io.WriterTo     = (*ByteBuffer)(nil)
	_ io.ReadSeeker   = (*Reader)(nil)
	_ io.WriterTo     = (*Reader)(nil)
)

var errNoRewind = errors.New("memsys: cannot rewind remove-after-reading buffer")

type (
	// ByteBuffer is a growable byte buffer built from fixed-size chunks;
	// writing never reallocates-and-copies. Not thread-safe.
	ByteBuffer struct {
		chunks    [][]byte // len(chunk) is the written part
		ridx      int      // current read chunk
		roff      int      // offset within chunks[ridx]
		written   int64    // total bytes written (since the last Clear)
		read      int64    // total bytes consumed
		released  int64    // bytes in chunks released after reading
		chunkSize int      // size of the next chunk to allocate
		maxChunk  int
		mode      ReadMode
	}
	// Reader reads retained content independently of the buffer's own read cursor.
	Reader struct {
		z    *ByteBuffer
		roff int64
	}
)

func NewByteBuffer(chunkSize int, mode ReadMode) *ByteBuffer {
	return NewByteBufferMax(chunkSize, MaxChunkSize, mode)
}

func NewByteBufferMax(chunkSize, maxChunkSize int, mode ReadMode) *ByteBuffer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	chunkSize = min(max(chunkSize, MinChunkSize), MaxChunkSize)
	maxChunkSize = min(max(maxChunkSize, chunkSize), MaxChunkSize)
	return &ByteBuffer{chunkSize: chunkSize, maxChunk: maxChunkSize, mode: mode}
}

func (z *ByteBuffer) Mode() ReadMode { return z.mode }

// Size is the number of bytes written and still retained
func (z *ByteBuffer) Size() int64 { return z.written - z.released }

// Len is the number of unread bytes (totalBytesUnread)
func (z *ByteBuffer) Len() int64 { return z.written - z.read }

func (z *ByteBuffer) NumChunks() int { return len(z.chunks) }

// grows on demand upon writing; chunk size doubles up to max
func (z *ByteBuffer) grow() []byte {
	b := allocChunk(z.chunkSize)
	z.chunks = append(z.chunks, b)
	if z.chunkSize < z.maxChunk {
		z.chunkSize = min(z.chunkSize*2, z.maxChunk)
	}
	return b
}

// returns the chunk being written to, growing when full
func (z *ByteBuffer) wchunk() []byte {
	if l := len(z.chunks); l > 0 {
		if last := z.chunks[l-1]; len(last) < cap(last) {
			return last
		}
	}
	return z.grow()
}

func (z *ByteBuffer) Write(p []byte) (n int, _ error) {
	for len(p) > 0 {
		b := z.wchunk()
		m := copy(b[len(b):cap(b)], p)
		z.chunks[len(z.chunks)-1] = b[:len(b)+m]
		p = p[m:]
		n += m
	}
	z.written += int64(n)
	return n, nil
}

func (z *ByteBuffer) WriteString(s string) (n int, _ error) {
	for len(s) > 0 {
		b := z.wchunk()
		m := copy(b[len(b):cap(b)], s)
		z.chunks[len(z.chunks)-1] = b[:len(b)+m]
		s = s[m:]
		n += m
	}
	z.written += int64(n)
	return n, nil
}

func (z *ByteBuffer) WriteByte(c byte) error {
	b := z.wchunk()
	z.chunks[len(z.chunks)-1] = append(b, c)
	z.written++
	return nil
}

// usage via io.Copy(z, source), whereby `z` reads from the `source` until EOF
func (z *ByteBuffer) ReadFrom(r io.Reader) (n int64, _ error) {
	for {
		b := z.wchunk()
		m, err := r.Read(b[len(b):cap(b)])
		z.chunks[len(z.chunks)-1] = b[:len(b)+m]
		z.written += int64(m)
		n += int64(m)
		if err != nil {
			if err == io.EOF {
				return n, nil
			}
			return n, err
		}
	}
}

// advance past fully-read chunks, releasing them in RemoveAfterReading mode
func (z *ByteBuffer) nextRead() bool {
	for z.ridx < len(z.chunks) {
		b := z.chunks[z.ridx]
		if z.roff < len(b) {
			return true
		}
		last := z.ridx == len(z.chunks)-1
		if last && len(b) < cap(b) {
			// still being written to
			if z.mode == RemoveAfterReading && z.roff == len(b) && z.roff > 0 {
				z.released += int64(len(b))
				z.chunks[z.ridx] = b[:0]
				z.roff = 0
			}
			return false
		}
		if z.mode == RemoveAfterReading {
			z.released += int64(len(b))
			freeChunk(b)
			z.chunks[0] = nil
			z.chunks = z.chunks[1:]
			debug.Assert(z.ridx == 0)
		} else {
			z.ridx++
		}
		z.roff = 0
	}
	return false
}

func (z *ByteBuffer) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	for n < len(p) && z.nextRead() {
		b := z.chunks[z.ridx]
		m := copy(p[n:], b[z.roff:])
		z.roff += m
		n += m
	}
	z.read += int64(n)
	if n == 0 {
		err = io.EOF
	}
	return
}

func (z *ByteBuffer) ReadByte() (byte, error) {
	if !z.nextRead() {
		return 0, io.EOF
	}
	c := z.chunks[z.ridx][z.roff]
	z.roff++
	z.read++
	return c, nil
}

func (z *ByteBuffer) UnreadByte() error {
	if z.roff == 0 {
		return errors.New("memsys: cannot unread-byte at chunk boundary")
	}
	z.roff--
	z.read--
	return nil
}

// compliant io.WriterTo: writes all unread bytes
func (z *ByteBuffer) WriteTo(dst io.Writer) (n int64, _ error) {
	for z.nextRead() {
		b := z.chunks[z.ridx]
		p := b[z.roff:]
		written, err := dst.Write(p)
		z.roff += written
		z.read += int64(written)
		n += int64(written)
		if written < len(p) && err == nil {
			err = io.ErrShortWrite
		}
		if err != nil {
			if nlog.FastV(4, nlog.SmoduleMemsys) {
				nlog.Errorln(err)
			}
			return n, err
		}
	}
	return n, nil
}

// Bytes returns a copy of the unread bytes without consuming them
func (z *ByteBuffer) Bytes() []byte {
	out := make([]byte, 0, z.Len())
	for i := z.ridx; i < len(z.chunks); i++ {
		b := z.chunks[i]
		if i == z.ridx {
			b = b[z.roff:]
		}
		out = append(out, b...)
	}
	return out
}

func (z *ByteBuffer) String() string { return string(z.Bytes()) }

// ReadAll consumes the unread bytes
func (z *ByteBuffer) ReadAll() []byte {
	b := z.Bytes()
	z.skip(int64(len(b)))
	return b
}

func (z *ByteBuffer) skip(n int64) {
	for n > 0 && z.nextRead() {
		b := z.chunks[z.ridx]
		m := min(int64(len(b)-z.roff), n)
		z.roff += int(m)
		z.read += m
		n -= m
	}
	z.nextRead()
}

// Rewind replays retained content (RetainAfterReading only)
func (z *ByteBuffer) Rewind() error {
	if z.mode != RetainAfterReading {
		return errNoRewind
	}
	z.ridx, z.roff, z.read = 0, 0, 0
	return nil
}

// Clear drops all content but keeps the first chunk for reuse
func (z *ByteBuffer) Clear() {
	if len(z.chunks) == 0 {
		z.written, z.read, z.released = 0, 0, 0
		return
	}
	first := z.chunks[0][:0]
	for i := 1; i < len(z.chunks); i++ {
		freeChunk(z.chunks[i])
		z.chunks[i] = nil
	}
	z.chunks = append(z.chunks[:0], first)
	z.ridx, z.roff = 0, 0
	z.written, z.read, z.released = 0, 0, 0
}

// Free returns all chunks to the pool; the buffer remains usable.
func (z *ByteBuffer) Free() {
	for i, b := range z.chunks {
		freeChunk(b)
		z.chunks[i] = nil
	}
	z.chunks = z.chunks[:0]
	z.ridx, z.roff = 0, 0
	z.written, z.read, z.released = 0, 0, 0
}

// Open returns an independent Reader over retained content.
func (z *ByteBuffer) Open() *Reader {
	cos.Assert(z.mode == RetainAfterReading)
	return &Reader{z: z}
}

////////////
// Reader //
////////////

func (r *Reader) readAt(p []byte, off int64) (n int) {
	var pos int64
	for _, b := range r.z.chunks {
		l := int64(len(b))
		if off >= pos+l {
			pos += l
			continue
		}
		m := copy(p[n:], b[off-pos:])
		n += m
		off += int64(m)
		pos += l
		if n == len(p) {
			break
		}
	}
	return
}

func (r *Reader) Read(p []byte) (int, error) {
	if r.roff >= r.z.Size() {
		return 0, io.EOF
	}
	n := r.readAt(p, r.roff)
	r.roff += int64(n)
	return n, nil
}

func (r *Reader) WriteTo(dst io.Writer) (n int64, err error) {
	var pos int64
	for _, b := range r.z.chunks {
		l := int64(len(b))
		if r.roff >= pos+l {
			pos += l
			continue
		}
		var written int
		written, err = dst.Write(b[r.roff-pos:])
		n += int64(written)
		r.roff += int64(written)
		pos += l
		if err != nil {
			return
		}
	}
	return
}

func (r *Reader) Seek(from int64, whence int) (offset int64, err error) {
	switch whence {
	case io.SeekStart:
		offset = from
	case io.SeekCurrent:
		offset = r.roff + from
	case io.SeekEnd:
		offset = r.z.Size() + from
	default:
		return 0, errors.New("memsys: invalid whence")
	}
	if offset < 0 {
		return 0, errors.New("memsys: negative position")
	}
	r.roff = offset
	return
}
