/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package scb

import (
	"bytes"
	"encoding"
	"io"

	"github.com/graceframework/grace-framework-sub000/cmn/cos"
	"github.com/graceframework/grace-framework-sub000/codec"
	"github.com/graceframework/grace-framework-sub000/memsys"
	"github.com/pkg/errors"
	"github.com/tinylib/msgp/msgp"
)

// external form:
// version | content (string) | parts (array) of [length, encoders (array) of [name, safe]]
const ExternalVersion uint32 = 1

const maxCodecName = 256

// interface guard
var (
	_ encoding.BinaryMarshaler   = (*Buffer)(nil)
	_ encoding.BinaryUnmarshaler = (*Buffer)(nil)
)

// WriteExternal writes the flattened content with its encoding-state parts.
func (b *Buffer) WriteExternal(w io.Writer) error {
	flat := b.EncodeToBuffer()
	var (
		sc *stringChunk
		mw = msgp.NewWriter(w)
	)
	if flat.first != nil {
		sc = flat.first.body.(*stringChunk)
	} else {
		sc = &stringChunk{}
	}
	if err := mw.WriteUint32(ExternalVersion); err != nil {
		return err
	}
	if err := mw.WriteString(sc.s); err != nil {
		return err
	}
	nparts := 0
	if sc.s != "" {
		nparts = max(len(sc.parts), 1)
	}
	if err := mw.WriteArrayHeader(uint32(nparts)); err != nil {
		return err
	}
	var err error
	if nparts > 0 {
		sc.eachPart(func(state *codec.State, n int) {
			if err != nil {
				return
			}
			err = writePart(mw, state, n)
		})
	}
	if err != nil {
		return err
	}
	return mw.Flush()
}

func writePart(mw *msgp.Writer, state *codec.State, n int) error {
	if err := mw.WriteInt(n); err != nil {
		return err
	}
	encs := state.Encoders()
	if err := mw.WriteArrayHeader(uint32(len(encs))); err != nil {
		return err
	}
	for _, enc := range encs {
		if err := mw.WriteString(enc.Name()); err != nil {
			return err
		}
		if err := mw.WriteBool(enc.IsSafe()); err != nil {
			return err
		}
	}
	return nil
}

// ReadExternal replaces the content with the one read from r. Codec names are
// resolved via the buffer's registry; unknown ones are restored as state-only.
// A part with no encoders restores as undefined.
func (b *Buffer) ReadExternal(r io.Reader) error {
	mr := msgp.NewReader(r)
	mr.SetMaxStringLength(maxCodecName)
	version, err := mr.ReadUint32()
	if err != nil {
		return errors.Wrap(err, "scb: read version")
	}
	if version != ExternalVersion {
		return &ErrVersion{Got: version, Want: ExternalVersion}
	}
	s, err := readContent(mr)
	if err != nil {
		return errors.Wrap(err, "scb: read content")
	}
	nparts, err := mr.ReadArrayHeader()
	if err != nil {
		return errors.Wrap(err, "scb: read parts")
	}
	// parts are never empty
	if int64(nparts) > int64(len(s)) {
		return cos.NewErrInvalidArg("external form", "more parts than content bytes")
	}
	var (
		parts = make([]part, 0, nparts)
		total int
	)
	for i := range nparts {
		p, err := b.readPart(mr)
		if err != nil {
			return errors.Wrapf(err, "scb: read part %d", i)
		}
		total += p.n
		parts = append(parts, p)
	}
	if total != len(s) {
		return cos.NewErrInvalidArg("external form", "parts do not add up to the content length")
	}
	b.Reset(true)
	b.markChanged()
	switch len(parts) {
	case 0:
	case 1:
		b.appendNode(&stringChunk{s: s, state: parts[0].state})
	default:
		b.appendNode(&stringChunk{s: s, parts: parts})
	}
	return nil
}

func (b *Buffer) readPart(mr *msgp.Reader) (p part, err error) {
	if p.n, err = mr.ReadInt(); err != nil {
		return
	}
	if p.n < 0 {
		err = cos.NewErrInvalidArg("external form", "negative part length")
		return
	}
	var nenc uint32
	if nenc, err = mr.ReadArrayHeader(); err != nil || nenc == 0 {
		return
	}
	// grown as read: nenc is not trusted
	encs := make([]codec.Encoder, 0, min(nenc, 4))
	for range nenc {
		var (
			name string
			safe bool
		)
		if name, err = mr.ReadString(); err != nil {
			return
		}
		if safe, err = mr.ReadBool(); err != nil {
			return
		}
		encs = append(encs, b.registry.Resolve(name, safe))
	}
	p.state = codec.NewState(encs...)
	return
}

// readContent reads the content in growing chunks, so that a corrupted length
// fails on missing data rather than allocating upfront
func readContent(mr *msgp.Reader) (string, error) {
	n, err := mr.ReadStringHeader()
	if err != nil || n == 0 {
		return "", err
	}
	bb := memsys.NewByteBuffer(int(min(n, memsys.DefaultChunkSize)), memsys.RemoveAfterReading)
	defer bb.Free()
	got, err := bb.ReadFrom(io.LimitReader(mr, int64(n)))
	if err != nil {
		return "", err
	}
	if got != int64(n) {
		return "", io.ErrUnexpectedEOF
	}
	return bb.String(), nil
}

func (b *Buffer) MarshalBinary() ([]byte, error) {
	bb := memsys.NewByteBuffer(int(b.Size())+64, memsys.RemoveAfterReading)
	defer bb.Free()
	if err := b.WriteExternal(bb); err != nil {
		return nil, err
	}
	return bb.ReadAll(), nil
}

func (b *Buffer) UnmarshalBinary(data []byte) error {
	return b.ReadExternal(bytes.NewReader(data))
}
