// Package jsp (JSON persistence) provides utilities to store and load arbitrary
// JSON-encoded structures with optional checksumming and compression.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package jsp

import (
	"bytes"
	"encoding/binary"
	"hash"
	"io"

	"github.com/OneOfOne/xxhash"
	"github.com/graceframework/grace-framework-sub000/cmn/cos"
	jsoniter "github.com/json-iterator/go"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

const (
	signature = "grace" // file signature
	version   = 1       // jsp encoding version
	//                              0 ---------------- 63  64 --------- 127
	prefLen = 2 * cos.SizeofI64 // [ signature | jsp ver |   bit flags  ]
)

const (
	flagCompress = 1 << iota
	flagChecksum
)

func EncodeBuf(v any, opts Options) []byte {
	buf := &bytes.Buffer{}
	err := Encode(buf, v, opts)
	cos.AssertNoErr(err)
	return buf.Bytes()
}

func Encode(writer io.Writer, v any, opts Options) (err error) {
	var (
		zw      *lz4.Writer
		h       hash.Hash64
		body    = &bytes.Buffer{}
		encoder *jsoniter.Encoder
		w       io.Writer = body
	)
	if opts.Compress {
		zw = lz4.NewWriter(body)
		w = zw
	}
	encoder = cos.JSON.NewEncoder(w)
	if opts.Indent {
		encoder.SetIndent("", "  ")
	}
	if err = encoder.Encode(v); err != nil {
		return errors.Wrap(err, "jsp: encode")
	}
	if opts.Compress {
		if err = zw.Close(); err != nil {
			return errors.Wrap(err, "jsp: lz4")
		}
	}
	if opts.Signature {
		var prefix [prefLen]byte
		l := len(signature)
		copy(prefix[:], signature)
		prefix[l] = version
		var packingInfo uint64
		if opts.Compress {
			packingInfo |= flagCompress
		}
		if opts.Checksum {
			packingInfo |= flagChecksum
		}
		binary.BigEndian.PutUint64(prefix[cos.SizeofI64:], packingInfo)
		if _, err = writer.Write(prefix[:]); err != nil {
			return err
		}
	}
	if opts.Checksum {
		var hsum [cos.SizeofI64]byte
		h = xxhash.New64()
		h.Write(body.Bytes())
		binary.BigEndian.PutUint64(hsum[:], h.Sum64())
		if _, err = writer.Write(hsum[:]); err != nil {
			return err
		}
	}
	_, err = writer.Write(body.Bytes())
	return err
}

// NOTE: when the signature is present its packing info overrides opts
func Decode(reader io.Reader, v any, opts Options, tag string) error {
	if opts.Signature {
		var prefix [prefLen]byte
		if _, err := io.ReadFull(reader, prefix[:]); err != nil {
			return errors.Wrapf(err, "jsp: read prefix %q", tag)
		}
		l := len(signature)
		if signature != string(prefix[:l]) {
			return &ErrBadSignature{tag: tag, got: string(prefix[:l]), expected: signature}
		}
		if prefix[l] != version {
			return &ErrUnsupportedVersion{tag: tag, got: prefix[l], expected: version}
		}
		packingInfo := binary.BigEndian.Uint64(prefix[cos.SizeofI64:])
		opts.Compress = packingInfo&flagCompress != 0
		opts.Checksum = packingInfo&flagChecksum != 0
	}
	var r io.Reader = reader
	if opts.Checksum {
		var hsum [cos.SizeofI64]byte
		if _, err := io.ReadFull(reader, hsum[:]); err != nil {
			return errors.Wrapf(err, "jsp: read checksum %q", tag)
		}
		body, err := io.ReadAll(reader)
		if err != nil {
			return errors.Wrapf(err, "jsp: read %q", tag)
		}
		h := xxhash.New64()
		h.Write(body)
		expected, actual := binary.BigEndian.Uint64(hsum[:]), h.Sum64()
		if expected != actual {
			return &ErrBadCksum{tag: tag, got: actual, expected: expected}
		}
		r = bytes.NewReader(body)
	}
	if opts.Compress {
		r = lz4.NewReader(r)
	}
	if err := cos.JSON.NewDecoder(r).Decode(v); err != nil {
		return errors.Wrapf(err, "jsp: decode %q", tag)
	}
	return nil
}

// HasSignature returns true if b starts with the jsp prefix
func HasSignature(b []byte) bool {
	return len(b) >= prefLen && string(b[:len(signature)]) == signature
}
