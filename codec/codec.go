// Package codec provides output encoders (HTML, URL, JavaScript, Raw), the encoding state
// that records which of them were already applied to a span of text, and appenders that
// apply encoders lazily while preserving that state.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package codec

import (
	"net/url"
)

// Encoder is the contract consumed by the buffers. Name is the stable codec identity
// used for encoding-state equality.
type Encoder interface {
	Name() string
	// IsSafe is true when the output is safe to emit into HTML as is
	IsSafe() bool
	// ApplyToSafelyEncoded is true when the encoder must run even over text
	// already encoded by another safe encoder (e.g. JavaScript over HTML)
	ApplyToSafelyEncoded() bool
	AppendEncoded(dst, src []byte) []byte
	AppendEncodedString(dst []byte, src string) []byte
}

// built-in codec names
const (
	NameHTML = "HTML"
	NameXML  = "XML"
	NameURL  = "URL"
	NameJS   = "JavaScript"
	NameRaw  = "Raw"
)

type (
	htmlEncoder struct {
		name string
	}
	urlEncoder   struct{}
	jsEncoder    struct{}
	rawEncoder   struct{}
	savedEncoder struct {
		name string
		safe bool
	}
)

// interface guard
var (
	_ Encoder = (*htmlEncoder)(nil)
	_ Encoder = urlEncoder{}
	_ Encoder = jsEncoder{}
	_ Encoder = rawEncoder{}
	_ Encoder = (*savedEncoder)(nil)
)

var (
	HTML Encoder = &htmlEncoder{name: NameHTML}
	XML  Encoder = &htmlEncoder{name: NameXML}
	URL  Encoder = urlEncoder{}
	JS   Encoder = jsEncoder{}
	Raw  Encoder = rawEncoder{}
)

// EncodeString is a convenience that allocates.
func EncodeString(enc Encoder, s string) string {
	if enc == nil {
		return s
	}
	return string(enc.AppendEncodedString(make([]byte, 0, len(s)+len(s)/8), s))
}

/////////////////
// htmlEncoder //
/////////////////

func (e *htmlEncoder) Name() string             { return e.name }
func (*htmlEncoder) IsSafe() bool               { return true }
func (*htmlEncoder) ApplyToSafelyEncoded() bool { return false }

func (*htmlEncoder) AppendEncoded(dst, src []byte) []byte { return appendHTML(dst, src) }
func (*htmlEncoder) AppendEncodedString(dst []byte, src string) []byte {
	return appendHTML(dst, src)
}

func appendHTML[T ~string | ~[]byte](dst []byte, src T) []byte {
	last := 0
	for i := range len(src) {
		var esc string
		switch src[i] {
		case '&':
			esc = "&amp;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '"':
			esc = "&quot;"
		case '\'':
			esc = "&#39;"
		default:
			continue
		}
		dst = append(dst, src[last:i]...)
		dst = append(dst, esc...)
		last = i + 1
	}
	return append(dst, src[last:]...)
}

////////////////
// urlEncoder //
////////////////

func (urlEncoder) Name() string               { return NameURL }
func (urlEncoder) IsSafe() bool               { return false }
func (urlEncoder) ApplyToSafelyEncoded() bool { return true }

func (urlEncoder) AppendEncoded(dst, src []byte) []byte {
	return append(dst, url.QueryEscape(string(src))...)
}

func (urlEncoder) AppendEncodedString(dst []byte, src string) []byte {
	return append(dst, url.QueryEscape(src)...)
}

///////////////
// jsEncoder //
///////////////

func (jsEncoder) Name() string               { return NameJS }
func (jsEncoder) IsSafe() bool               { return true }
func (jsEncoder) ApplyToSafelyEncoded() bool { return true }

func (jsEncoder) AppendEncoded(dst, src []byte) []byte { return appendJS(dst, src) }
func (jsEncoder) AppendEncodedString(dst []byte, src string) []byte {
	return appendJS(dst, src)
}

const hexDigits = "0123456789abcdef"

// NOTE: operates on bytes; U+2028 and U+2029 are escaped only when not split across writes
func appendJS[T ~string | ~[]byte](dst []byte, src T) []byte {
	last := 0
	for i := 0; i < len(src); i++ {
		c := src[i]
		var esc string
		switch c {
		case '\\':
			esc = `\\`
		case '"':
			esc = `\"`
		case '\'':
			esc = `\'`
		case '\n':
			esc = `\n`
		case '\r':
			esc = `\r`
		case '\t':
			esc = `\t`
		case '\f':
			esc = `\f`
		case '\b':
			esc = `\b`
		case '\v':
			esc = `\v`
		case '/':
			esc = `\/`
		case '<', '>', '&', '=':
			dst = append(dst, src[last:i]...)
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
			last = i + 1
			continue
		case 0xe2:
			// U+2028, U+2029
			if i+2 < len(src) && src[i+1] == 0x80 && (src[i+2] == 0xa8 || src[i+2] == 0xa9) {
				dst = append(dst, src[last:i]...)
				if src[i+2] == 0xa8 {
					dst = append(dst, `\u2028`...)
				} else {
					dst = append(dst, `\u2029`...)
				}
				i += 2
				last = i + 1
			}
			continue
		default:
			if c < 0x20 {
				dst = append(dst, src[last:i]...)
				dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
				last = i + 1
			}
			continue
		}
		dst = append(dst, src[last:i]...)
		dst = append(dst, esc...)
		last = i + 1
	}
	return append(dst, src[last:]...)
}

////////////////
// rawEncoder //
////////////////

// Raw marks text as safe without changing it
func (rawEncoder) Name() string                                    { return NameRaw }
func (rawEncoder) IsSafe() bool                                    { return true }
func (rawEncoder) ApplyToSafelyEncoded() bool                      { return false }
func (rawEncoder) AppendEncoded(dst, src []byte) []byte            { return append(dst, src...) }
func (rawEncoder) AppendEncodedString(dst []byte, s string) []byte { return append(dst, s...) }

//////////////////
// savedEncoder //
//////////////////

// Saved returns a state-only encoder restored from the persisted form when the
// named codec is not registered; it passes text through unchanged.
func Saved(name string, safe bool) Encoder { return &savedEncoder{name: name, safe: safe} }

func (e *savedEncoder) Name() string                                  { return e.name }
func (e *savedEncoder) IsSafe() bool                                  { return e.safe }
func (*savedEncoder) ApplyToSafelyEncoded() bool                      { return false }
func (*savedEncoder) AppendEncoded(dst, src []byte) []byte            { return append(dst, src...) }
func (*savedEncoder) AppendEncodedString(dst []byte, s string) []byte { return append(dst, s...) }
