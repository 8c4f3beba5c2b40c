/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package codec

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// State is the immutable, ordered set of encoders already applied to a span of text.
// A nil *State is "undefined" (nothing is known); an empty State is "not encoded".
type State struct {
	encoders []Encoder
	key      uint64
}

// None is the known-unencoded state
var None = &State{key: stateKey(nil)}

func NewState(encs ...Encoder) *State {
	s := &State{}
	for _, enc := range encs {
		if enc == nil || s.contains(enc) {
			continue
		}
		s.encoders = append(s.encoders, enc)
	}
	s.key = stateKey(s.encoders)
	return s
}

func stateKey(encs []Encoder) uint64 {
	d := xxhash.New()
	for _, enc := range encs {
		d.WriteString(enc.Name())
		d.Write([]byte{0})
	}
	return d.Sum64()
}

func (s *State) contains(enc Encoder) bool {
	for _, e := range s.encoders {
		if e.Name() == enc.Name() {
			return true
		}
	}
	return false
}

// Encoders returns the applied encoders in order; must not be modified.
func (s *State) Encoders() []Encoder {
	if s == nil {
		return nil
	}
	return s.encoders
}

func (s *State) Len() int {
	if s == nil {
		return 0
	}
	return len(s.encoders)
}

func (s *State) IsUndefined() bool { return s == nil }

// Equal compares by value: the same encoder names in the same order.
func (s *State) Equal(other *State) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	if s.key != other.key || len(s.encoders) != len(other.encoders) {
		return false
	}
	for i, enc := range s.encoders {
		if enc.Name() != other.encoders[i].Name() {
			return false
		}
	}
	return true
}

// Append returns the state after also applying enc.
func (s *State) Append(enc Encoder) *State {
	if enc == nil {
		return s
	}
	if s == nil {
		return NewState(enc)
	}
	if s.contains(enc) {
		return s
	}
	encs := make([]Encoder, len(s.encoders), len(s.encoders)+1)
	copy(encs, s.encoders)
	return NewState(append(encs, enc)...)
}

// ShouldEncodeWith returns false when enc (or an encoder making it redundant)
// was already applied.
func (s *State) ShouldEncodeWith(enc Encoder) bool {
	if enc == nil {
		return false
	}
	for _, prev := range s.Encoders() {
		if isPreviousSafeOrEqual(enc, prev) {
			return false
		}
	}
	return true
}

func isPreviousSafeOrEqual(toApply, prev Encoder) bool {
	if prev.Name() == toApply.Name() {
		return true
	}
	return !toApply.ApplyToSafelyEncoded() && prev.IsSafe() && toApply.IsSafe()
}

func (s *State) String() string {
	if s == nil {
		return "undefined"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, enc := range s.encoders {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(enc.Name())
	}
	sb.WriteByte(']')
	return sb.String()
}
