/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package codec

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/graceframework/grace-framework-sub000/cmn/cos"
	"github.com/graceframework/grace-framework-sub000/cmn/nlog"
)

// Registry resolves codecs by (case-insensitive) name; safe for concurrent use.
type Registry struct {
	m  map[string]Encoder
	mu sync.RWMutex
}

// Default registry with the built-in codecs
var Default = NewRegistry()

func NewRegistry() *Registry {
	r := &Registry{m: make(map[string]Encoder, 8)}
	for _, enc := range []Encoder{HTML, XML, URL, JS, Raw} {
		r.m[strings.ToLower(enc.Name())] = enc
	}
	return r
}

func (r *Registry) Register(enc Encoder) {
	cos.Assert(enc != nil && enc.Name() != "")
	r.mu.Lock()
	r.m[strings.ToLower(enc.Name())] = enc
	r.mu.Unlock()
	if nlog.FastV(4, nlog.SmoduleCodec) {
		nlog.Infoln("registered codec", enc.Name())
	}
}

func (r *Registry) Lookup(name string) (enc Encoder, ok bool) {
	r.mu.RLock()
	enc, ok = r.m[strings.ToLower(name)]
	r.mu.RUnlock()
	return
}

// MustLookup returns an invalid-argument error for unknown names.
func (r *Registry) MustLookup(name string) (Encoder, error) {
	if enc, ok := r.Lookup(name); ok {
		return enc, nil
	}
	return nil, cos.NewErrInvalidArg("codec", "unknown codec "+strconv.Quote(name))
}

// Resolve never fails: unknown names become state-only (saved) encoders.
func (r *Registry) Resolve(name string, safe bool) Encoder {
	if enc, ok := r.Lookup(name); ok {
		return enc
	}
	if nlog.FastV(4, nlog.SmoduleCodec) {
		nlog.Infof("codec %q not registered, restoring as saved", name)
	}
	return Saved(name, safe)
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.m))
	for _, enc := range r.m {
		names = append(names, enc.Name())
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
