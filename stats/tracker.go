// Package stats tracks buffer activity counters and exports them to Prometheus and JSON.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package stats

import (
	"sort"
	"strconv"
	"strings"
	ratomic "sync/atomic"

	"github.com/graceframework/grace-framework-sub000/cmn/cos"
	"github.com/graceframework/grace-framework-sub000/cmn/debug"
	"github.com/graceframework/grace-framework-sub000/cmn/nlog"
	"github.com/graceframework/grace-framework-sub000/scb"

	jsoniter "github.com/json-iterator/go"
)

const (
	namespace = "grace"
	subsystem = "scb"
)

// metric kinds (by name suffix)
const (
	KindCounter = "counter"
	KindSize    = "size"
)

type (
	statsValue struct {
		kind  string
		label struct {
			comm string // e.g. "scb.chunk.n"
			prom string // e.g. "chunk_n"
		}
		Value int64 `json:"v,string"`
	}
	copyValue struct {
		Value int64 `json:"v,string"`
	}
	// Tracker is a fixed set of named counters: registered upfront, updated atomically
	Tracker struct {
		m     map[string]*statsValue
		names []string // sorted
	}
	// CopyTracker is a point-in-time snapshot
	CopyTracker map[string]copyValue
)

// interface guard
var _ scb.Tracker = (*Tracker)(nil)

// NewTracker registers scb.StatNames plus the optional extra names.
func NewTracker(extra ...string) *Tracker {
	names := make([]string, 0, len(scb.StatNames)+len(extra))
	names = append(names, scb.StatNames...)
	names = append(names, extra...)
	t := &Tracker{m: make(map[string]*statsValue, len(names))}
	for _, name := range names {
		t.reg(name)
	}
	sort.Strings(t.names)
	return t
}

func (t *Tracker) reg(name string) {
	if _, ok := t.m[name]; ok {
		return
	}
	v := &statsValue{kind: kindOf(name)}
	v.label.comm = name
	v.label.prom = promLabel(name)
	t.m[name] = v
	t.names = append(t.names, name)
}

func kindOf(name string) string {
	if strings.HasSuffix(name, ".size") {
		return KindSize
	}
	return KindCounter
}

// "scb.chunk.size" => "chunk_size"
func promLabel(name string) string {
	name = strings.TrimPrefix(name, subsystem+".")
	return strings.ReplaceAll(name, ".", "_")
}

func (t *Tracker) Add(name string, val int64) {
	v, ok := t.m[name]
	debug.Assertf(ok, "invalid metric name %q", name)
	if ok {
		ratomic.AddInt64(&v.Value, val)
	}
}

func (t *Tracker) Inc(name string) { t.Add(name, 1) }

func (t *Tracker) Get(name string) int64 {
	v, ok := t.m[name]
	if !ok {
		return 0
	}
	return ratomic.LoadInt64(&v.Value)
}

func (t *Tracker) Names() []string { return t.names }

// Reset zeroes all counters.
func (t *Tracker) Reset() {
	for _, v := range t.m {
		ratomic.StoreInt64(&v.Value, 0)
	}
}

func (t *Tracker) Copy() CopyTracker {
	ctracker := make(CopyTracker, len(t.m))
	for name, v := range t.m {
		ctracker[name] = copyValue{Value: ratomic.LoadInt64(&v.Value)}
	}
	return ctracker
}

func (t *Tracker) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(t.Copy())
}

// Log writes non-zero counters as a single line, sizes in IEC units.
func (t *Tracker) Log() {
	var sb strings.Builder
	for _, name := range t.names {
		v := t.m[name]
		val := ratomic.LoadInt64(&v.Value)
		if val == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteByte(':')
		if v.kind == KindSize {
			sb.WriteString(cos.ToSizeIEC(val))
		} else {
			sb.WriteString(strconv.FormatInt(val, 10))
		}
	}
	if sb.Len() > 0 {
		nlog.Infoln(sb.String())
	}
}
