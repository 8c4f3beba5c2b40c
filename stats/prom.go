/*
 * Copyright (c) 2024-2026, NVIDIA CORPORATION. All rights reserved.
 */
package stats

import (
	ratomic "sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

type (
	promDesc map[string]*prometheus.Desc
	// Collector exports a Tracker as Prometheus counters (grace_scb_<label>)
	Collector struct {
		t    *Tracker
		desc promDesc
	}
)

// interface guard
var _ prometheus.Collector = (*Collector)(nil)

func NewCollector(t *Tracker) *Collector {
	c := &Collector{t: t, desc: make(promDesc, len(t.m))}
	for name, v := range t.m {
		var help string
		switch v.kind {
		case KindSize:
			help = "total size (bytes)"
		default:
			help = "total number of operations"
		}
		fullqn := prometheus.BuildFQName(namespace, subsystem, v.label.prom)
		c.desc[name] = prometheus.NewDesc(fullqn, help, nil, nil)
	}
	return c
}

// Register with reg (nil: the default registerer).
func (c *Collector) Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return reg.Register(c)
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range c.desc {
		ch <- desc
	}
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for name, v := range c.t.m {
		val := ratomic.LoadInt64(&v.Value)
		ch <- prometheus.MustNewConstMetric(c.desc[name], prometheus.CounterValue, float64(val))
	}
}
