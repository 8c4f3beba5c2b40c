/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package stats_test

import (
	"strings"

	"github.com/graceframework/grace-framework-sub000/cmn"
	"github.com/graceframework/grace-framework-sub000/scb"
	"github.com/graceframework/grace-framework-sub000/stats"

	jsoniter "github.com/json-iterator/go"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
)

var _ = Describe("Tracker", func() {
	var t *stats.Tracker

	BeforeEach(func() {
		t = stats.NewTracker("scb.test.n")
	})

	It("should register all buffer stats", func() {
		for _, name := range scb.StatNames {
			Expect(t.Names()).To(ContainElement(name))
		}
		Expect(t.Names()).To(ContainElement("scb.test.n"))
		Expect(t.Get("no.such.metric")).To(BeZero())
	})

	It("should add, copy, and reset", func() {
		t.Inc(scb.StatFlushCount)
		t.Inc(scb.StatFlushCount)
		t.Add(scb.StatFlushSize, 1024)
		Expect(t.Get(scb.StatFlushCount)).To(BeEquivalentTo(2))

		c := t.Copy()
		Expect(c[scb.StatFlushSize].Value).To(BeEquivalentTo(1024))

		t.Reset()
		Expect(t.Get(scb.StatFlushCount)).To(BeZero())
		Expect(c[scb.StatFlushCount].Value).To(BeEquivalentTo(2))
	})

	It("should marshal values as strings", func() {
		t.Add(scb.StatChunkSize, 42)
		b, err := t.MarshalJSON()
		Expect(err).NotTo(HaveOccurred())

		var m map[string]map[string]string
		Expect(jsoniter.Unmarshal(b, &m)).To(Succeed())
		Expect(m[scb.StatChunkSize]["v"]).To(Equal("42"))
	})

	It("should count buffer activity", func() {
		conf := cmn.DefaultBufferConf()
		conf.ChunkSize = 8
		conf.GrowPercent = 0
		b := scb.New(&conf, scb.WithTracker(t))
		_, err := b.WriteString(strings.Repeat("x", 20))
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Get(scb.StatChunkCount)).To(BeEquivalentTo(2))
		Expect(t.Get(scb.StatChunkSize)).To(BeEquivalentTo(16))

		var sb strings.Builder
		Expect(b.ConnectTo(&sb, false)).To(Succeed())
		Expect(b.Flush()).To(Succeed())
		Expect(t.Get(scb.StatFlushCount)).To(BeEquivalentTo(1))
		Expect(t.Get(scb.StatFlushSize)).To(BeEquivalentTo(20))
		Expect(sb.String()).To(Equal(strings.Repeat("x", 20)))
	})
})

var _ = Describe("Collector", func() {
	It("should export counters", func() {
		t := stats.NewTracker()
		t.Add(scb.StatFlushSize, 7)
		t.Inc(scb.StatResetCount)

		reg := prometheus.NewRegistry()
		Expect(stats.NewCollector(t).Register(reg)).To(Succeed())

		mfs, err := reg.Gather()
		Expect(err).NotTo(HaveOccurred())
		Expect(mfs).To(HaveLen(len(scb.StatNames)))

		values := make(map[string]float64, len(mfs))
		helps := make(map[string]string, len(mfs))
		for _, mf := range mfs {
			Expect(mf.GetMetric()).To(HaveLen(1))
			values[mf.GetName()] = mf.GetMetric()[0].GetCounter().GetValue()
			helps[mf.GetName()] = mf.GetHelp()
		}
		Expect(values).To(HaveKeyWithValue("grace_scb_flush_size", 7.0))
		Expect(values).To(HaveKeyWithValue("grace_scb_reset_n", 1.0))
		Expect(values).To(HaveKeyWithValue("grace_scb_chunk_n", 0.0))
		Expect(helps["grace_scb_flush_size"]).To(Equal("total size (bytes)"))
		Expect(helps["grace_scb_reset_n"]).To(Equal("total number of operations"))
	})

	It("should refuse double registration", func() {
		reg := prometheus.NewRegistry()
		c := stats.NewCollector(stats.NewTracker())
		Expect(c.Register(reg)).To(Succeed())
		Expect(c.Register(reg)).NotTo(Succeed())
	})
})
