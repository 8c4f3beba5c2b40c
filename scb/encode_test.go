/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package scb_test

import (
	"strings"

	"github.com/graceframework/grace-framework-sub000/codec"
	"github.com/graceframework/grace-framework-sub000/scb"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Encoding", func() {
	It("should keep a chunk boundary at encoding change", func() {
		b := scb.New(nil)
		b.EncodedWriter(codec.HTML).WriteString("a<b")
		b.EncodedWriter(codec.JS).WriteString("c'd")

		rec := &recorder{}
		Expect(b.EncodeTo(rec, nil)).To(Succeed())
		Expect(rec.calls).To(Equal([]appendCall{
			{state: "[HTML]", text: "a&lt;b"},
			{state: "[JavaScript]", text: `c\'d`},
		}))
		Expect(b.NumChunks()).To(Equal(1))
	})

	It("should not encode twice", func() {
		b := scb.New(nil)
		b.EncodedWriter(codec.HTML).WriteString("<")
		b.WriteString("<")
		b.EncodedWriter(codec.Raw).WriteString("<")
		Expect(b.String()).To(Equal("&lt;<<"))
		Expect(b.EncodeToString(codec.HTML)).To(Equal("&lt;&lt;<"))
	})

	It("should apply JavaScript over HTML", func() {
		b := scb.New(nil)
		b.EncodedWriter(codec.HTML).WriteString("<")
		Expect(b.EncodeToString(codec.JS)).To(Equal(`\u0026lt;`))
	})

	It("should pass text through with a nil encoder", func() {
		b := scb.New(nil)
		b.WriteString("<x>")
		Expect(b.EncodeToString(nil)).To(Equal("<x>"))
	})

	It("should flatten into a multi-part chunk", func() {
		b := scb.New(smallConf(4))
		b.WriteString("<a>")
		b.EncodedWriter(codec.HTML).WriteString("<b>")
		b.EncodedWriter(codec.URL).WriteString("c d")

		e := b.EncodeToBuffer(codec.HTML)
		Expect(e.String()).To(Equal("&lt;a&gt;&lt;b&gt;c+d"))
		Expect(e.NumChunks()).To(Equal(1))
		Expect(e.TailSize()).To(BeZero())

		states, lengths := e.Parts()
		Expect(lengths).To(Equal([]int{18, 3}))
		Expect(states[0].String()).To(Equal("[HTML]"))
		Expect(states[1].String()).To(Equal("[URL,HTML]"))

		// the source is unchanged
		Expect(b.String()).To(Equal("<a>&lt;b&gt;c+d"))
	})

	It("should chain encoders", func() {
		b := scb.New(nil)
		b.WriteString("a b")
		e := b.EncodeToBuffer(codec.URL, codec.HTML)
		Expect(e.String()).To(Equal("a+b"))
		states, _ := e.Parts()
		Expect(states).To(HaveLen(1))
		Expect(states[0].String()).To(Equal("[URL,HTML]"))
	})

	It("should merge adjacent equal states", func() {
		b := scb.New(smallConf(4))
		w := b.EncodedWriter(codec.HTML)
		w.WriteString(strings.Repeat("x", 10))
		Expect(b.NumChunks()).To(Equal(2))
		states, lengths := b.Parts()
		Expect(states).To(HaveLen(1))
		Expect(lengths).To(Equal([]int{10}))
	})

	It("should flush appended text into a writer", func() {
		b := scb.New(nil)
		b.EncodedWriter(codec.HTML).WriteString("&")
		b.WriteString("&")
		var sb strings.Builder
		app := codec.NewWriterAppender(&sb)
		Expect(b.EncodeTo(app, codec.HTML)).To(Succeed())
		Expect(sb.String()).To(Equal("&amp;&amp;"))
	})
})
