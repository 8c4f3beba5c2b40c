/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package codec_test

import (
	"strings"

	"github.com/graceframework/grace-framework-sub000/cmn/cos"
	"github.com/graceframework/grace-framework-sub000/codec"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Encoders", func() {
	DescribeTable("should encode",
		func(enc codec.Encoder, in, out string) {
			Expect(codec.EncodeString(enc, in)).To(Equal(out))
			Expect(string(enc.AppendEncoded([]byte("#"), []byte(in)))).To(Equal("#" + out))
		},
		Entry("html", codec.HTML, `<a href="x">'&'</a>`, "&lt;a href=&quot;x&quot;&gt;&#39;&amp;&#39;&lt;/a&gt;"),
		Entry("html passthrough", codec.HTML, "plain text", "plain text"),
		Entry("xml", codec.XML, "a<b", "a&lt;b"),
		Entry("url", codec.URL, "a b/c?d=é", "a+b%2Fc%3Fd%3D%C3%A9"),
		Entry("js quotes", codec.JS, `it's "x"`, `it\'s \"x\"`),
		Entry("js specials", codec.JS, "</script>\n\t=", `\u003c\/script\u003e\n\t\u003d`),
		Entry("js control", codec.JS, "\x01", `\u0001`),
		Entry("js line separator", codec.JS, "a\u2028b", `a\u2028b`),
		Entry("raw", codec.Raw, "<b>", "<b>"),
	)

	It("should pass through with a nil encoder", func() {
		Expect(codec.EncodeString(nil, "<")).To(Equal("<"))
	})
})

var _ = Describe("State", func() {
	It("should compare by value", func() {
		a := codec.NewState(codec.HTML, codec.URL)
		b := codec.NewState(codec.HTML).Append(codec.URL)
		Expect(a.Equal(b)).To(BeTrue())
		Expect(a.Equal(codec.NewState(codec.URL, codec.HTML))).To(BeFalse())
		Expect(a.String()).To(Equal("[HTML,URL]"))

		var undefined *codec.State
		Expect(undefined.IsUndefined()).To(BeTrue())
		Expect(undefined.Equal(nil)).To(BeTrue())
		Expect(undefined.Equal(codec.None)).To(BeFalse())
		Expect(codec.None.Equal(codec.NewState())).To(BeTrue())
		Expect(undefined.String()).To(Equal("undefined"))
	})

	It("should not repeat encoders", func() {
		s := codec.NewState(codec.HTML, codec.HTML)
		Expect(s.Len()).To(Equal(1))
		Expect(s.Append(codec.HTML)).To(BeIdenticalTo(s))
		Expect(s.Append(nil)).To(BeIdenticalTo(s))
	})

	It("should tell when to encode", func() {
		var undefined *codec.State
		Expect(undefined.ShouldEncodeWith(codec.HTML)).To(BeTrue())
		Expect(undefined.ShouldEncodeWith(nil)).To(BeFalse())
		Expect(codec.None.ShouldEncodeWith(codec.HTML)).To(BeTrue())

		html := codec.NewState(codec.HTML)
		Expect(html.ShouldEncodeWith(codec.HTML)).To(BeFalse())
		// a safe encoder covers other safe ones...
		Expect(html.ShouldEncodeWith(codec.XML)).To(BeFalse())
		Expect(html.ShouldEncodeWith(codec.Raw)).To(BeFalse())
		// ...unless they apply to safely encoded text
		Expect(html.ShouldEncodeWith(codec.JS)).To(BeTrue())
		Expect(html.ShouldEncodeWith(codec.URL)).To(BeTrue())
		// URL is not safe
		Expect(codec.NewState(codec.URL).ShouldEncodeWith(codec.HTML)).To(BeTrue())
	})
})

var _ = Describe("Registry", func() {
	It("should look up built-in codecs", func() {
		r := codec.NewRegistry()
		enc, ok := r.Lookup("html")
		Expect(ok).To(BeTrue())
		Expect(enc).To(BeIdenticalTo(codec.HTML))
		enc, err := r.MustLookup("JAVASCRIPT")
		Expect(err).NotTo(HaveOccurred())
		Expect(enc.Name()).To(Equal(codec.NameJS))
		Expect(r.Names()).To(Equal([]string{"HTML", "JavaScript", "Raw", "URL", "XML"}))

		_, err = r.MustLookup("nope")
		Expect(cos.IsErrInvalidArg(err)).To(BeTrue())
	})

	It("should register and resolve", func() {
		r := codec.NewRegistry()
		custom := codec.Saved("Upper", true)
		r.Register(custom)
		Expect(r.Resolve("upper", false)).To(BeIdenticalTo(custom))

		saved := r.Resolve("Unknown", true)
		Expect(saved.Name()).To(Equal("Unknown"))
		Expect(saved.IsSafe()).To(BeTrue())
		Expect(codec.EncodeString(saved, "<")).To(Equal("<"))
		_, ok := r.Lookup("Unknown")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("WriterAppender", func() {
	It("should encode unless already encoded", func() {
		var sb strings.Builder
		app := codec.NewWriterAppender(&sb)
		Expect(app.AppendString(codec.HTML, nil, "<")).To(Succeed())
		Expect(app.AppendString(codec.HTML, codec.NewState(codec.HTML), "&lt;")).To(Succeed())
		Expect(app.Append(codec.HTML, codec.NewState(codec.URL), []byte("a+b"))).To(Succeed())
		Expect(app.Append(nil, nil, []byte("<"))).To(Succeed())
		Expect(app.Append(codec.HTML, nil, nil)).To(Succeed())
		Expect(app.Flush()).To(Succeed())
		Expect(sb.String()).To(Equal("&lt;&lt;a+b<"))
		Expect(app.Writer()).To(BeIdenticalTo(&sb))
	})
})
