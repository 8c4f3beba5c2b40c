/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package scb_test

import (
	"strings"

	"github.com/graceframework/grace-framework-sub000/cmn"
	"github.com/graceframework/grace-framework-sub000/cmn/cos"
	"github.com/graceframework/grace-framework-sub000/codec"
	"github.com/graceframework/grace-framework-sub000/scb"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Buffer", func() {
	It("should freeze a full tail and continue in a new one", func() {
		b := scb.New(smallConf(8))
		_, err := b.WriteString("abcdefgh")
		Expect(err).NotTo(HaveOccurred())
		Expect(b.NumChunks()).To(BeZero())
		Expect(b.TailSize()).To(Equal(8))

		_, err = b.WriteString("IJ")
		Expect(err).NotTo(HaveOccurred())
		Expect(b.String()).To(Equal("abcdefghIJ"))
		Expect(b.NumChunks()).To(Equal(1))
		Expect(b.TailSize()).To(Equal(2))
		Expect(b.Size()).To(BeEquivalentTo(10))
	})

	It("should return the same string twice", func() {
		b := scb.New(smallConf(4))
		for _, s := range []string{"one", " ", "two", " ", "three"} {
			b.WriteString(s)
		}
		s1 := b.String()
		size := b.Size()
		s2 := b.String()
		Expect(s1).To(Equal("one two three"))
		Expect(s2).To(Equal(s1))
		Expect(b.Size()).To(Equal(size))
		Expect(b.Size()).To(BeEquivalentTo(len(b.Bytes())))
	})

	It("should invalidate the cached string on write", func() {
		b := scb.New(nil)
		b.WriteString("abc")
		Expect(b.String()).To(Equal("abc"))
		changes := b.Changes()
		b.WriteByte('d')
		Expect(b.Changes()).To(BeNumerically(">", changes))
		Expect(b.String()).To(Equal("abcd"))
	})

	It("should write bytes, runes, and substrings", func() {
		b := scb.New(smallConf(3))
		b.Write([]byte("ab"))
		b.WriteByte('c')
		n, err := b.WriteRune('é')
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(2))
		Expect(b.WriteSubstring("0123456789", 2, 3)).To(Succeed())
		Expect(b.Append("0123456789", 7, 9)).To(Succeed())
		Expect(b.String()).To(Equal("abcé23478"))
		Expect(b.Size()).To(BeEquivalentTo(len("abcé23478")))
	})

	It("should reject out-of-range substrings", func() {
		b := scb.New(nil)
		err := b.WriteSubstring("abc", 2, 5)
		Expect(cos.IsErrInvalidArg(err)).To(BeTrue())
		err = b.Append("abc", 2, 1)
		Expect(cos.IsErrInvalidArg(err)).To(BeTrue())
		Expect(b.IsEmpty()).To(BeTrue())
	})

	It("should keep long strings as their own chunks", func() {
		conf := smallConf(8)
		conf.SubStringChunkMinSize = 16
		conf.ChunkMinSize = 0
		b := scb.New(conf)
		long := strings.Repeat("L", 40)
		b.WriteString("ab")
		b.WriteString(long)
		b.WriteString("cd")
		Expect(b.String()).To(Equal("ab" + long + "cd"))
		// "ab" committed, then the string chunk
		Expect(b.NumChunks()).To(Equal(2))
		Expect(b.TailSize()).To(Equal(2))
	})

	It("should grow chunk size", func() {
		conf := cmn.DefaultBufferConf()
		conf.ChunkSize = 4
		conf.MaxChunkSize = 64
		b := scb.New(&conf)
		b.WriteString(strings.Repeat("x", 200))
		Expect(b.Size()).To(BeEquivalentTo(200))
		// 4, 4, 8, 16, 32, 64, 64 ...
		Expect(b.NumChunks()).To(BeNumerically("<", 200/4))
	})

	It("should reset and clear", func() {
		b := scb.New(smallConf(4))
		b.WriteString("0123456789")
		b.Reset(true)
		Expect(b.IsEmpty()).To(BeTrue())
		Expect(b.String()).To(BeEmpty())
		Expect(b.NumChunks()).To(BeZero())

		b.WriteString("abc")
		Expect(b.String()).To(Equal("abc"))
		b.Clear()
		Expect(b.Size()).To(BeZero())
	})

	It("should write through the default writer", func() {
		config := cmn.DefaultConfig()
		config.Codec.Default = "url"
		b, err := scb.FromConfig(config)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.DefaultEncoder().Name()).To(Equal(codec.NameURL))
		b.DefaultWriter().WriteString("a b&c")
		Expect(b.String()).To(Equal("a+b%26c"))

		config.Codec.Default = "no-such-codec"
		_, err = scb.FromConfig(config)
		Expect(cos.IsErrInvalidArg(err)).To(BeTrue())
	})

	Describe("WriteTo", func() {
		It("should reject writing into itself", func() {
			b := scb.New(nil)
			b.WriteString("abc")
			_, err := b.WriteTo(b.Writer())
			Expect(err).To(MatchError(scb.ErrSelfWrite))
			Expect(cos.IsErrInvalidArg(err)).To(BeTrue())
			_, err = b.WriteTo(b)
			Expect(err).To(MatchError(scb.ErrSelfWrite))
			Expect(b.WriteBuffer(b)).To(MatchError(scb.ErrSelfWrite))
			Expect(b.String()).To(Equal("abc"))
		})

		It("should write into a plain writer", func() {
			b := scb.New(smallConf(4))
			b.WriteString("hello, world")
			var sb strings.Builder
			n, err := b.WriteTo(&sb)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeEquivalentTo(12))
			Expect(sb.String()).To(Equal("hello, world"))
		})

		It("should write into another buffer's encoded writer", func() {
			src := scb.New(nil)
			src.WriteString("<p>")
			dst := scb.New(nil)
			_, err := src.WriteTo(dst.EncodedWriter(codec.HTML))
			Expect(err).NotTo(HaveOccurred())
			Expect(dst.String()).To(Equal("&lt;p&gt;"))
		})
	})
})
