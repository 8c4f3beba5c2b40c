/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package scb_test

import (
	"io"
	"strings"

	"github.com/graceframework/grace-framework-sub000/cmn/cos"
	"github.com/graceframework/grace-framework-sub000/scb"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func readN(r io.Reader, n int) string {
	p := make([]byte, n)
	m, err := io.ReadFull(r, p)
	Expect(err).NotTo(HaveOccurred())
	return string(p[:m])
}

var _ = Describe("Reader", func() {
	It("should interleave with writes", func() {
		b := scb.New(nil)
		r, err := b.Reader(false)
		Expect(err).NotTo(HaveOccurred())
		defer r.Close()

		b.WriteString("AB")
		Expect(readN(r, 1)).To(Equal("A"))
		b.WriteString("CD")
		Expect(readN(r, 3)).To(Equal("BCD"))

		_, err = r.Read(make([]byte, 1))
		Expect(err).To(Equal(io.EOF))
		Expect(r.Consumed()).To(BeEquivalentTo(4))
		Expect(b.String()).To(Equal("ABCD"))
	})

	It("should follow tail content into committed chunks", func() {
		b := scb.New(smallConf(4))
		r, err := b.Reader(false)
		Expect(err).NotTo(HaveOccurred())

		b.WriteString("ab")
		Expect(readN(r, 1)).To(Equal("a"))
		b.WriteString("cdefghij")
		Expect(b.NumChunks()).To(Equal(2))

		rest, err := io.ReadAll(r)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(rest)).To(Equal("bcdefghij"))
		Expect(r.Close()).To(Succeed())
	})

	It("should keep independent positions", func() {
		b := scb.New(smallConf(3))
		b.WriteString("0123456789")
		r1, _ := b.Reader(false)
		r2, _ := b.Reader(false)
		Expect(readN(r1, 4)).To(Equal("0123"))
		Expect(readN(r2, 2)).To(Equal("01"))
		Expect(readN(r1, 6)).To(Equal("456789"))
		Expect(readN(r2, 8)).To(Equal("23456789"))
	})

	It("should render current content while a reader is open", func() {
		b := scb.New(smallConf(4))
		b.WriteString("abc")
		r, err := b.Reader(false)
		Expect(err).NotTo(HaveOccurred())

		Expect(b.String()).To(Equal("abc"))
		Expect(readN(r, 2)).To(Equal("ab"))
		Expect(b.String()).To(Equal("abc"))
		b.WriteString("defgh")
		Expect(b.String()).To(Equal("abcdefgh"))
		Expect(readN(r, 6)).To(Equal("cdefgh"))

		Expect(r.Close()).To(Succeed())
		Expect(b.String()).To(Equal("abcdefgh"))
		b.WriteString("i")
		Expect(b.String()).To(Equal("abcdefghi"))
		Expect(b.String()).To(Equal("abcdefghi"))
	})

	It("should read bytes", func() {
		b := scb.New(nil)
		b.WriteString("xy")
		r, _ := b.Reader(false)
		c, err := r.ReadByte()
		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(Equal(byte('x')))
		c, _ = r.ReadByte()
		Expect(c).To(Equal(byte('y')))
		_, err = r.ReadByte()
		Expect(err).To(Equal(io.EOF))
	})

	It("should start over after reset", func() {
		b := scb.New(nil)
		b.WriteString("old")
		r, _ := b.Reader(false)
		Expect(readN(r, 2)).To(Equal("ol"))
		b.Reset(false)
		b.WriteString("new")
		Expect(readN(r, 3)).To(Equal("new"))
	})

	It("should fail when closed", func() {
		b := scb.New(nil)
		b.WriteString("abc")
		r, _ := b.Reader(false)
		Expect(r.Close()).To(Succeed())
		Expect(r.Close()).To(Succeed())
		_, err := r.Read(make([]byte, 1))
		Expect(err).To(HaveOccurred())
	})

	Describe("remove after reading", func() {
		It("should allow a single consuming reader", func() {
			b := scb.New(nil)
			r, err := b.Reader(true)
			Expect(err).NotTo(HaveOccurred())
			_, err = b.Reader(true)
			Expect(err).To(MatchError(scb.ErrConsumingReader))
			Expect(cos.IsErrIllegalOp(err)).To(BeTrue())

			other, err := b.Reader(false)
			Expect(err).NotTo(HaveOccurred())
			other.Close()

			r.Close()
			r, err = b.Reader(true)
			Expect(err).NotTo(HaveOccurred())
			r.Close()
		})

		It("should release what was read", func() {
			b := scb.New(nil)
			b.WriteString("hello world")
			r, _ := b.Reader(true)
			defer r.Close()

			Expect(readN(r, 5)).To(Equal("hello"))
			Expect(b.Size()).To(BeEquivalentTo(6))
			Expect(b.String()).To(Equal(" world"))

			b.WriteString("!")
			rest, err := io.ReadAll(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(rest)).To(Equal(" world!"))
			Expect(b.IsEmpty()).To(BeTrue())
		})

		It("should unlink consumed chunks", func() {
			b := scb.New(smallConf(4))
			b.WriteString("abcdefghij")
			Expect(b.NumChunks()).To(Equal(2))

			r, _ := b.Reader(true)
			Expect(readN(r, 4)).To(Equal("abcd"))
			Expect(b.NumChunks()).To(Equal(1))
			Expect(b.Size()).To(BeEquivalentTo(6))

			rest, err := io.ReadAll(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(rest)).To(Equal("efghij"))
			Expect(b.NumChunks()).To(BeZero())
			Expect(b.Size()).To(BeZero())
			r.Close()

			b.WriteString(strings.Repeat("z", 5))
			Expect(b.String()).To(Equal("zzzzz"))
		})
	})
})
