/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package memsys_test

import (
	"bytes"
	"io"
	"strings"

	"github.com/graceframework/grace-framework-sub000/memsys"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ByteBuffer", func() {
	const chunkSize = memsys.MinChunkSize

	payload := func(n int) string {
		var sb strings.Builder
		for i := range n {
			sb.WriteByte(byte('a' + i%26))
		}
		return sb.String()
	}

	Describe("remove after reading", func() {
		var z *memsys.ByteBuffer

		BeforeEach(func() {
			z = memsys.NewByteBuffer(chunkSize, memsys.RemoveAfterReading)
		})
		AfterEach(func() {
			z.Free()
		})

		It("should release consumed chunks", func() {
			data := payload(3*chunkSize + 10)
			n, err := z.WriteString(data)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(len(data)))
			Expect(z.Len()).To(BeEquivalentTo(len(data)))
			// 256, 512, 1024
			Expect(z.NumChunks()).To(Equal(3))

			p := make([]byte, chunkSize)
			_, err = io.ReadFull(z, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(p)).To(Equal(data[:chunkSize]))
			Expect(z.Len()).To(BeEquivalentTo(len(data) - chunkSize))

			// the first chunk goes away upon the next read
			c, err := z.ReadByte()
			Expect(err).NotTo(HaveOccurred())
			Expect(c).To(Equal(data[chunkSize]))
			Expect(z.NumChunks()).To(Equal(2))
			Expect(z.Size()).To(BeEquivalentTo(len(data) - chunkSize))

			Expect(z.UnreadByte()).To(Succeed())
			Expect(z.String()).To(Equal(data[chunkSize:]))
			Expect(string(z.ReadAll())).To(Equal(data[chunkSize:]))
			Expect(z.Len()).To(BeZero())

			_, err = z.Read(p)
			Expect(err).To(Equal(io.EOF))
			Expect(z.Rewind()).To(HaveOccurred())
		})

		It("should interleave writes and reads", func() {
			var out bytes.Buffer
			for i := range 100 {
				z.WriteString(payload(i))
				Expect(z.WriteByte('|')).To(Succeed())
				if i%3 == 0 {
					_, err := z.WriteTo(&out)
					Expect(err).NotTo(HaveOccurred())
				}
			}
			_, err := z.WriteTo(&out)
			Expect(err).NotTo(HaveOccurred())

			var expected strings.Builder
			for i := range 100 {
				expected.WriteString(payload(i))
				expected.WriteByte('|')
			}
			Expect(out.String()).To(Equal(expected.String()))
			Expect(z.Len()).To(BeZero())
		})

		It("should read from a reader", func() {
			data := payload(5000)
			n, err := z.ReadFrom(strings.NewReader(data))
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeEquivalentTo(5000))
			Expect(z.String()).To(Equal(data))
		})
	})

	Describe("retain after reading", func() {
		var z *memsys.ByteBuffer

		BeforeEach(func() {
			z = memsys.NewByteBufferMax(chunkSize, 2*chunkSize, memsys.RetainAfterReading)
		})
		AfterEach(func() {
			z.Free()
		})

		It("should replay after rewind", func() {
			data := payload(2000)
			z.Write([]byte(data))
			first, err := io.ReadAll(z)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(first)).To(Equal(data))
			Expect(z.Len()).To(BeZero())
			Expect(z.Size()).To(BeEquivalentTo(2000))

			Expect(z.Rewind()).To(Succeed())
			Expect(z.Len()).To(BeEquivalentTo(2000))
			second, err := io.ReadAll(z)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})

		It("should open independent readers", func() {
			data := payload(1500)
			z.WriteString(data)
			r1, r2 := z.Open(), z.Open()

			b1, err := io.ReadAll(r1)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(b1)).To(Equal(data))

			off, err := r2.Seek(-100, io.SeekEnd)
			Expect(err).NotTo(HaveOccurred())
			Expect(off).To(BeEquivalentTo(1400))
			var sb strings.Builder
			_, err = r2.WriteTo(&sb)
			Expect(err).NotTo(HaveOccurred())
			Expect(sb.String()).To(Equal(data[1400:]))

			_, err = r2.Seek(-1, io.SeekStart)
			Expect(err).To(HaveOccurred())
			// the buffer's own cursor is untouched
			Expect(z.Len()).To(BeEquivalentTo(1500))
		})

		It("should clear and reuse", func() {
			z.WriteString(payload(1000))
			z.Clear()
			Expect(z.Size()).To(BeZero())
			Expect(z.NumChunks()).To(Equal(1))
			z.WriteString("again")
			Expect(z.String()).To(Equal("again"))
		})
	})

	It("should pool chunks", func() {
		z := memsys.NewByteBuffer(chunkSize, memsys.RemoveAfterReading)
		z.WriteString(payload(chunkSize))
		z.Free()
		before := memsys.Stats()[0].Hits

		z = memsys.NewByteBuffer(chunkSize, memsys.RemoveAfterReading)
		z.WriteString(payload(chunkSize))
		Expect(memsys.Stats()[0].Size).To(Equal(chunkSize))
		Expect(memsys.Stats()[0].Hits).To(BeNumerically(">=", before))
		z.Free()
	})
})
