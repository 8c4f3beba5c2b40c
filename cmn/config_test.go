/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cmn_test

import (
	"os"
	"path/filepath"

	"github.com/graceframework/grace-framework-sub000/cmn"
	"github.com/graceframework/grace-framework-sub000/cmn/cos"
	"github.com/graceframework/grace-framework-sub000/cmn/jsp"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("should carry the defaults", func() {
		config := cmn.DefaultConfig()
		Expect(config.Validate()).To(Succeed())
		Expect(config.Buffer.ChunkSize).To(Equal(512))
		Expect(config.Buffer.MaxChunkSize).To(Equal(cos.MiB))
		Expect(config.Buffer.GrowPercent).To(Equal(100))
		Expect(config.Buffer.WriteDirectlyToConnectedMinSize).To(Equal(1024))
		Expect(config.Codec.Default).To(Equal("HTML"))
	})

	DescribeTable("should save and load",
		func(fname string, opts jsp.Options) {
			config := cmn.DefaultConfig()
			config.Buffer.ChunkSize = 2048
			config.Buffer.DisableSubBuffers = true
			config.Codec.Default = "URL"
			config.Log.Verbosity = 3

			fpath := filepath.Join(dir, fname)
			Expect(cmn.SaveConfig(fpath, config, opts)).To(Succeed())
			loaded, err := cmn.LoadConfig(fpath)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(config))
		},
		Entry("json", "grace.json", jsp.Plain()),
		Entry("signed json", "grace.json", jsp.CksumSign()),
		Entry("compressed json", "grace.json", jsp.CCSign()),
		Entry("yaml", "grace.yaml", jsp.Options{}),
	)

	It("should keep defaults for missing fields", func() {
		fpath := filepath.Join(dir, "partial.yml")
		Expect(os.WriteFile(fpath, []byte("buffer:\n  chunk_size: 64\n"), 0o644)).To(Succeed())
		config, err := cmn.LoadConfig(fpath)
		Expect(err).NotTo(HaveOccurred())
		Expect(config.Buffer.ChunkSize).To(Equal(64))
		Expect(config.Buffer.SubStringChunkMinSize).To(Equal(cmn.DefaultSubStringChunkMinSize))
		Expect(config.Codec.Default).To(Equal(cmn.DefaultCodec))
	})

	It("should reject unknown fields", func() {
		fpath := filepath.Join(dir, "bad.yaml")
		Expect(os.WriteFile(fpath, []byte("buffer:\n  chunk_sz: 64\n"), 0o644)).To(Succeed())
		_, err := cmn.LoadConfig(fpath)
		Expect(err).To(HaveOccurred())

		fpath = filepath.Join(dir, "bad.json")
		Expect(os.WriteFile(fpath, []byte(`{"buffer": {"chunk_sz": 64}}`), 0o644)).To(Succeed())
		_, err = cmn.LoadConfig(fpath)
		Expect(err).To(HaveOccurred())
	})

	It("should validate", func() {
		fpath := filepath.Join(dir, "invalid.yaml")
		Expect(os.WriteFile(fpath, []byte("buffer:\n  chunk_size: 0\n"), 0o644)).To(Succeed())
		_, err := cmn.LoadConfig(fpath)
		Expect(err).To(MatchError(ContainSubstring("chunk_size")))

		config := cmn.DefaultConfig()
		config.Buffer.MaxChunkSize = 1
		Expect(config.Validate()).NotTo(Succeed())
		config = cmn.DefaultConfig()
		config.Log.Level = "verbose"
		Expect(config.Validate()).NotTo(Succeed())
		Expect(cmn.SaveConfig(filepath.Join(dir, "x.json"), config, jsp.Plain())).NotTo(Succeed())
	})

	It("should apply environment overrides", func() {
		GinkgoT().Setenv(cmn.EnvChunkSize, "4KiB")
		GinkgoT().Setenv(cmn.EnvDefaultCodec, "JavaScript")
		config := cmn.DefaultConfig()
		Expect(config.Env()).To(Succeed())
		Expect(config.Buffer.ChunkSize).To(Equal(4 * cos.KiB))
		Expect(config.Buffer.MaxChunkSize).To(Equal(cos.MiB))
		Expect(config.Codec.Default).To(Equal("JavaScript"))

		GinkgoT().Setenv(cmn.EnvMaxChunkSize, "lots")
		Expect(config.Env()).NotTo(Succeed())
	})
})
