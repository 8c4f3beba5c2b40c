// Package cmn provides common configuration types and utilities for all grace packages
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cmn

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/graceframework/grace-framework-sub000/cmn/cos"
	"github.com/graceframework/grace-framework-sub000/cmn/jsp"
	"github.com/graceframework/grace-framework-sub000/cmn/nlog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// environment overrides
const (
	EnvChunkSize    = "GRACE_SCB_CHUNK_SIZE"
	EnvMaxChunkSize = "GRACE_SCB_MAX_CHUNK_SIZE"
	EnvDefaultCodec = "GRACE_DEFAULT_CODEC"
)

// buffer defaults
const (
	DefaultChunkSize             = 512
	DefaultMaxChunkSize          = cos.MiB
	DefaultGrowPercent           = 100
	DefaultSubStringChunkMinSize = 512
	DefaultSubBufferChunkMinSize = 512
	DefaultWriteDirectMinSize    = 1024
	DefaultChunkMinSize          = 256
	DefaultCodec                 = "HTML"
)

type (
	Config struct {
		Buffer BufferConf `json:"buffer" yaml:"buffer"`
		Codec  CodecConf  `json:"codec" yaml:"codec"`
		Log    LogConf    `json:"log" yaml:"log"`
	}
	BufferConf struct {
		ChunkSize             int `json:"chunk_size" yaml:"chunk_size"`                             // initial tail capacity
		MaxChunkSize          int `json:"max_chunk_size" yaml:"max_chunk_size"`                     // upper bound for grown tails
		GrowPercent           int `json:"grow_percent" yaml:"grow_percent"`                         // of the total allocated so far; 0 - never grow
		SubStringChunkMinSize int `json:"substring_chunk_min_size" yaml:"substring_chunk_min_size"` // strings this long become their own chunk
		SubBufferChunkMinSize int `json:"subbuffer_chunk_min_size" yaml:"subbuffer_chunk_min_size"` // buffers this long get embedded rather than copied
		// writes this long go straight to connected writers (negative: never)
		WriteDirectlyToConnectedMinSize int  `json:"write_direct_min_size" yaml:"write_direct_min_size"`
		ChunkMinSize                    int  `json:"chunk_min_size" yaml:"chunk_min_size"`
		DisableSubBuffers               bool `json:"disable_subbuffers" yaml:"disable_subbuffers"`
		DisableNotifyParents            bool `json:"disable_notify_parents" yaml:"disable_notify_parents"`
	}
	CodecConf struct {
		Default string `json:"default" yaml:"default"` // codec name used by DefaultWriter
	}
	LogConf struct {
		Level     string `json:"level" yaml:"level"` // info | warning | error
		Dir       string `json:"dir,omitempty" yaml:"dir,omitempty"`
		Verbosity int    `json:"verbosity" yaml:"verbosity"`
	}
)

func DefaultConfig() *Config {
	return &Config{
		Buffer: DefaultBufferConf(),
		Codec:  CodecConf{Default: DefaultCodec},
		Log:    LogConf{Level: "info"},
	}
}

func DefaultBufferConf() BufferConf {
	return BufferConf{
		ChunkSize:                       DefaultChunkSize,
		MaxChunkSize:                    DefaultMaxChunkSize,
		GrowPercent:                     DefaultGrowPercent,
		SubStringChunkMinSize:           DefaultSubStringChunkMinSize,
		SubBufferChunkMinSize:           DefaultSubBufferChunkMinSize,
		WriteDirectlyToConnectedMinSize: DefaultWriteDirectMinSize,
		ChunkMinSize:                    DefaultChunkMinSize,
	}
}

////////////////
// BufferConf //
////////////////

func (c *BufferConf) Validate() error {
	if c.ChunkSize <= 0 {
		return errors.Errorf("invalid chunk_size %d (expecting positive)", c.ChunkSize)
	}
	if c.MaxChunkSize < c.ChunkSize {
		return errors.Errorf("invalid max_chunk_size %d (must be >= chunk_size %d)", c.MaxChunkSize, c.ChunkSize)
	}
	if c.GrowPercent < 0 {
		return errors.Errorf("invalid grow_percent %d", c.GrowPercent)
	}
	if c.SubStringChunkMinSize < 0 || c.SubBufferChunkMinSize < 0 || c.ChunkMinSize < 0 {
		return errors.New("chunk min sizes cannot be negative")
	}
	return nil
}

////////////
// Config //
////////////

func (c *Config) Validate() error {
	if err := c.Buffer.Validate(); err != nil {
		return errors.WithMessage(err, "buffer")
	}
	if c.Codec.Default == "" {
		return errors.New("codec: missing default codec name")
	}
	switch c.Log.Level {
	case "", "info", "warning", "warn", "error":
	default:
		return errors.Errorf("log: invalid level %q", c.Log.Level)
	}
	return nil
}

// Env applies environment overrides
func (c *Config) Env() error {
	if s := os.Getenv(EnvChunkSize); s != "" {
		n, err := cos.ParseSize(s)
		if err != nil {
			return errors.WithMessage(err, EnvChunkSize)
		}
		c.Buffer.ChunkSize = int(n)
		c.Buffer.MaxChunkSize = max(c.Buffer.MaxChunkSize, c.Buffer.ChunkSize)
	}
	if s := os.Getenv(EnvMaxChunkSize); s != "" {
		n, err := cos.ParseSize(s)
		if err != nil {
			return errors.WithMessage(err, EnvMaxChunkSize)
		}
		c.Buffer.MaxChunkSize = int(n)
	}
	if s := os.Getenv(EnvDefaultCodec); s != "" {
		c.Codec.Default = s
	}
	return nil
}

// ApplyLog configures nlog
func (c *Config) ApplyLog() error {
	nlog.SetLevel(c.Log.Level)
	for _, smodule := range []uint8{nlog.SmoduleSCB, nlog.SmoduleMemsys, nlog.SmoduleCodec, nlog.SmoduleCLI} {
		nlog.SetV(smodule, c.Log.Verbosity)
	}
	if c.Log.Dir != "" {
		return nlog.SetLogDir(c.Log.Dir)
	}
	return nil
}

func isYAML(fpath string) bool {
	ext := strings.ToLower(filepath.Ext(fpath))
	return ext == ".yaml" || ext == ".yml"
}

// LoadConfig reads YAML (by extension) or JSON, the latter with or without jsp signature.
// Missing fields keep their defaults; the result is validated.
func LoadConfig(fpath string) (*Config, error) {
	config := DefaultConfig()
	b, err := os.ReadFile(fpath)
	if err != nil {
		return nil, err
	}
	switch {
	case isYAML(fpath):
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(config); err != nil {
			return nil, errors.Wrapf(err, "failed to load %q", fpath)
		}
	case jsp.HasSignature(b):
		if err := jsp.Decode(bytes.NewReader(b), config, jsp.CksumSign(), fpath); err != nil {
			return nil, err
		}
	default:
		if err := jsp.Decode(bytes.NewReader(b), config, jsp.Plain(), fpath); err != nil {
			return nil, err
		}
	}
	if err := config.Env(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "invalid config %q", fpath)
	}
	return config, nil
}

func SaveConfig(fpath string, config *Config, opts jsp.Options) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if !isYAML(fpath) {
		return jsp.Save(fpath, config, opts)
	}
	b, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "yaml")
	}
	return os.WriteFile(fpath, b, 0o644)
}
