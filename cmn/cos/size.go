// Package cos provides common low-level types and utilities for all grace packages.
/*
 * Copyright (c) 2022-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// IEC (binary) units
const (
	KiB = 1024
	MiB = 1024 * KiB
	GiB = 1024 * MiB
)

const (
	SizeofI64 = 8
	SizeofI32 = 4
)

// ParseSize parses "512", "4KiB", "1MiB", "2k" etc. into bytes
func ParseSize(s string) (int64, error) {
	var (
		mult int64 = 1
		u          = strings.ToUpper(strings.TrimSpace(s))
	)
	for _, sfx := range []struct {
		s string
		m int64
	}{
		{"KIB", KiB}, {"MIB", MiB}, {"GIB", GiB},
		{"KB", KiB}, {"MB", MiB}, {"GB", GiB},
		{"K", KiB}, {"M", MiB}, {"G", GiB}, {"B", 1},
	} {
		if strings.HasSuffix(u, sfx.s) {
			mult = sfx.m
			u = strings.TrimSpace(strings.TrimSuffix(u, sfx.s))
			break
		}
	}
	n, err := strconv.ParseInt(u, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid size %q", s)
	}
	if n < 0 {
		return 0, errors.Errorf("negative size %q", s)
	}
	return n * mult, nil
}

func ToSizeIEC(b int64) string {
	switch {
	case b >= GiB:
		return strconv.FormatFloat(float64(b)/GiB, 'f', 2, 64) + "GiB"
	case b >= MiB:
		return strconv.FormatFloat(float64(b)/MiB, 'f', 2, 64) + "MiB"
	case b >= KiB:
		return strconv.FormatFloat(float64(b)/KiB, 'f', 2, 64) + "KiB"
	default:
		return strconv.FormatInt(b, 10) + "B"
	}
}
