//go:build debug

// Package debug provides build-tag gated assertions and debug-only logging
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package debug

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/graceframework/grace-framework-sub000/cmn/nlog"
)

func init() {
	loadLogLevel()
}

// GRACE_DEBUG=scb=4,memsys=3 (same format as GODEBUG)
func loadLogLevel() {
	modules := map[string]uint8{
		"scb":    nlog.SmoduleSCB,
		"memsys": nlog.SmoduleMemsys,
		"codec":  nlog.SmoduleCodec,
	}
	val := os.Getenv("GRACE_DEBUG")
	if val == "" {
		return
	}
	for _, ele := range strings.Split(val, ",") {
		pair := strings.Split(ele, "=")
		if len(pair) != 2 {
			fatalMsg("failed to parse module=level element: %q", ele)
		}
		smodule, exists := modules[pair[0]]
		if !exists {
			fatalMsg("unknown module: %s", pair[0])
		}
		level, err := strconv.Atoi(pair[1])
		if err != nil || level <= 0 {
			fatalMsg("invalid verbosity level=%s, err: %v", pair[1], err)
		}
		nlog.SetV(smodule, level)
	}
}

func fatalMsg(f string, a ...any) {
	s := fmt.Sprintf(f, a...)
	if s == "" || s[len(s)-1] != '\n' {
		fmt.Fprintln(os.Stderr, s)
	} else {
		fmt.Fprint(os.Stderr, s)
	}
	os.Exit(1)
}

func ON() bool { return true }

func Infof(f string, a ...any) {
	nlog.InfoDepth(1, fmt.Sprintf("[DEBUG] "+f, a...))
}

func Errorf(f string, a ...any) {
	nlog.ErrorDepth(1, fmt.Sprintf("[DEBUG] "+f, a...))
}

func Func(f func()) { f() }

func Assert(cond bool, a ...any) {
	if !cond {
		nlog.Flush()
		if len(a) > 0 {
			panic("DEBUG PANIC: " + fmt.Sprint(a...))
		}
		panic("DEBUG PANIC")
	}
}

func AssertFunc(f func() bool, a ...any) { Assert(f(), a...) }

func AssertNoErr(err error) {
	if err != nil {
		nlog.Flush()
		panic(err)
	}
}

func Assertf(cond bool, f string, a ...any) {
	if !cond {
		Assert(false, fmt.Sprintf(f, a...))
	}
}
