// Package nlog - grace logger, provides severities, line formatting,
// timestamping, and writing to stderr and/or a log file
/*
 * Copyright (c) 2023-2026, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

const nlogLineSize = 4 * 1024

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevErr
)

const sevChars = "IWE"

var (
	pool = sync.Pool{
		New: func() any {
			return &fixed{buf: make([]byte, nlogLineSize)}
		},
	}

	mu      sync.Mutex
	out     io.Writer = os.Stderr
	file    *os.File
	minSev  = sevInfo
	noFname bool
)

func log(sev severity, depth int, format string, args ...any) {
	if sev < minSev {
		return
	}
	fb := pool.Get().(*fixed)
	fb.reset()
	sprintf(sev, depth+1, format, fb, args...)

	mu.Lock()
	if out != nil {
		out.Write(fb.bytes())
	}
	if file != nil {
		if _, err := file.Write(fb.bytes()); err != nil {
			os.Stderr.WriteString("nlog: " + err.Error() + "\n")
		}
	}
	mu.Unlock()
	pool.Put(fb)
}

func formatHdr(sev severity, depth int, fb *fixed) {
	fb.writeByte(sevChars[sev])
	fb.writeByte(' ')
	fb.writeStamp(time.Now())
	fb.writeByte(' ')
	if noFname {
		return
	}
	_, fn, ln, ok := runtime.Caller(3 + depth)
	if !ok {
		return
	}
	if idx := strings.LastIndexByte(fn, filepath.Separator); idx > 0 {
		fn = fn[idx+1:]
	}
	fn = strings.TrimSuffix(fn, ".go")
	fb.writeString(fn)
	fb.writeByte(':')
	fb.writeString(strconv.Itoa(ln))
	fb.writeByte(' ')
}

func sprintf(sev severity, depth int, format string, fb *fixed, args ...any) {
	formatHdr(sev, depth+1, fb)
	if format == "" {
		fmt.Fprintln(fb, args...)
	} else {
		fmt.Fprintf(fb, format, args...)
	}
	fb.eol()
}

func logfname(dir, tag string, t time.Time) string {
	host := "unknown"
	if h, err := os.Hostname(); err == nil {
		host, _, _ = strings.Cut(h, ".")
	}
	name := fmt.Sprintf("%s.%s.%s.%02d%02d-%02d%02d%02d.%d",
		filepath.Base(os.Args[0]), host, tag,
		t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), os.Getpid())
	return filepath.Join(dir, name)
}
