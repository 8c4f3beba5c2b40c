// Package nlog - grace logger, provides severities, line formatting,
// timestamping, and writing to stderr and/or a log file
/*
 * Copyright (c) 2023-2026, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

import (
	"io"
	"os"
	"sync/atomic"
	"time"
)

// log modules
const (
	SmoduleSCB = iota
	SmoduleMemsys
	SmoduleCodec
	SmoduleCLI

	numModules
)

var verbosity [numModules]atomic.Int32

func InfoDepth(depth int, args ...any)    { log(sevInfo, depth, "", args...) }
func Infoln(args ...any)                  { log(sevInfo, 0, "", args...) }
func Infof(format string, args ...any)    { log(sevInfo, 0, format, args...) }
func Warningln(args ...any)               { log(sevWarn, 0, "", args...) }
func Warningf(format string, args ...any) { log(sevWarn, 0, format, args...) }
func ErrorDepth(depth int, args ...any)   { log(sevErr, depth, "", args...) }
func Errorln(args ...any)                 { log(sevErr, 0, "", args...) }
func Errorf(format string, args ...any)   { log(sevErr, 0, format, args...) }

// SetV sets verbosity of a given log module.
func SetV(smodule uint8, level int) { verbosity[smodule].Store(int32(level)) }

// FastV is meant for hot paths: `if nlog.FastV(4, nlog.SmoduleSCB) { nlog.Infoln(...) }`
func FastV(level int, smodule uint8) bool { return verbosity[smodule].Load() >= int32(level) }

// SetOutput replaces the stderr sink; nil disables it.
func SetOutput(w io.Writer) {
	mu.Lock()
	out = w
	mu.Unlock()
}

// SetLevel drops everything below the named severity ("info", "warning", "error").
func SetLevel(s string) {
	mu.Lock()
	switch s {
	case "warning", "warn":
		minSev = sevWarn
	case "error":
		minSev = sevErr
	default:
		minSev = sevInfo
	}
	mu.Unlock()
}

// HideFileLine omits the "file:line" part of the header.
func HideFileLine(hide bool) {
	mu.Lock()
	noFname = hide
	mu.Unlock()
}

// SetLogDir additionally writes all log lines into a newly created file under dir.
func SetLogDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(logfname(dir, "INFO", time.Now()), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return err
	}
	mu.Lock()
	if file != nil {
		file.Close()
	}
	file = f
	mu.Unlock()
	return nil
}

func Flush() {
	mu.Lock()
	if file != nil {
		file.Sync()
	}
	mu.Unlock()
}

func Close() {
	mu.Lock()
	if file != nil {
		file.Close()
		file = nil
	}
	mu.Unlock()
}
