// Package tassert provides common asserts for tests
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tassert

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"strings"
	"testing"
	"time"
)

// stack frames outside this repo are not printed
const repoName = "grace-framework"

func stamp() string { return "[" + time.Now().Format("15:04:05.000000") + "]" }

func CheckFatal(tb testing.TB, err error) {
	if err != nil {
		tb.Helper()
		printStack()
		tb.Fatal(stamp(), err)
	}
}

func CheckError(tb testing.TB, err error) {
	if err != nil {
		tb.Helper()
		printStack()
		tb.Error(stamp(), err)
	}
}

func Fatal(tb testing.TB, cond bool, msg string) {
	if !cond {
		tb.Helper()
		printStack()
		tb.Fatal(msg)
	}
}

func Fatalf(tb testing.TB, cond bool, format string, args ...any) {
	if !cond {
		tb.Helper()
		printStack()
		tb.Fatalf(format, args...)
	}
}

func Error(tb testing.TB, cond bool, msg string) {
	if !cond {
		tb.Helper()
		printStack()
		tb.Error(msg)
	}
}

func Errorf(tb testing.TB, cond bool, format string, args ...any) {
	if !cond {
		tb.Helper()
		printStack()
		tb.Errorf(format, args...)
	}
}

// Panics fails the test unless f panics
func Panics(tb testing.TB, f func(), msg string) {
	tb.Helper()
	defer func() {
		if r := recover(); r == nil {
			printStack()
			tb.Error("expected panic: " + msg)
		}
	}()
	f()
}

func printStack() {
	var buffer bytes.Buffer
	fmt.Fprintln(os.Stderr, "    tassert.printStack:")
	for i := 2; i < 10; i++ {
		_, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		j := strings.Index(file, repoName)
		if j < 0 {
			break
		}
		fmt.Fprintf(&buffer, "\t%s:%d\n", file[j:], line)
	}
	os.Stderr.Write(buffer.Bytes())
}
