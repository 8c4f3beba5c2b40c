// Package main is the scbtool command-line entry point
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/graceframework/grace-framework-sub000/cmd/scbtool/cli"
	"github.com/graceframework/grace-framework-sub000/cmn/nlog"
)

var (
	build     string
	buildtime string
)

const version = "1.0"

func dispatchInterruptHandler() {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt)
	go func() {
		<-stopCh
		nlog.Flush()
		os.Exit(0)
	}()
}

func main() {
	dispatchInterruptHandler()
	if err := cli.Run(version+"."+build, buildtime, os.Args); err != nil {
		exitf("%v", err)
	}
	nlog.Flush()
}

func exitf(f string, a ...any) {
	nlog.Flush()
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}
