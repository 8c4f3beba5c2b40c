/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli"
)

const metaConfig = "config"

var (
	noColorFlag = cli.BoolFlag{
		Name:  "no-color",
		Usage: "disable colored output",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "configuration file (JSON, signed JSON, or YAML)",
	}
	verboseFlag = cli.IntFlag{
		Name:  "verbose, v",
		Usage: "log verbosity (overrides configured)",
	}
	codecFlag = cli.StringFlag{
		Name:  "codec",
		Usage: "codec to encode the output with (e.g. HTML, JavaScript, URL, Raw)",
	}
	connectFlag = cli.BoolFlag{
		Name:  "connect",
		Usage: "stream through a buffer connected to standard output",
	}
	chunkSizeFlag = cli.IntFlag{
		Name:  "chunk-size",
		Usage: "initial chunk size (overrides configured)",
	}
	statsFlag = cli.BoolFlag{
		Name:  "stats",
		Usage: "print buffer statistics to standard error",
	}
	metricsFlag = cli.BoolFlag{
		Name:  "metrics",
		Usage: "print buffer statistics to standard error in Prometheus text format",
	}
	outFlag = cli.StringFlag{
		Name:  "out, o",
		Usage: "output file",
	}
	signFlag = cli.BoolFlag{
		Name:  "sign",
		Usage: "save with signature and checksum",
	}
)

type errUsage struct {
	context *cli.Context
	message string
}

func (e *errUsage) Error() string {
	return fmt.Sprintf("Incorrect usage of %q: %s.\nSee '%s %s --help'.",
		e.context.Command.Name, e.message, cliName, e.context.Command.FullName())
}

func incorrectUsageMsg(c *cli.Context, f string, a ...any) error {
	return &errUsage{context: c, message: fmt.Sprintf(f, a...)}
}

func missingArgumentsError(c *cli.Context, what ...string) error {
	return incorrectUsageMsg(c, "missing arguments %s", strings.Join(what, ", "))
}

func incorrectUsageHandler(c *cli.Context, err error, _ bool) error {
	if err == nil {
		return nil
	}
	return incorrectUsageMsg(c, "%s", err.Error())
}

// "out, o" => "out"
func fl1n(flagName string) string {
	if i := strings.IndexByte(flagName, ','); i >= 0 {
		return strings.TrimSpace(flagName[:i])
	}
	return flagName
}

func flagIsSet(c *cli.Context, flag cli.Flag) (v bool) {
	name := fl1n(flag.GetName())
	switch flag.(type) {
	case cli.BoolFlag:
		v = c.Bool(name) || c.GlobalBool(name)
	default:
		v = c.GlobalIsSet(name) || c.IsSet(name)
	}
	return
}

// either parent or local scope
func parseStrFlag(c *cli.Context, flag cli.Flag) string {
	flagName := fl1n(flag.GetName())
	if c.GlobalIsSet(flagName) {
		return c.GlobalString(flagName)
	}
	return c.String(flagName)
}

func parseIntFlag(c *cli.Context, flag cli.IntFlag) int {
	flagName := fl1n(flag.GetName())
	if c.GlobalIsSet(flagName) {
		return c.GlobalInt(flagName)
	}
	return c.Int(flagName)
}

func parseBuildTime(s string) time.Time {
	if s == "" {
		return time.Now()
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Now()
	}
	return t
}
