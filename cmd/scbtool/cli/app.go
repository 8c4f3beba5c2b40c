// Package cli implements scbtool commands: render templates through streaming char
// buffers, save and load the buffers' external form, and manage configuration.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package cli

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/graceframework/grace-framework-sub000/cmn"
	"github.com/graceframework/grace-framework-sub000/cmn/nlog"

	"github.com/fatih/color"
	"github.com/urfave/cli"
)

const cliName = "scbtool"

var (
	fcyan func(a ...any) string
	fred  func(a ...any) string
)

type acli struct {
	app       *cli.App
	outWriter io.Writer
	errWriter io.Writer
}

// Run parses args and executes the command.
func Run(version, buildtime string, args []string) error {
	a := acli{app: cli.NewApp(), outWriter: os.Stdout, errWriter: os.Stderr}
	a.init(version, buildtime)
	return a.run(args)
}

func (a *acli) run(args []string) error {
	if err := a.app.Run(args); err != nil {
		return formatErr(err)
	}
	return nil
}

func redErr(err error) error {
	msg := strings.TrimRight(err.Error(), "\n")
	return errors.New(fred("Error: ") + msg)
}

func formatErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*errUsage); ok {
		return err
	}
	return redErr(err)
}

// load the --config file (if given), apply environment and logging
func onBeforeCommand(c *cli.Context) error {
	if flagIsSet(c, noColorFlag) {
		color.NoColor = true
	}
	config, err := loadConfig(c)
	if err != nil {
		return err
	}
	if flagIsSet(c, verboseFlag) {
		config.Log.Verbosity = parseIntFlag(c, verboseFlag)
	}
	if err := config.ApplyLog(); err != nil {
		return err
	}
	c.App.Metadata[metaConfig] = config
	if nlog.FastV(4, nlog.SmoduleCLI) {
		nlog.Infof("%s: chunk size %d, default codec %s", cliName, config.Buffer.ChunkSize, config.Codec.Default)
	}
	return nil
}

func loadConfig(c *cli.Context) (*cmn.Config, error) {
	if !flagIsSet(c, configFlag) {
		config := cmn.DefaultConfig()
		if err := config.Env(); err != nil {
			return nil, err
		}
		return config, config.Validate()
	}
	return cmn.LoadConfig(parseStrFlag(c, configFlag))
}

func appConfig(c *cli.Context) *cmn.Config {
	return c.App.Metadata[metaConfig].(*cmn.Config)
}

func (a *acli) init(version, buildtime string) {
	app := a.app

	fcyan = color.New(color.FgHiCyan).SprintFunc()
	fred = color.New(color.FgHiRed).SprintFunc()

	app.Name = cliName
	app.Usage = "render, save, and load streaming char buffers"
	app.Version = version
	app.Compiled = parseBuildTime(buildtime)
	app.HideHelp = true
	app.Flags = []cli.Flag{cli.HelpFlag, noColorFlag, configFlag, verboseFlag}
	app.Metadata = map[string]any{}
	app.Writer = a.outWriter
	app.ErrWriter = a.errWriter
	app.Before = onBeforeCommand
	// "v" is taken by --verbose
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version, V",
		Usage: "print only the version",
	}
	app.Commands = []cli.Command{
		renderCmd,
		saveCmd,
		loadCmd,
		configCmd,
	}
	setupCommandHelp(app.Commands)
}

func setupCommandHelp(commands []cli.Command) {
	for i := range commands {
		command := &commands[i]
		command.HideHelp = true
		command.Flags = append(command.Flags, cli.HelpFlag)
		command.OnUsageError = incorrectUsageHandler
		setupCommandHelp(command.Subcommands)
	}
}
