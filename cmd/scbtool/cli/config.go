/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package cli

import (
	"fmt"

	"github.com/graceframework/grace-framework-sub000/cmn"
	"github.com/graceframework/grace-framework-sub000/cmn/jsp"

	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"
)

var configCmd = cli.Command{
	Name:  "config",
	Usage: "show or initialize configuration",
	Subcommands: []cli.Command{
		{
			Name:   "show",
			Usage:  "show the effective configuration (defaults, --config file, and environment) in YAML",
			Action: showConfigHandler,
		},
		{
			Name:   "init",
			Usage:  "write the default configuration (format by extension: .yaml/.yml or JSON)",
			Flags:  []cli.Flag{outFlag, signFlag},
			Action: initConfigHandler,
		},
	},
}

func showConfigHandler(c *cli.Context) error {
	b, err := yaml.Marshal(appConfig(c))
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(b)
	return err
}

func initConfigHandler(c *cli.Context) error {
	if !flagIsSet(c, outFlag) {
		return missingArgumentsError(c, "--"+fl1n(outFlag.Name))
	}
	var (
		fqn  = parseStrFlag(c, outFlag)
		opts = jsp.Plain()
	)
	if flagIsSet(c, signFlag) {
		opts = jsp.CksumSign()
	}
	if err := cmn.SaveConfig(fqn, cmn.DefaultConfig(), opts); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "created %s\n", fcyan(fqn))
	return nil
}
