/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/graceframework/grace-framework-sub000/cmn/cos"
	"github.com/graceframework/grace-framework-sub000/codec"
	"github.com/graceframework/grace-framework-sub000/scb"
	"github.com/graceframework/grace-framework-sub000/stats"

	jsoniter "github.com/json-iterator/go"
	"github.com/pierrec/lz4/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/urfave/cli"
)

// lz4 frame magic, little-endian
var lz4Magic = []byte{0x04, 0x22, 0x4d, 0x18}

var (
	compressFlag = cli.BoolFlag{
		Name:  "compress",
		Usage: "lz4-compress the saved buffer",
	}
	partsFlag = cli.BoolFlag{
		Name:  "parts",
		Usage: "print encoding-state parts to standard error",
	}

	saveCmd = cli.Command{
		Name:      "save",
		Usage:     "render a template and save the result in external (msgpack) form",
		ArgsUsage: "FILE",
		Flags:     []cli.Flag{outFlag, codecFlag, compressFlag},
		Action:    saveHandler,
	}
	loadCmd = cli.Command{
		Name:      "load",
		Usage:     "load a saved buffer and write its content to standard output",
		ArgsUsage: "FILE",
		Flags:     []cli.Flag{partsFlag},
		Action:    loadHandler,
	}
)

func saveHandler(c *cli.Context) error {
	if c.NArg() == 0 {
		return missingArgumentsError(c, "FILE")
	}
	if !flagIsSet(c, outFlag) {
		return missingArgumentsError(c, "--"+fl1n(outFlag.Name))
	}
	config := appConfig(c)
	b, err := newRenderer(config, stats.NewTracker()).renderFile(c.Args().First())
	if err != nil {
		return err
	}
	if flagIsSet(c, codecFlag) {
		enc, err := codec.Default.MustLookup(parseStrFlag(c, codecFlag))
		if err != nil {
			return err
		}
		b = b.EncodeToBuffer(enc)
	}
	fqn := parseStrFlag(c, outFlag)
	if err := saveBuffer(fqn, b, flagIsSet(c, compressFlag)); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "saved %s (%s)\n", fcyan(fqn), cos.ToSizeIEC(b.Size()))
	return nil
}

func saveBuffer(fqn string, b *scb.Buffer, compress bool) (err error) {
	fh, err := os.Create(fqn)
	if err != nil {
		return err
	}
	defer func() {
		if erc := fh.Close(); err == nil {
			err = erc
		}
		if err != nil {
			os.Remove(fqn)
		}
	}()
	if !compress {
		return b.WriteExternal(fh)
	}
	zw := lz4.NewWriter(fh)
	if err = b.WriteExternal(zw); err != nil {
		return err
	}
	return zw.Close()
}

func loadBuffer(fqn string) (*scb.Buffer, error) {
	fh, err := os.Open(fqn)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	br := bufio.NewReader(fh)
	var r io.Reader = br
	if magic, _ := br.Peek(len(lz4Magic)); bytes.Equal(magic, lz4Magic) {
		r = lz4.NewReader(br)
	}
	b := scb.New(nil)
	if err := b.ReadExternal(r); err != nil {
		return nil, err
	}
	return b, nil
}

func loadHandler(c *cli.Context) error {
	if c.NArg() == 0 {
		return missingArgumentsError(c, "FILE")
	}
	b, err := loadBuffer(c.Args().First())
	if err != nil {
		return err
	}
	if _, err := b.WriteTo(c.App.Writer); err != nil {
		return err
	}
	if flagIsSet(c, partsFlag) {
		printParts(c.App.ErrWriter, b)
	}
	return nil
}

func printParts(w io.Writer, b *scb.Buffer) {
	var (
		off             int
		tw              = tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		states, lengths = b.Parts()
	)
	fmt.Fprintln(tw, fcyan("OFFSET\tLENGTH\tSTATE"))
	for i, state := range states {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", off, lengths[i], state)
		off += lengths[i]
	}
	tw.Flush()
}

func printStats(w io.Writer, tracker *stats.Tracker) error {
	b, err := jsoniter.MarshalIndent(tracker.Copy(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, fcyan("stats:"))
	_, err = fmt.Fprintln(w, string(b))
	tracker.Log()
	return err
}

// printMetrics gathers a private registry holding only the tracker
func printMetrics(w io.Writer, tracker *stats.Tracker) error {
	reg := prometheus.NewRegistry()
	if err := stats.NewCollector(tracker).Register(reg); err != nil {
		return err
	}
	mfs, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
