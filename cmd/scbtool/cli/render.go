/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/graceframework/grace-framework-sub000/cmn"
	"github.com/graceframework/grace-framework-sub000/cmn/cos"
	"github.com/graceframework/grace-framework-sub000/cmn/nlog"
	"github.com/graceframework/grace-framework-sub000/codec"
	"github.com/graceframework/grace-framework-sub000/scb"
	"github.com/graceframework/grace-framework-sub000/stats"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
)

// template syntax:
// ${text}                     - text written through the default (configured) codec
// <g:render template="path"/> - the rendered template embedded as a sub-buffer
var tagRE = regexp.MustCompile(`\$\{([^}]*)\}|<g:render\s+template="([^"]+)"\s*/>`)

const renderUsage = "render templates (directories are walked, partials prefixed with '_' skipped)\n" +
	"   and write the results to standard output in the order given"

var renderCmd = cli.Command{
	Name:      "render",
	Usage:     renderUsage,
	ArgsUsage: "FILE|DIR...",
	Flags:     []cli.Flag{codecFlag, connectFlag, chunkSizeFlag, statsFlag, metricsFlag},
	Action:    renderHandler,
}

type (
	// renderer renders one template tree; not shared between goroutines
	renderer struct {
		config  *cmn.Config
		tracker *stats.Tracker
		cache   map[string]*scb.Buffer // by absolute path
		stack   []string               // templates being rendered
	}
	renderOpts struct {
		enc     codec.Encoder
		connect bool
	}
)

func newRenderer(config *cmn.Config, tracker *stats.Tracker) *renderer {
	return &renderer{config: config, tracker: tracker, cache: make(map[string]*scb.Buffer, 4)}
}

func (r *renderer) newBuffer() (*scb.Buffer, error) {
	return scb.FromConfig(r.config, scb.WithTracker(r.tracker))
}

func (r *renderer) renderFile(fpath string) (*scb.Buffer, error) {
	abs, err := filepath.Abs(fpath)
	if err != nil {
		return nil, err
	}
	if b, ok := r.cache[abs]; ok {
		return b, nil
	}
	if slices.Contains(r.stack, abs) {
		return nil, errors.Errorf("template cycle: %s", strings.Join(append(r.stack, abs), " -> "))
	}
	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	b, err := r.newBuffer()
	if err != nil {
		return nil, err
	}
	r.stack = append(r.stack, abs)
	err = r.render(b, src, filepath.Dir(abs))
	r.stack = r.stack[:len(r.stack)-1]
	if err != nil {
		return nil, errors.WithMessage(err, fpath)
	}
	r.cache[abs] = b
	if nlog.FastV(4, nlog.SmoduleCLI) {
		nlog.Infof("rendered %s: %d bytes, %d chunk(s)", fpath, b.Size(), b.NumChunks())
	}
	return b, nil
}

func (r *renderer) render(b *scb.Buffer, src []byte, dir string) error {
	out := b.DefaultWriter()
	for len(src) > 0 {
		loc := tagRE.FindSubmatchIndex(src)
		if loc == nil {
			_, err := b.Write(src)
			return err
		}
		if loc[0] > 0 {
			if _, err := b.Write(src[:loc[0]]); err != nil {
				return err
			}
		}
		if loc[2] >= 0 {
			if _, err := out.Write(src[loc[2]:loc[3]]); err != nil {
				return err
			}
		} else {
			child, err := r.renderFile(filepath.Join(dir, string(src[loc[4]:loc[5]])))
			if err != nil {
				return err
			}
			if err := b.WriteBuffer(child); err != nil {
				return err
			}
		}
		src = src[loc[1]:]
	}
	return nil
}

const maxWalkErrs = 8

// expand directories (sorted walk); partials are only rendered when included
func expandArgs(args []string) ([]string, error) {
	var (
		files = make([]string, 0, len(args))
		errs  = cos.NewErrs(maxWalkErrs)
	)
	for _, arg := range args {
		finfo, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !finfo.IsDir() {
			files = append(files, arg)
			continue
		}
		opts := &godirwalk.Options{
			Callback: func(fqn string, de *godirwalk.Dirent) error {
				if de.IsRegular() && !strings.HasPrefix(de.Name(), "_") {
					files = append(files, fqn)
				}
				return nil
			},
			ErrorCallback: func(fqn string, err error) godirwalk.ErrorAction {
				nlog.Warningf("skipping %s: %v", fqn, err)
				errs.Add(err)
				return godirwalk.SkipNode
			},
		}
		if err := godirwalk.Walk(arg, opts); err != nil {
			return nil, err
		}
	}
	return files, errs.Err()
}

// renderAll renders each file into its own buffer, concurrently
func renderAll(ctx context.Context, config *cmn.Config, tracker *stats.Tracker, files []string) ([]*scb.Buffer, error) {
	var (
		bufs        = make([]*scb.Buffer, len(files))
		group, gctx = errgroup.WithContext(ctx)
	)
	for i, fpath := range files {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := newRenderer(config, tracker).renderFile(fpath)
			if err != nil {
				return err
			}
			bufs[i] = b
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return bufs, nil
}

// writeAll writes the rendered buffers to w, in order
func writeAll(w io.Writer, bufs []*scb.Buffer, config *cmn.Config, tracker *stats.Tracker, opts renderOpts) error {
	bw := bufio.NewWriter(w)
	if opts.connect {
		out := scb.New(&config.Buffer, scb.WithTracker(tracker))
		if err := out.ConnectTo(bw, false); err != nil {
			return err
		}
		for _, b := range bufs {
			var err error
			if opts.enc == nil {
				err = out.WriteBuffer(b)
			} else {
				err = out.WriteBuffer(b, opts.enc)
			}
			if err != nil {
				return err
			}
		}
		if err := out.Close(); err != nil {
			return err
		}
		return bw.Flush()
	}
	for _, b := range bufs {
		var err error
		if opts.enc == nil {
			_, err = b.WriteTo(bw)
		} else {
			err = b.EncodeTo(codec.NewWriterAppender(bw), opts.enc)
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

func renderHandler(c *cli.Context) error {
	if c.NArg() == 0 {
		return missingArgumentsError(c, "FILE|DIR")
	}
	config := appConfig(c)
	if flagIsSet(c, chunkSizeFlag) {
		bconf := config.Buffer
		bconf.ChunkSize = parseIntFlag(c, chunkSizeFlag)
		if err := bconf.Validate(); err != nil {
			return err
		}
		config.Buffer = bconf
	}
	var opts renderOpts
	if flagIsSet(c, codecFlag) {
		enc, err := codec.Default.MustLookup(parseStrFlag(c, codecFlag))
		if err != nil {
			return err
		}
		opts.enc = enc
	}
	opts.connect = flagIsSet(c, connectFlag)

	files, err := expandArgs(c.Args())
	if err != nil {
		return err
	}
	tracker := stats.NewTracker()
	bufs, err := renderAll(context.Background(), config, tracker, files)
	if err != nil {
		return err
	}
	if err := writeAll(c.App.Writer, bufs, config, tracker, opts); err != nil {
		return err
	}
	if flagIsSet(c, statsFlag) {
		if err := printStats(c.App.ErrWriter, tracker); err != nil {
			return err
		}
	}
	if flagIsSet(c, metricsFlag) {
		return printMetrics(c.App.ErrWriter, tracker)
	}
	return nil
}
