// Package jsp (JSON persistence) provides utilities to store and load arbitrary
// JSON-encoded structures with optional checksumming and compression.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package jsp

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/graceframework/grace-framework-sub000/cmn/debug"
	"github.com/graceframework/grace-framework-sub000/cmn/nlog"
)

// Save writes v into a temp file and renames it into place.
func Save(fpath string, v any, opts Options) (err error) {
	var (
		file *os.File
		tmp  = fpath + ".tmp." + strconv.Itoa(os.Getpid())
	)
	if err = os.MkdirAll(filepath.Dir(fpath), 0o755); err != nil {
		return
	}
	if file, err = os.Create(tmp); err != nil {
		return
	}
	defer func() {
		if err != nil {
			errRm := os.Remove(tmp)
			debug.AssertNoErr(errRm)
		}
	}()
	if err = Encode(file, v, opts); err != nil {
		file.Close()
		return
	}
	if err = file.Close(); err != nil {
		return
	}
	return os.Rename(tmp, fpath)
}

func Load(fpath string, v any, opts Options) error {
	file, err := os.Open(fpath)
	if err != nil {
		return err
	}
	defer file.Close()
	err = Decode(file, v, opts, fpath)
	if _, ok := err.(*ErrBadCksum); ok {
		nlog.Errorf("%v (keeping %s for inspection)", err, fpath)
	}
	return err
}
