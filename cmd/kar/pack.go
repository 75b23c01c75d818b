// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/glhost/assets"
	"github.com/devblok/glhost/utility/kar"
)

func newBar(max int, description string, silent bool) *progressbar.ProgressBar {
	if silent {
		return progressbar.DefaultSilent(int64(max), description)
	}
	return progressbar.Default(int64(max), description)
}

// packDir compresses every file under dir into a new archive at dst.
// Files are compressed concurrently.
func packDir(dir, dst string, header kar.Header, silent bool) error {
	if _, err := os.Stat(dst); err == nil {
		return errors.New("destination file exists, will not overwrite")
	}

	src, err := assets.NewDir(dir)
	if err != nil {
		return err
	}
	defer src.Close()

	builder, err := kar.NewBuilder(header)
	if err != nil {
		return err
	}
	defer builder.Close()

	names := src.Names()
	bar := newBar(len(names), "packing", silent)

	work := make(chan string)
	errs := make(chan error, len(names))
	var wg sync.WaitGroup
	for i := 0; i < runtime.NumCPU(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range work {
				data, err := src.ReadFile(name)
				if err == nil {
					err = builder.Add(name, bytes.NewReader(data))
				}
				if err != nil {
					errs <- fmt.Errorf("%s: %w", name, err)
				}
				bar.Add(1)
			}
		}()
	}
	for _, name := range names {
		work <- name
	}
	close(work)
	wg.Wait()
	close(errs)
	bar.Finish()

	if err := <-errs; err != nil {
		return err
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	written, err := builder.WriteTo(f)
	if err != nil {
		f.Close()
		return err
	}
	log.WithFields(log.Fields{
		"files":   len(names),
		"written": written,
		"dst":     dst,
	}).Info("archive written")
	return f.Close()
}

// extractArchive writes every file of the archive under out.
func extractArchive(path, out string, silent bool) error {
	src, err := assets.OpenArchive(path)
	if err != nil {
		return err
	}
	defer src.Close()

	names := src.Names()
	bar := newBar(len(names), "extracting", silent)
	defer bar.Finish()

	for _, name := range names {
		target := filepath.Join(out, filepath.FromSlash(name))
		if rel, err := filepath.Rel(out, target); err != nil || strings.HasPrefix(rel, "..") {
			return fmt.Errorf("%s: path escapes destination", name)
		}
		data, err := src.ReadFile(name)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return err
		}
		bar.Add(1)
	}
	return nil
}

// listArchive prints the index of the archive, one file per line.
func listArchive(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ar, err := kar.Open(f)
	if err != nil {
		return err
	}
	for _, entry := range ar.Header().Index {
		fmt.Fprintln(w, describe(entry))
	}
	return nil
}
