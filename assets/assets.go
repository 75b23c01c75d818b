// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package assets resolves shader, texture and mesh files by name from a
// directory, an in-memory map or a kar archive.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobuffalo/packr"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/mmap"

	"github.com/devblok/glhost/utility/kar"
)

// ErrNotFound is returned when a source has no file of the given name.
var ErrNotFound = errors.New("asset not found")

// ArchiveSuffix marks paths opened as kar archives.
const ArchiveSuffix = ".kar"

// Source provides named assets.
type Source interface {

	// Open returns a reader for the named asset.
	Open(name string) (io.ReadCloser, error)

	// ReadFile returns the whole content of the named asset.
	ReadFile(name string) ([]byte, error)

	// Names lists every asset, sorted.
	Names() []string

	// Close frees whatever the source holds open.
	Close() error
}

// Open picks the source by path: a kar archive for ArchiveSuffix,
// otherwise a directory.
func Open(path string) (Source, error) {
	if strings.HasSuffix(path, ArchiveSuffix) {
		return OpenArchive(path)
	}
	return NewDir(path)
}

// Dir serves assets from a directory through a packr box.
type Dir struct {
	box packr.Box
}

// NewDir creates a Dir rooted at path. Relative paths are taken from
// the working directory.
func NewDir(path string) (*Dir, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", abs)
	}
	log.WithField("path", abs).Debug("assets: directory source")
	return &Dir{box: packr.NewBox(abs)}, nil
}

// Open implements Source
func (d *Dir) Open(name string) (io.ReadCloser, error) {
	data, err := d.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// ReadFile implements Source
func (d *Dir) ReadFile(name string) ([]byte, error) {
	if !d.box.Has(name) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return d.box.Find(name)
}

// Names implements Source
func (d *Dir) Names() []string {
	names := d.box.List()
	sort.Strings(names)
	return names
}

// Close implements Source
func (d *Dir) Close() error {
	return nil
}

// Memory serves assets from a map, keyed by name.
type Memory map[string][]byte

// Open implements Source
func (m Memory) Open(name string) (io.ReadCloser, error) {
	data, err := m.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// ReadFile implements Source
func (m Memory) ReadFile(name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return data, nil
}

// Names implements Source
func (m Memory) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close implements Source
func (m Memory) Close() error {
	return nil
}

// Archive serves assets from a memory mapped kar archive.
type Archive struct {
	mapped  *mmap.ReaderAt
	archive *kar.Archive
}

// OpenArchive memory maps the kar archive at path.
func OpenArchive(path string) (*Archive, error) {
	mapped, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	ar, err := kar.Open(mapped)
	if err != nil {
		mapped.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.WithFields(log.Fields{
		"path":  path,
		"files": len(ar.Names()),
	}).Debug("assets: archive source")
	return &Archive{mapped: mapped, archive: ar}, nil
}

// Open implements Source
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	r, err := a.archive.Open(name)
	if err != nil {
		return nil, a.wrap(name, err)
	}
	return io.NopCloser(r), nil
}

// ReadFile implements Source
func (a *Archive) ReadFile(name string) ([]byte, error) {
	data, err := a.archive.ReadAll(name)
	if err != nil {
		return nil, a.wrap(name, err)
	}
	return data, nil
}

// Names implements Source
func (a *Archive) Names() []string {
	return a.archive.Names()
}

// Close implements Source
func (a *Archive) Close() error {
	return a.mapped.Close()
}

func (a *Archive) wrap(name string, err error) error {
	if errors.Is(err, kar.ErrNotFound) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return err
}
