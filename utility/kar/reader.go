// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/pierrec/lz4"
)

// Open opens the kar archive from r. It will also check
// if the file is actually a kar archive, will return an error
// when file incorrect.
func Open(r io.ReaderAt) (*Archive, error) {
	prefix := make([]byte, MagicLength+HeaderSizeNumberLength)
	if _, err := r.ReadAt(prefix, 0); err != nil {
		if err == io.EOF {
			return nil, ErrFileFormat
		}
		return nil, err
	}
	if !bytes.Equal(prefix[:MagicLength], magic[:]) {
		return nil, ErrFileFormat
	}

	headerSize, err := binaryToint64(prefix[MagicLength:])
	if err != nil || headerSize <= 0 || headerSize > MaxHeaderSize {
		return nil, ErrFileFormat
	}
	size, sized := sizeOf(r)
	if sized && headerSize > size-int64(len(prefix)) {
		return nil, ErrFileFormat
	}

	headerBytes := make([]byte, headerSize)
	if _, err := r.ReadAt(headerBytes, int64(len(prefix))); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrFileFormat
		}
		return nil, err
	}

	var header Header
	if err := gobDecode(&header, headerBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileFormat, err)
	}

	ar := &Archive{
		reader:    r,
		header:    header,
		dataStart: int64(len(prefix)) + headerSize,
		index:     make(map[string]IndexEntry, len(header.Index)),
	}
	for _, e := range header.Index {
		if e.Offset < 0 || e.Size < 0 || e.CompressedSize < 0 {
			return nil, fmt.Errorf("%w: %s has a negative extent", ErrFileFormat, e.Name)
		}
		if sized && e.CompressedSize > size-ar.dataStart-e.Offset {
			return nil, fmt.Errorf("%w: %s extends past the end", ErrFileFormat, e.Name)
		}
		ar.index[e.Name] = e
	}
	return ar, nil
}

// sizeOf reports the total length of r when r knows it.
func sizeOf(r io.ReaderAt) (int64, bool) {
	switch s := r.(type) {
	case interface{ Size() int64 }:
		return s.Size(), true
	case interface{ Len() int }:
		return int64(s.Len()), true
	}
	return 0, false
}

// Archive provides concurrent io for a kar file, and can provide
// an io.Reader for each file separately to perform actions on.
type Archive struct {
	reader    io.ReaderAt
	header    Header
	dataStart int64
	index     map[string]IndexEntry
}

// Header returns the archive header, index included.
func (a *Archive) Header() Header {
	return a.header
}

// Names returns the sorted names of all files in the Archive.
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.index))
	for name := range a.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stat returns the index entry of a file.
func (a *Archive) Stat(name string) (IndexEntry, error) {
	e, ok := a.index[name]
	if !ok {
		return IndexEntry{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return e, nil
}

// ReadAll returns the entire contents of a file with a given name
func (a *Archive) ReadAll(name string) ([]byte, error) {
	r, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// Open returns a Reader for a file in the Archive
func (a *Archive) Open(name string) (*Reader, error) {
	e, err := a.Stat(name)
	if err != nil {
		return nil, err
	}
	section := io.NewSectionReader(a.reader, a.dataStart+e.Offset, e.CompressedSize)
	return &Reader{
		entry:  e,
		reader: lz4.NewReader(section),
	}, nil
}

// Reader is a reader for a single file in an Archive.
// Abstracts away the location that needs to be known.
type Reader struct {
	entry  IndexEntry
	reader io.Reader
}

// Read reads already decompressed data
func (r *Reader) Read(p []byte) (n int, err error) {
	return r.reader.Read(p)
}

// Size returns the decompressed size of the file.
func (r *Reader) Size() int64 {
	return r.entry.Size
}

// Name returns the name of the file in the Archive.
func (r *Reader) Name() string {
	return r.entry.Name
}
