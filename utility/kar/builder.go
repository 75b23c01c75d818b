// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/pierrec/lz4"
	log "github.com/sirupsen/logrus"
)

// NewBuilder creates a new Builder. Do not fill the Index in
// the header, it will be overwritten anyway.
func NewBuilder(header Header) (*Builder, error) {
	temp, err := os.MkdirTemp("", "karBuilder")
	if err != nil {
		return nil, err
	}
	return &Builder{
		tempDir: temp,
		header:  header,
	}, nil
}

type tempFile struct {

	// Name is the actual name of the file
	Name string

	// TempName is the temporary name given by the Builder
	TempName string

	// Size before compression
	Size int64

	Compressed int64
}

// Builder is the high level builder for the archive format.
// Archives are versioned and cannot be appended to, this Builder
// is the way to create an archive. Whenever Add is called, the
// Builder stores the compressed file in a temporary dir, finally
// bundling them together and writing them out with WriteTo.
// Close removes the temporary dir.
type Builder struct {
	tempDir string
	header  Header
	counter uint64

	mutex sync.Mutex
	files []tempFile
}

// Add appends data to the builder with a given name.
// Will block until lz4 finishes compression. Is safe
// to use concurrently in different goroutines.
func (b *Builder) Add(name string, r io.Reader) error {
	tempName := strconv.FormatUint(atomic.AddUint64(&b.counter, 1), 10)
	f, err := os.Create(filepath.Join(b.tempDir, tempName))
	if err != nil {
		return err
	}
	defer f.Close()

	writer := lz4.NewWriter(f)
	written, err := io.Copy(writer, r)
	if err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"name":       name,
		"size":       written,
		"compressed": info.Size(),
	}).Debug("kar: added file")

	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.files = append(b.files, tempFile{
		Name:       name,
		TempName:   tempName,
		Size:       written,
		Compressed: info.Size(),
	})
	return nil
}

// Len returns the number of files added so far.
func (b *Builder) Len() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.files)
}

// WriteTo bundles and writes all of the files added to the Builder
// into a kar archive that is ready to use. Files are ordered by name.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	sort.Slice(b.files, func(i, j int) bool {
		return b.files[i].Name < b.files[j].Name
	})

	header := b.header
	header.Index = nil
	var offset int64
	for _, v := range b.files {
		header.Index = append(header.Index, IndexEntry{
			Name:           v.Name,
			Offset:         offset,
			Size:           v.Size,
			CompressedSize: v.Compressed,
		})
		offset += v.Compressed
	}

	rawHeader, err := gobEncode(header)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, chunk := range [][]byte{magic[:], int64ToBinary(int64(len(rawHeader))), rawHeader} {
		n, err := w.Write(chunk)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	for _, v := range b.files {
		n, err := b.copyTemp(w, v.TempName)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (b *Builder) copyTemp(w io.Writer, tempName string) (int64, error) {
	f, err := os.Open(filepath.Join(b.tempDir, tempName))
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(w, f)
}

// Close removes the temporary files of the Builder.
func (b *Builder) Close() error {
	return os.RemoveAll(b.tempDir)
}
