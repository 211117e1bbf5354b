// Package archive opens possibly compressed corpus files. It handles single
// xz or gzip streams as well as tar bundles wrapped in either.
package archive

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/SermonFlow/internal/validation"
)

// Compression names the compression wrapping a file.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionXZ   Compression = "xz"
	CompressionGzip Compression = "gzip"
)

// DetectCompression identifies the compression of a file from its leading
// bytes, falling back to the filename suffix when the header is inconclusive.
func DetectCompression(header []byte, name string) Compression {
	switch validation.DetectFileType(header) {
	case validation.FileTypeXZ:
		return CompressionXZ
	case validation.FileTypeGzip:
		return CompressionGzip
	}
	if len(header) > 0 {
		return CompressionNone
	}

	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".xz"), strings.HasSuffix(lower, ".txz"):
		return CompressionXZ
	case strings.HasSuffix(lower, ".gz"), strings.HasSuffix(lower, ".tgz"):
		return CompressionGzip
	}
	return CompressionNone
}

// File is a decompressed view of a file on disk.
type File struct {
	io.Reader
	Compression  Compression
	file         *os.File
	decompressor io.Closer
}

// Open opens path and wraps it in the decompressor its header calls for.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	br := bufio.NewReader(f)
	header, err := br.Peek(validation.SniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		f.Close()
		return nil, fmt.Errorf("read header: %w", err)
	}

	out := &File{file: f, Compression: DetectCompression(header, path)}
	switch out.Compression {
	case CompressionXZ:
		xzr, err := xz.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		out.Reader = xzr // xz reader doesn't need closing
	case CompressionGzip:
		gzr, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		out.Reader = gzr
		out.decompressor = gzr
	default:
		out.Reader = br
	}
	return out, nil
}

// Close closes the file and any underlying decompressor.
func (f *File) Close() error {
	var errs []error
	if f.decompressor != nil {
		if err := f.decompressor.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := f.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// ReadAll returns the decompressed contents of path, refusing anything larger
// than limit bytes after decompression.
func ReadAll(path string, limit int64) ([]byte, Compression, error) {
	f, err := Open(path)
	if err != nil {
		return nil, CompressionNone, err
	}
	defer f.Close()

	data, err := validation.ReadLimited(f, limit)
	if err != nil {
		return nil, f.Compression, fmt.Errorf("read %s: %w", path, err)
	}
	return data, f.Compression, nil
}

// Reader wraps a tar.Reader with automatic decompression handling.
type Reader struct {
	*tar.Reader
	file *File
}

// NewReader creates a tar reader for the bundle at path. Compression is
// detected the same way as Open.
func NewReader(path string) (*Reader, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{Reader: tar.NewReader(f), file: f}, nil
}

// Compression reports the compression wrapping the tar stream.
func (r *Reader) Compression() Compression {
	return r.file.Compression
}

// Close closes the archive reader and any underlying decompressors.
func (r *Reader) Close() error {
	return r.file.Close()
}

// Visitor is a callback function for iterating archive entries.
// Return true to stop iteration, false to continue.
type Visitor func(header *tar.Header, content io.Reader) (stop bool, err error)

// Iterate walks through all regular-file entries in the archive, calling the
// visitor for each.
func (r *Reader) Iterate(visitor Visitor) error {
	for {
		header, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		stop, err := visitor(header, r)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// FindFile returns the contents of the first regular file in the bundle whose
// name satisfies predicate. Entries larger than limit are rejected.
func (r *Reader) FindFile(limit int64, predicate func(name string) bool) ([]byte, string, error) {
	var content []byte
	var foundName string
	err := r.Iterate(func(header *tar.Header, body io.Reader) (bool, error) {
		if !predicate(header.Name) {
			return false, nil
		}
		data, err := validation.ReadLimited(body, limit)
		if err != nil {
			return true, fmt.Errorf("read %s: %w", header.Name, err)
		}
		content = data
		foundName = header.Name
		return true, nil
	})
	if err != nil {
		return nil, "", err
	}
	if foundName == "" {
		return nil, "", fmt.Errorf("no matching file found")
	}
	return content, foundName, nil
}

// FindFile opens the bundle at archivePath and returns its first regular file
// whose name satisfies predicate.
func FindFile(archivePath string, limit int64, predicate func(name string) bool) ([]byte, string, error) {
	r, err := NewReader(archivePath)
	if err != nil {
		return nil, "", err
	}
	defer r.Close()
	return r.FindFile(limit, predicate)
}
