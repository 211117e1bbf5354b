package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/SermonFlow/internal/validation"
)

const corpusJSON = `[{"translation":"WEB","book":"John","chapter":3,"verse":16,"text":"For God so loved the world..."}]`

func writeXZ(t *testing.T, path string, data []byte) {
	t.Helper()
	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("xz writer: %v", err)
	}
	if _, err := xw.Write(data); err != nil {
		t.Fatalf("xz write: %v", err)
	}
	if err := xw.Close(); err != nil {
		t.Fatalf("xz close: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

func writeGzip(t *testing.T, path string, data []byte) {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

func tarBytes(t *testing.T, files map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tw.WriteHeader(&tar.Header{Name: "bundle/", Mode: 0o755, Typeflag: tar.TypeDir}); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for _, name := range order {
		content := files[name]
		if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(content)), Typeflag: tar.TypeReg}); err != nil {
			t.Fatalf("write header: %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("write content: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
	return buf.Bytes()
}

func TestDetectCompression(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		file   string
		want   Compression
	}{
		{"xz magic", []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}, "corpus", CompressionXZ},
		{"gzip magic", []byte{0x1f, 0x8b, 0x08}, "corpus", CompressionGzip},
		{"magic beats suffix", []byte("[]"), "corpus.json.xz", CompressionNone},
		{"empty header xz suffix", nil, "corpus.json.xz", CompressionXZ},
		{"empty header gz suffix", nil, "corpus.json.gz", CompressionGzip},
		{"empty header no suffix", nil, "corpus.json", CompressionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCompression(tt.header, tt.file); got != tt.want {
				t.Errorf("DetectCompression() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadAll(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "web.json")
	if err := os.WriteFile(plain, []byte(corpusJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	xzPath := filepath.Join(dir, "web.json.xz")
	writeXZ(t, xzPath, []byte(corpusJSON))
	gzPath := filepath.Join(dir, "web.json.gz")
	writeGzip(t, gzPath, []byte(corpusJSON))
	// Compressed content under a misleading name is still detected.
	disguised := filepath.Join(dir, "web.data")
	writeXZ(t, disguised, []byte(corpusJSON))

	tests := []struct {
		path string
		want Compression
	}{
		{plain, CompressionNone},
		{xzPath, CompressionXZ},
		{gzPath, CompressionGzip},
		{disguised, CompressionXZ},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			data, comp, err := ReadAll(tt.path, validation.MaxFileSize)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if comp != tt.want {
				t.Errorf("compression = %v, want %v", comp, tt.want)
			}
			if string(data) != corpusJSON {
				t.Errorf("data = %q, want %q", data, corpusJSON)
			}
		})
	}
}

func TestReadAllLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.json.xz")
	writeXZ(t, path, []byte(strings.Repeat(" ", 1024)))

	if _, _, err := ReadAll(path, 100); !errors.Is(err, validation.ErrFileTooLarge) {
		t.Errorf("ReadAll() error = %v, want ErrFileTooLarge", err)
	}
}

func TestReadAllMissing(t *testing.T) {
	_, _, err := ReadAll(filepath.Join(t.TempDir(), "missing.json"), validation.MaxFileSize)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadAll() error = %v, want os.ErrNotExist", err)
	}
}

func TestOpenCorruptXZ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xz")
	if err := os.WriteFile(path, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x01}, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ReadAll(path, validation.MaxFileSize); err == nil {
		t.Error("ReadAll() should fail for a truncated xz stream")
	}
}

func TestFindFile(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"bundle/README.txt": "World English Bible",
		"bundle/web.json":   corpusJSON,
	}
	order := []string{"bundle/README.txt", "bundle/web.json"}

	xzPath := filepath.Join(dir, "bundle.tar.xz")
	writeXZ(t, xzPath, tarBytes(t, files, order))
	gzPath := filepath.Join(dir, "bundle.tar.gz")
	writeGzip(t, gzPath, tarBytes(t, files, order))
	tarPath := filepath.Join(dir, "bundle.tar")
	if err := os.WriteFile(tarPath, tarBytes(t, files, order), 0o600); err != nil {
		t.Fatal(err)
	}

	isJSON := func(name string) bool { return strings.HasSuffix(name, ".json") }

	for _, path := range []string{xzPath, gzPath, tarPath} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, name, err := FindFile(path, validation.MaxFileSize, isJSON)
			if err != nil {
				t.Fatalf("FindFile() error = %v", err)
			}
			if name != "bundle/web.json" {
				t.Errorf("name = %q, want %q", name, "bundle/web.json")
			}
			if string(data) != corpusJSON {
				t.Errorf("data = %q, want %q", data, corpusJSON)
			}
		})
	}

	t.Run("no match", func(t *testing.T) {
		_, _, err := FindFile(xzPath, validation.MaxFileSize, func(string) bool { return false })
		if err == nil {
			t.Error("FindFile() should fail when nothing matches")
		}
	})

	t.Run("entry over limit", func(t *testing.T) {
		_, _, err := FindFile(xzPath, 10, isJSON)
		if !errors.Is(err, validation.ErrFileTooLarge) {
			t.Errorf("FindFile() error = %v, want ErrFileTooLarge", err)
		}
	})
}

func TestReaderCompression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.tar.xz")
	writeXZ(t, path, tarBytes(t, map[string]string{"a.json": "[]"}, []string{"a.json"}))

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	defer r.Close()

	if r.Compression() != CompressionXZ {
		t.Errorf("Compression() = %v, want %v", r.Compression(), CompressionXZ)
	}

	var names []string
	err = r.Iterate(func(h *tar.Header, _ io.Reader) (bool, error) {
		names = append(names, h.Name)
		return false, nil
	})
	if err != nil {
		t.Fatalf("Iterate() error = %v", err)
	}
	if len(names) != 1 || names[0] != "a.json" {
		t.Errorf("entries = %v, want [a.json] (directories skipped)", names)
	}
}
