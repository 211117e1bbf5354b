// Package digest fingerprints corpus payloads and note text.
// Corpora are identified by both SHA-256 and BLAKE3; note text used as a
// cache key only needs the BLAKE3 sum.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"regexp"

	"github.com/zeebo/blake3"
)

// hexPattern matches a valid lowercase 256-bit hex digest (64 characters).
var hexPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Sum contains both SHA-256 and BLAKE3 digests of one payload.
type Sum struct {
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3"`
}

// IsZero reports whether no digest has been recorded.
func (s Sum) IsZero() bool {
	return s.SHA256 == "" && s.BLAKE3 == ""
}

// Short returns the first 12 characters of the BLAKE3 digest for log lines.
func (s Sum) Short() string {
	if len(s.BLAKE3) < 12 {
		return s.BLAKE3
	}
	return s.BLAKE3[:12]
}

// Of computes both digests of data.
func Of(data []byte) Sum {
	return Sum{
		SHA256: sha256Hex(data),
		BLAKE3: blake3Hex(data),
	}
}

// sha256Hex computes the SHA-256 hex digest of data.
func sha256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// blake3Hex computes the BLAKE3 hex digest of data.
func blake3Hex(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Key returns the raw BLAKE3 sum of s, suitable as a map key.
func Key(s string) [32]byte {
	return blake3.Sum256([]byte(s))
}

// Valid reports whether s looks like a digest produced by this package.
func Valid(s string) bool {
	return hexPattern.MatchString(s)
}

// Writer computes both digests over everything written to it.
type Writer struct {
	sha   hash.Hash
	b3    *blake3.Hasher
	multi io.Writer
	n     int64
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	w := &Writer{
		sha: sha256.New(),
		b3:  blake3.New(),
	}
	w.multi = io.MultiWriter(w.sha, w.b3)
	return w
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.multi.Write(p)
	w.n += int64(n)
	return n, err
}

// Size returns the number of bytes written so far.
func (w *Writer) Size() int64 {
	return w.n
}

// Sum returns the digests of everything written so far.
func (w *Writer) Sum() Sum {
	return Sum{
		SHA256: hex.EncodeToString(w.sha.Sum(nil)),
		BLAKE3: hex.EncodeToString(w.b3.Sum(nil)),
	}
}
