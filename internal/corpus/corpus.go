// Package corpus opens verse corpora from disk and builds scripture indexes
// from them.
//
// Three payloads are recognised by content: a JSON array of verse records, a
// Zefania XML bible, and a SQLite database with a verses table. JSON and XML
// payloads may be xz or gzip compressed, or bundled in a (compressed) tar
// archive, in which case the first .json or .xml entry is used.
package corpus

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FocuswithJustin/SermonFlow/core/digest"
	"github.com/FocuswithJustin/SermonFlow/core/errors"
	"github.com/FocuswithJustin/SermonFlow/core/scripture"
	"github.com/FocuswithJustin/SermonFlow/core/sqlite"
	"github.com/FocuswithJustin/SermonFlow/internal/archive"
	"github.com/FocuswithJustin/SermonFlow/internal/logging"
	"github.com/FocuswithJustin/SermonFlow/internal/validation"
)

// Format identifies the payload a corpus was decoded from.
type Format string

const (
	FormatJSON    Format = "json"
	FormatZefania Format = "zefania"
	FormatSQLite  Format = "sqlite"
)

// Info describes an opened corpus.
type Info struct {
	Path         string              `json:"path"`
	Format       Format              `json:"format"`
	Compression  archive.Compression `json:"compression"`
	Member       string              `json:"member,omitempty"` // tar entry the payload came from
	Size         int64               `json:"size"`             // decompressed payload bytes
	Digest       digest.Sum          `json:"digest"`
	Verses       int                 `json:"verses"`
	Books        int                 `json:"books"`
	Skipped      int                 `json:"skipped"`
	Translations []string            `json:"translations,omitempty"`
	Duration     time.Duration       `json:"duration"`
}

// Open reads the corpus at path and returns its index.
//
// A missing or unreadable file yields a *errors.IOError, a payload that is not
// one of the recognised formats a *errors.UnsupportedError, and a JSON or XML
// payload that cannot be decoded a *errors.LoadError of kind Malformed. No
// index is returned alongside an error.
func Open(ctx context.Context, path string) (*scripture.Index, *Info, error) {
	start := time.Now()

	if err := validation.ValidatePath(path); err != nil {
		return nil, nil, errors.NewIO("open", path, err)
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, nil, errors.NewIO("open", path, err)
	}
	if st.IsDir() {
		return nil, nil, errors.NewUnsupported("corpus", path+" is a directory")
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	info := &Info{Path: path, Compression: archive.CompressionNone}

	var idx *scripture.Index
	isDB, err := sqlite.IsDatabaseFile(path)
	if err != nil {
		return nil, nil, errors.NewIO("read", path, err)
	}
	if isDB {
		idx, err = openSQLite(ctx, path, info)
	} else {
		idx, err = openPayload(ctx, path, info)
	}
	if err != nil {
		return nil, nil, err
	}

	info.Digest = idx.Digest()
	info.Verses = idx.Len()
	info.Books = len(idx.Books())
	info.Skipped = idx.Skipped()
	info.Translations = idx.Translations()
	info.Duration = time.Since(start)

	logging.CorpusLoaded(ctx, path, string(info.Format), info.Verses, info.Books, info.Duration,
		"compression", string(info.Compression), "blake3", info.Digest.Short())
	logging.RecordsSkipped(ctx, path, info.Skipped)
	return idx, info, nil
}

// Opener adapts Open to a scripture.OpenFunc for use with scripture.NewProvider.
func Opener(path string) scripture.OpenFunc {
	return func(ctx context.Context) (*scripture.Index, error) {
		idx, _, err := Open(ctx, path)
		return idx, err
	}
}

// openPayload handles every non-SQLite corpus: it decompresses, unpacks tar
// bundles, then decodes by content.
func openPayload(ctx context.Context, path string, info *Info) (*scripture.Index, error) {
	var (
		data []byte
		err  error
	)
	if validation.IsTarName(path) {
		data, err = readBundle(path, info)
	} else {
		data, info.Compression, err = archive.ReadAll(path, validation.MaxFileSize)
	}
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info.Size = int64(len(data))

	head := data
	if len(head) > validation.SniffLen {
		head = head[:validation.SniffLen]
	}
	switch payloadType(ctx, head, path, info.Member) {
	case validation.FileTypeJSON:
		info.Format = FormatJSON
		idx, err := scripture.Load(data)
		if err != nil {
			var loadErr *errors.LoadError
			if errors.As(err, &loadErr) {
				loadErr.Source = path
			}
			return nil, err
		}
		return idx, nil
	case validation.FileTypeXML:
		info.Format = FormatZefania
		records, skipped, err := decodeZefania(data, path)
		if err != nil {
			return nil, err
		}
		return scripture.NewIndex(records, scripture.WithDigest(digest.Of(data)), scripture.WithSkipped(skipped)), nil
	case validation.FileTypeSQLite:
		return nil, errors.NewUnsupported("corpus", "SQLite databases must not be compressed or bundled")
	default:
		return nil, errors.NewUnsupported("corpus format", "unrecognized payload in "+path)
	}
}

// payloadType sniffs the payload from its leading bytes. When that only shows
// text, the extension of the tar member (or of path without its compression
// suffix) decides, so a mangled notes.json reports a JSON error rather than an
// unrecognized format.
func payloadType(ctx context.Context, head []byte, path, member string) validation.FileType {
	ft := validation.DetectFileType(head)
	if ft != validation.FileTypeText && ft != validation.FileTypeUnknown {
		return ft
	}

	name := member
	if name == "" {
		name = path
		switch validation.DetectFileTypeFromExtension(name) {
		case validation.FileTypeXZ, validation.FileTypeGzip:
			name = strings.TrimSuffix(name, filepath.Ext(name))
		}
	}
	switch byExt := validation.DetectFileTypeFromExtension(name); byExt {
	case validation.FileTypeJSON, validation.FileTypeXML:
		logging.WarnContext(ctx, "payload_type_from_extension", "path", path, "name", name, "type", string(byExt))
		return byExt
	}
	return ft
}

// readBundle returns the first JSON or XML entry of the tar bundle at path.
func readBundle(path string, info *Info) ([]byte, error) {
	r, err := archive.NewReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	info.Compression = r.Compression()
	data, member, err := r.FindFile(validation.MaxFileSize, isPayloadName)
	if err != nil {
		return nil, err
	}
	info.Member = member
	return data, nil
}

func isPayloadName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".xml":
		return true
	}
	return false
}
