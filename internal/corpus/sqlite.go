package corpus

import (
	"context"
	"database/sql"
	"io"
	"os"

	"github.com/FocuswithJustin/SermonFlow/core/digest"
	"github.com/FocuswithJustin/SermonFlow/core/errors"
	"github.com/FocuswithJustin/SermonFlow/core/scripture"
	"github.com/FocuswithJustin/SermonFlow/core/sqlite"
	"github.com/FocuswithJustin/SermonFlow/internal/archive"
)

const versesQuery = `SELECT translation, book, chapter, verse, text FROM verses`

// openSQLite reads the verses table of the database at path. Rows with a NULL
// book, chapter, verse or text are counted as skipped.
func openSQLite(ctx context.Context, path string, info *Info) (*scripture.Index, error) {
	info.Format = FormatSQLite
	info.Compression = archive.CompressionNone

	sum, size, err := digestFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	info.Size = size

	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer db.Close()

	ok, err := sqlite.HasTable(ctx, db, "verses")
	if err != nil {
		return nil, errors.NewIO("query", path, err)
	}
	if !ok {
		return nil, errors.NewUnsupported("corpus format", "SQLite database "+path+" has no verses table")
	}

	rows, err := db.QueryContext(ctx, versesQuery)
	if err != nil {
		return nil, errors.NewIO("query", path, err)
	}
	defer rows.Close()

	var (
		records []scripture.VerseRecord
		skipped int
	)
	for rows.Next() {
		var (
			translation, book, text sql.NullString
			chapter, verse          sql.NullInt64
		)
		if err := rows.Scan(&translation, &book, &chapter, &verse, &text); err != nil {
			skipped++
			continue
		}
		if !book.Valid || !text.Valid || !chapter.Valid || !verse.Valid {
			skipped++
			continue
		}
		records = append(records, scripture.VerseRecord{
			Translation: translation.String,
			Book:        book.String,
			Chapter:     int(chapter.Int64),
			Verse:       int(verse.Int64),
			Text:        text.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewIO("query", path, err)
	}

	return scripture.NewIndex(records, scripture.WithDigest(sum), scripture.WithSkipped(skipped)), nil
}

func digestFile(path string) (digest.Sum, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return digest.Sum{}, 0, err
	}
	defer f.Close()

	w := digest.NewWriter()
	if _, err := io.Copy(w, f); err != nil {
		return digest.Sum{}, 0, err
	}
	return w.Sum(), w.Size(), nil
}
