package scripture

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/FocuswithJustin/SermonFlow/core/digest"
	"github.com/FocuswithJustin/SermonFlow/core/errors"
)

// wireRecord mirrors VerseRecord with every field optional so that missing
// fields can be told apart from zero values. Chapter and verse stay raw so
// that whole-number floats such as 8.0 can be accepted and strings rejected.
type wireRecord struct {
	Translation *string         `json:"translation"`
	Book        *string         `json:"book"`
	Chapter     json.RawMessage `json:"chapter"`
	Verse       json.RawMessage `json:"verse"`
	Text        *string         `json:"text"`
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Load builds an Index from a JSON array of verse records.
//
// If data is not a JSON array, Load returns a *errors.LoadError of kind
// Malformed and no index. A leading UTF-8 byte order mark is ignored.
// Individual elements that cannot be decoded (not an object, missing book or
// text, book padded with whitespace, chapter or verse missing, non-numeric or
// not a positive whole number) are skipped and counted in Index.Skipped; the
// rest of the corpus is still loaded. Load performs no I/O.
func Load(data []byte) (*Index, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(trimmed) == 0 {
		return nil, &errors.LoadError{Kind: errors.Malformed, Format: "JSON", Message: "empty buffer"}
	}
	if trimmed[0] != '[' {
		return nil, &errors.LoadError{Kind: errors.Malformed, Format: "JSON", Message: "not an array of records"}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, errors.NewMalformed("JSON", "", err)
	}

	b := newIndexBuilder()
	b.digest = digest.Of(data)
	for _, raw := range elems {
		rec, ok := decodeRecord(raw)
		if !ok {
			b.skipped++
			continue
		}
		b.add(rec)
	}
	return b.build(), nil
}

// decodeRecord decodes one array element, reporting false when the element is
// not a usable record.
func decodeRecord(raw json.RawMessage) (VerseRecord, bool) {
	var w wireRecord
	if err := json.Unmarshal(raw, &w); err != nil {
		return VerseRecord{}, false
	}
	if w.Book == nil || w.Text == nil {
		return VerseRecord{}, false
	}
	chapter, ok := wholeNumber(w.Chapter)
	if !ok {
		return VerseRecord{}, false
	}
	verse, ok := wholeNumber(w.Verse)
	if !ok {
		return VerseRecord{}, false
	}

	rec := VerseRecord{
		Book:    *w.Book,
		Chapter: chapter,
		Verse:   verse,
		Text:    *w.Text,
	}
	if w.Translation != nil {
		rec.Translation = *w.Translation
	}
	if !rec.valid() {
		return VerseRecord{}, false
	}
	return rec, true
}

// wholeNumber decodes a JSON number with no fractional part that fits in an
// int. Strings, null, absent fields and fractional values report false.
func wholeNumber(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	if i, err := strconv.ParseInt(n.String(), 10, strconv.IntSize); err == nil {
		return int(i), true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}
