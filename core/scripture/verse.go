package scripture

import "strings"

// VerseRecord is one entry of a serialized corpus.
type VerseRecord struct {
	Translation string `json:"translation"`
	Book        string `json:"book"`
	Chapter     int    `json:"chapter"`
	Verse       int    `json:"verse"`
	Text        string `json:"text"`
}

// Reference returns the citation that resolves to this record.
func (r VerseRecord) Reference() Reference {
	return Reference{Book: r.Book, Chapter: r.Chapter, Verse: r.Verse}
}

// valid reports whether the record can be placed in an index. A book name
// with leading or trailing whitespace or a line break could never be cited
// back, so it is rejected.
func (r VerseRecord) valid() bool {
	if r.Book == "" || r.Book != strings.TrimSpace(r.Book) || strings.ContainsAny(r.Book, "\r\n") {
		return false
	}
	return r.Chapter > 0 && r.Verse > 0
}

// Verse is a resolved verse: the exact corpus key it was found under and its text.
type Verse struct {
	Reference Reference `json:"reference"`
	Text      string    `json:"text"`
}

// Citation is a reference detected in note text together with its resolution.
// Detected references that do not resolve are kept with Resolved set to false.
type Citation struct {
	Reference string `json:"reference"`
	Text      string `json:"text,omitempty"`
	Resolved  bool   `json:"resolved"`
}
