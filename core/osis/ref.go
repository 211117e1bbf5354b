// Package osis parses OSIS-style scripture identifiers such as "John.3.16",
// "1John.1.9", "Ps.23" and "Matt.5.3-12".
//
// OSIS identifiers are the machine form of a reference. Free-text citations typed
// into notes ("John 3:16") are handled by the scripture package instead.
package osis

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/SermonFlow/core/errors"
)

// Ref is a parsed OSIS reference.
type Ref struct {
	// Book is the OSIS book ID (e.g., "Gen", "Matt", "1John").
	Book string `json:"book"`

	// Chapter is the chapter number (0 for whole-book references).
	Chapter int `json:"chapter,omitempty"`

	// Verse is the verse number (0 for whole-chapter references).
	Verse int `json:"verse,omitempty"`

	// VerseEnd is the last verse of a range (0 when not a range).
	VerseEnd int `json:"verse_end,omitempty"`

	// SubVerse is the verse subdivision (e.g., "a", "b").
	SubVerse string `json:"sub_verse,omitempty"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	BookPrefix string       `@Int?`
	BookName   string       `@Ident`
	ChapterRef *chapterPart `( "." @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type chapterPart struct {
	Chapter  int        `@Int`
	VerseRef *versePart `( "." @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type versePart struct {
	Verse    int     `@Int`
	SubVerse *string `@SubVerse?`
	Range    *int    `( "-" @Int )?`
}

// Ident starts with uppercase to distinguish it from SubVerse (single lowercase).
var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Z][A-Za-z]*`},
	{Name: "SubVerse", Pattern: `[a-z]`},
	{Name: "Punct", Pattern: `[.\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// ParseRef parses an OSIS-style reference string.
// Supported formats:
//   - "Gen" (book only)
//   - "Gen.1" (book and chapter)
//   - "Gen.1.1" (book, chapter, and verse)
//   - "Gen.1.1a" (with sub-verse)
//   - "Matt.5.3-12" (verse range)
func ParseRef(s string) (*Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.NewParse("OSIS reference", "", "empty reference string")
	}

	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return nil, &errors.ParseError{
			Format:  "OSIS reference",
			Input:   s,
			Message: err.Error(),
			Err:     errors.ErrInvalidInput,
		}
	}

	ref := &Ref{Book: parsed.BookPrefix + parsed.BookName}
	if c := parsed.ChapterRef; c != nil {
		ref.Chapter = c.Chapter
		if v := c.VerseRef; v != nil {
			ref.Verse = v.Verse
			if v.SubVerse != nil {
				ref.SubVerse = *v.SubVerse
			}
			if v.Range != nil {
				ref.VerseEnd = *v.Range
			}
		}
	}

	if ref.VerseEnd > 0 && ref.VerseEnd < ref.Verse {
		return nil, errors.NewParse("OSIS reference", s, "range ends before it starts")
	}
	return ref, nil
}

// String returns the OSIS ID of the reference.
func (r *Ref) String() string {
	var sb strings.Builder
	sb.WriteString(r.Book)

	if r.Chapter > 0 {
		sb.WriteString(".")
		sb.WriteString(strconv.Itoa(r.Chapter))

		if r.Verse > 0 {
			sb.WriteString(".")
			sb.WriteString(strconv.Itoa(r.Verse))
			sb.WriteString(r.SubVerse)

			if r.VerseEnd > 0 {
				sb.WriteString("-")
				sb.WriteString(strconv.Itoa(r.VerseEnd))
			}
		}
	}

	return sb.String()
}

// IsRange returns true if this reference spans multiple verses.
func (r *Ref) IsRange() bool {
	return r.VerseEnd > 0 && r.VerseEnd > r.Verse
}

// IsWholeChapter reports whether the reference names a chapter without a verse.
func (r *Ref) IsWholeChapter() bool {
	return r.Chapter > 0 && r.Verse == 0
}

// Span returns the first and last verse covered by the reference within its
// chapter. Whole-chapter references return (0, 0).
func (r *Ref) Span() (first, last int) {
	if r.Verse == 0 {
		return 0, 0
	}
	if r.IsRange() {
		return r.Verse, r.VerseEnd
	}
	return r.Verse, r.Verse
}

// Contains returns true if this reference contains the other reference.
func (r *Ref) Contains(other *Ref) bool {
	if r.Book != other.Book {
		return false
	}

	// Book-only reference contains all chapters
	if r.Chapter == 0 {
		return true
	}

	if r.Chapter != other.Chapter {
		return false
	}

	// Chapter-only reference contains all verses in that chapter
	if r.Verse == 0 {
		return true
	}

	first, last := r.Span()
	return other.Verse >= first && other.Verse <= last
}
