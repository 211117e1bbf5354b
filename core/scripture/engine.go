package scripture

import (
	"github.com/FocuswithJustin/SermonFlow/core/canon"
	"github.com/FocuswithJustin/SermonFlow/core/errors"
	"github.com/FocuswithJustin/SermonFlow/core/osis"
)

// Engine detects and resolves scripture references against a read-only Index.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	index *Index
}

// NewEngine returns an Engine over idx. A nil idx is allowed: detection still
// works and every resolution reports not found.
func NewEngine(idx *Index) *Engine {
	return &Engine{index: idx}
}

// Index returns the index the engine reads from.
func (e *Engine) Index() *Index {
	return e.index
}

// DetectReferences returns the reference-shaped substrings of text. See the
// package-level DetectReferences.
func (e *Engine) DetectReferences(text string) []string {
	return DetectReferences(text)
}

// Resolve parses ref and returns its verse text. It reports false when ref is
// not shaped like "Book chapter:verse" or the verse is not in the corpus.
func (e *Engine) Resolve(ref string) (string, bool) {
	r, ok := ParseReference(ref)
	if !ok {
		return "", false
	}
	return e.Lookup(r)
}

// Lookup resolves a parsed reference. The exact book name is tried first. If
// that does not yield a verse, the first corpus book (in order of first
// appearance) whose lowercase form equals the lowercased book name is used, and
// only that book is consulted.
func (e *Engine) Lookup(r Reference) (string, bool) {
	if text, ok := e.index.Lookup(r.Book, r.Chapter, r.Verse); ok {
		return text, true
	}
	key, ok := e.index.FoldBook(r.Book)
	if !ok {
		return "", false
	}
	return e.index.Lookup(key, r.Chapter, r.Verse)
}

// Annotate detects every reference in text and resolves each one. Order and
// duplicates follow DetectReferences; unresolved references are included with
// Resolved set to false.
func (e *Engine) Annotate(text string) []Citation {
	refs := DetectReferences(text)
	if len(refs) == 0 {
		return nil
	}
	out := make([]Citation, len(refs))
	for i, ref := range refs {
		verseText, ok := e.Resolve(ref)
		out[i] = Citation{Reference: ref, Text: verseText, Resolved: ok}
	}
	return out
}

// Passage resolves an OSIS identifier such as "John.3.16", "Ps.23" or
// "Matt.5.3-12" to the verses it covers, in chapter and verse order.
//
// The OSIS book ID is mapped to its canonical English name and looked up like a
// typed reference; corpora keyed by OSIS IDs are matched on the ID itself. An
// unknown book returns a *errors.NotFoundError for "book"; a known book with no
// verses in range returns one for "passage".
func (e *Engine) Passage(osisID string) ([]Verse, error) {
	ref, err := osis.ParseRef(osisID)
	if err != nil {
		return nil, err
	}

	book, ok := e.passageBook(ref.Book)
	if !ok {
		return nil, errors.NewNotFound("book", ref.Book)
	}

	chapters := []int{ref.Chapter}
	if ref.Chapter == 0 {
		chapters = e.index.Chapters(book)
	}
	whole := ref.Chapter == 0 || ref.IsWholeChapter()

	var out []Verse
	for _, ch := range chapters {
		for _, v := range e.index.Verses(book, ch) {
			if !whole && !ref.Contains(&osis.Ref{Book: ref.Book, Chapter: ch, Verse: v}) {
				continue
			}
			text, _ := e.index.Lookup(book, ch, v)
			out = append(out, Verse{
				Reference: Reference{Book: book, Chapter: ch, Verse: v},
				Text:      text,
			})
		}
	}
	if len(out) == 0 {
		return nil, errors.NewNotFound("passage", ref.String())
	}
	return out, nil
}

// passageBook finds the corpus key for an OSIS book ID.
func (e *Engine) passageBook(id string) (string, bool) {
	candidates := make([]string, 0, 2)
	if b, ok := canon.ByOSIS(id); ok {
		candidates = append(candidates, b.Name)
	}
	candidates = append(candidates, id)

	for _, name := range candidates {
		if e.index.HasBook(name) {
			return name, true
		}
		if key, ok := e.index.FoldBook(name); ok {
			return key, true
		}
	}
	return "", false
}
