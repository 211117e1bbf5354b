package scripture

import (
	"sort"
	"strings"

	"github.com/FocuswithJustin/SermonFlow/core/digest"
)

// chapters maps chapter number to verse number to verse text.
type chapters map[int]map[int]string

// Index maps book name to chapter to verse to text. Book names are stored
// exactly as they appear in the corpus. An Index is immutable once built.
type Index struct {
	books map[string]chapters

	// order lists book names by first appearance in the corpus.
	order []string

	// folded maps a lowercased book name to the first book in order with that form.
	folded map[string]string

	translations []string
	verses       int
	skipped      int
	digest       digest.Sum
}

// IndexOption configures NewIndex.
type IndexOption func(*indexBuilder)

// WithDigest records the digest of the payload the records were decoded from.
func WithDigest(sum digest.Sum) IndexOption {
	return func(b *indexBuilder) {
		b.digest = sum
	}
}

// WithSkipped adds records that a corpus decoder dropped before calling NewIndex
// to the skipped count.
func WithSkipped(n int) IndexOption {
	return func(b *indexBuilder) {
		b.skipped += n
	}
}

// NewIndex builds an Index from decoded records. Records without a book name,
// with a book name padded by whitespace, or with a non-positive chapter or
// verse are counted as skipped. When the same book, chapter and verse appear
// more than once, the last record wins.
func NewIndex(records []VerseRecord, opts ...IndexOption) *Index {
	b := newIndexBuilder()
	for _, opt := range opts {
		opt(b)
	}
	for _, rec := range records {
		b.add(rec)
	}
	return b.build()
}

// indexBuilder accumulates records before the Index is frozen.
type indexBuilder struct {
	books        map[string]chapters
	order        []string
	translations map[string]struct{}
	verses       int
	skipped      int
	digest       digest.Sum
}

func newIndexBuilder() *indexBuilder {
	return &indexBuilder{
		books:        make(map[string]chapters),
		translations: make(map[string]struct{}),
	}
}

func (b *indexBuilder) add(rec VerseRecord) {
	if !rec.valid() {
		b.skipped++
		return
	}

	chs, ok := b.books[rec.Book]
	if !ok {
		chs = make(chapters)
		b.books[rec.Book] = chs
		b.order = append(b.order, rec.Book)
	}
	vs, ok := chs[rec.Chapter]
	if !ok {
		vs = make(map[int]string)
		chs[rec.Chapter] = vs
	}
	if _, dup := vs[rec.Verse]; !dup {
		b.verses++
	}
	vs[rec.Verse] = rec.Text

	if rec.Translation != "" {
		b.translations[rec.Translation] = struct{}{}
	}
}

func (b *indexBuilder) build() *Index {
	idx := &Index{
		books:   b.books,
		order:   b.order,
		folded:  make(map[string]string, len(b.order)),
		verses:  b.verses,
		skipped: b.skipped,
		digest:  b.digest,
	}
	for _, name := range b.order {
		key := strings.ToLower(name)
		if _, taken := idx.folded[key]; !taken {
			idx.folded[key] = name
		}
	}
	for t := range b.translations {
		idx.translations = append(idx.translations, t)
	}
	sort.Strings(idx.translations)
	return idx
}

// Lookup returns the text stored under the exact book name, chapter and verse.
func (idx *Index) Lookup(book string, chapter, verse int) (string, bool) {
	if idx == nil {
		return "", false
	}
	text, ok := idx.books[book][chapter][verse]
	return text, ok
}

// HasBook reports whether the exact book name is present.
func (idx *Index) HasBook(book string) bool {
	if idx == nil {
		return false
	}
	_, ok := idx.books[book]
	return ok
}

// FoldBook returns the first book name, in corpus order, whose lowercase form
// equals the lowercase form of name.
func (idx *Index) FoldBook(name string) (string, bool) {
	if idx == nil {
		return "", false
	}
	key, ok := idx.folded[strings.ToLower(name)]
	return key, ok
}

// Books returns the book names in order of first appearance in the corpus.
func (idx *Index) Books() []string {
	if idx == nil {
		return nil
	}
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// Chapters returns the chapter numbers of book in ascending order.
func (idx *Index) Chapters(book string) []int {
	if idx == nil {
		return nil
	}
	chs := idx.books[book]
	out := make([]int, 0, len(chs))
	for ch := range chs {
		out = append(out, ch)
	}
	sort.Ints(out)
	return out
}

// Verses returns the verse numbers of book and chapter in ascending order.
func (idx *Index) Verses(book string, chapter int) []int {
	if idx == nil {
		return nil
	}
	vs := idx.books[book][chapter]
	out := make([]int, 0, len(vs))
	for v := range vs {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Entries returns every verse in the index, grouped by book in corpus order and
// sorted by chapter and verse within each book.
func (idx *Index) Entries() []Verse {
	if idx == nil {
		return nil
	}
	out := make([]Verse, 0, idx.verses)
	for _, book := range idx.order {
		for _, ch := range idx.Chapters(book) {
			for _, v := range idx.Verses(book, ch) {
				out = append(out, Verse{
					Reference: Reference{Book: book, Chapter: ch, Verse: v},
					Text:      idx.books[book][ch][v],
				})
			}
		}
	}
	return out
}

// Len returns the number of distinct verses in the index.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return idx.verses
}

// Skipped returns how many records were dropped while building the index.
func (idx *Index) Skipped() int {
	if idx == nil {
		return 0
	}
	return idx.skipped
}

// Translations returns the distinct non-empty translation labels, sorted.
func (idx *Index) Translations() []string {
	if idx == nil {
		return nil
	}
	out := make([]string, len(idx.translations))
	copy(out, idx.translations)
	return out
}

// Digest returns the digest of the payload the index was built from, if recorded.
func (idx *Index) Digest() digest.Sum {
	if idx == nil {
		return digest.Sum{}
	}
	return idx.digest
}
