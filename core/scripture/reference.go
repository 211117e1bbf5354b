package scripture

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// referencePattern is the full shape of a typed or detected citation. The book
// group is greedy, so everything before the final "chapter:verse" is the book.
var referencePattern = regexp.MustCompile(`^(.+)\s(\d+):(\d+)$`)

// Reference is a parsed citation: a book name as written, a chapter and a verse.
type Reference struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
}

// ParseReference parses a citation such as "John 3:16" or "1 John 1:9".
// Leading and trailing whitespace is trimmed from the book name; internal
// whitespace is kept, so "1  John" stays distinct from "1 John". Strings of any
// other shape, or with numbers too large for an int, report false.
func ParseReference(s string) (Reference, bool) {
	m := referencePattern.FindStringSubmatch(s)
	if m == nil {
		return Reference{}, false
	}

	chapter, err := strconv.Atoi(m[2])
	if err != nil {
		return Reference{}, false
	}
	verse, err := strconv.Atoi(m[3])
	if err != nil {
		return Reference{}, false
	}

	return Reference{
		Book:    strings.TrimSpace(m[1]),
		Chapter: chapter,
		Verse:   verse,
	}, true
}

// String formats the reference as "Book chapter:verse".
func (r Reference) String() string {
	return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.Verse)
}
