// Package canon describes the 66 books of the Protestant canon: display names
// as they appear in English corpora, OSIS identifiers, order and chapter counts.
package canon

import "strings"

// Testament identifies the Old or New Testament.
type Testament string

const (
	OldTestament Testament = "OT"
	NewTestament Testament = "NT"
)

// Book holds metadata for a single book of the Bible.
type Book struct {
	Name      string    `json:"name"`
	OSIS      string    `json:"osis"`
	Order     int       `json:"order"`
	Chapters  int       `json:"chapters"`
	Testament Testament `json:"testament"`
}

// books contains all canonical books in canonical order.
var books = []Book{
	{"Genesis", "Gen", 1, 50, OldTestament},
	{"Exodus", "Exod", 2, 40, OldTestament},
	{"Leviticus", "Lev", 3, 27, OldTestament},
	{"Numbers", "Num", 4, 36, OldTestament},
	{"Deuteronomy", "Deut", 5, 34, OldTestament},
	{"Joshua", "Josh", 6, 24, OldTestament},
	{"Judges", "Judg", 7, 21, OldTestament},
	{"Ruth", "Ruth", 8, 4, OldTestament},
	{"1 Samuel", "1Sam", 9, 31, OldTestament},
	{"2 Samuel", "2Sam", 10, 24, OldTestament},
	{"1 Kings", "1Kgs", 11, 22, OldTestament},
	{"2 Kings", "2Kgs", 12, 25, OldTestament},
	{"1 Chronicles", "1Chr", 13, 29, OldTestament},
	{"2 Chronicles", "2Chr", 14, 36, OldTestament},
	{"Ezra", "Ezra", 15, 10, OldTestament},
	{"Nehemiah", "Neh", 16, 13, OldTestament},
	{"Esther", "Esth", 17, 10, OldTestament},
	{"Job", "Job", 18, 42, OldTestament},
	{"Psalms", "Ps", 19, 150, OldTestament},
	{"Proverbs", "Prov", 20, 31, OldTestament},
	{"Ecclesiastes", "Eccl", 21, 12, OldTestament},
	{"Song of Solomon", "Song", 22, 8, OldTestament},
	{"Isaiah", "Isa", 23, 66, OldTestament},
	{"Jeremiah", "Jer", 24, 52, OldTestament},
	{"Lamentations", "Lam", 25, 5, OldTestament},
	{"Ezekiel", "Ezek", 26, 48, OldTestament},
	{"Daniel", "Dan", 27, 12, OldTestament},
	{"Hosea", "Hos", 28, 14, OldTestament},
	{"Joel", "Joel", 29, 3, OldTestament},
	{"Amos", "Amos", 30, 9, OldTestament},
	{"Obadiah", "Obad", 31, 1, OldTestament},
	{"Jonah", "Jonah", 32, 4, OldTestament},
	{"Micah", "Mic", 33, 7, OldTestament},
	{"Nahum", "Nah", 34, 3, OldTestament},
	{"Habakkuk", "Hab", 35, 3, OldTestament},
	{"Zephaniah", "Zeph", 36, 3, OldTestament},
	{"Haggai", "Hag", 37, 2, OldTestament},
	{"Zechariah", "Zech", 38, 14, OldTestament},
	{"Malachi", "Mal", 39, 4, OldTestament},
	{"Matthew", "Matt", 40, 28, NewTestament},
	{"Mark", "Mark", 41, 16, NewTestament},
	{"Luke", "Luke", 42, 24, NewTestament},
	{"John", "John", 43, 21, NewTestament},
	{"Acts", "Acts", 44, 28, NewTestament},
	{"Romans", "Rom", 45, 16, NewTestament},
	{"1 Corinthians", "1Cor", 46, 16, NewTestament},
	{"2 Corinthians", "2Cor", 47, 13, NewTestament},
	{"Galatians", "Gal", 48, 6, NewTestament},
	{"Ephesians", "Eph", 49, 6, NewTestament},
	{"Philippians", "Phil", 50, 4, NewTestament},
	{"Colossians", "Col", 51, 4, NewTestament},
	{"1 Thessalonians", "1Thess", 52, 5, NewTestament},
	{"2 Thessalonians", "2Thess", 53, 3, NewTestament},
	{"1 Timothy", "1Tim", 54, 6, NewTestament},
	{"2 Timothy", "2Tim", 55, 4, NewTestament},
	{"Titus", "Titus", 56, 3, NewTestament},
	{"Philemon", "Phlm", 57, 1, NewTestament},
	{"Hebrews", "Heb", 58, 13, NewTestament},
	{"James", "Jas", 59, 5, NewTestament},
	{"1 Peter", "1Pet", 60, 5, NewTestament},
	{"2 Peter", "2Pet", 61, 3, NewTestament},
	{"1 John", "1John", 62, 5, NewTestament},
	{"2 John", "2John", 63, 1, NewTestament},
	{"3 John", "3John", 64, 1, NewTestament},
	{"Jude", "Jude", 65, 1, NewTestament},
	{"Revelation", "Rev", 66, 22, NewTestament},
}

// aliases maps common alternate English names to the canonical name.
var aliases = map[string]string{
	"psalm":         "Psalms",
	"song of songs": "Song of Solomon",
	"canticles":     "Song of Solomon",
	"revelations":   "Revelation",
}

var (
	byOSIS = make(map[string]int, len(books))
	byName = make(map[string]int, len(books))
)

func init() {
	for i, b := range books {
		byOSIS[b.OSIS] = i
		byName[strings.ToLower(b.Name)] = i
	}
	for alias, name := range aliases {
		byName[alias] = byName[strings.ToLower(name)]
	}
}

// Books returns all books in canonical order. The slice is a copy.
func Books() []Book {
	out := make([]Book, len(books))
	copy(out, books)
	return out
}

// ByOSIS looks up a book by its OSIS identifier (case-sensitive, e.g. "1John").
func ByOSIS(id string) (Book, bool) {
	i, ok := byOSIS[id]
	if !ok {
		return Book{}, false
	}
	return books[i], true
}

// ByName looks up a book by English name, ignoring case and surrounding whitespace.
func ByName(name string) (Book, bool) {
	i, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Book{}, false
	}
	return books[i], true
}

// Order returns the canonical position of the named book, or 0 if unknown.
func Order(name string) int {
	if b, ok := ByName(name); ok {
		return b.Order
	}
	return 0
}

// ByOrder returns the book at canonical position n (1 = Genesis, 66 = Revelation).
func ByOrder(n int) (Book, bool) {
	if n < 1 || n > len(books) {
		return Book{}, false
	}
	return books[n-1], true
}
