// Package scripture is the scripture-reference engine: it indexes a corpus of
// verse records, detects citations such as "John 3:16" or "1 John 1:9" in free
// text, and resolves citations back to verse text.
//
// # Lifecycle
//
// An Index is built once, either from a JSON array of records with Load or from
// already decoded records with NewIndex, and is never mutated afterwards. An
// Engine holds a read-only Index and can be shared by any number of goroutines
// without locking. Provider gates access to the Engine until the one-time load
// has finished.
//
// # Detection and resolution
//
// Detection is a pattern match over the input text and never consults the
// corpus, so "Goo 3:16" is detected even though no such book exists. Resolution
// parses a single citation and looks it up, first by exact book name and then by
// a case-insensitive match against the corpus book names. Neither operation
// reports absence as an error: no match is an empty slice, an unknown verse is
// ("", false).
//
// # Example
//
//	idx, err := scripture.Load(data)
//	if err != nil {
//	    return err
//	}
//	engine := scripture.NewEngine(idx)
//	for _, c := range engine.Annotate("See John 3:16 and Goo 1:1") {
//	    fmt.Println(c.Reference, c.Resolved, c.Text)
//	}
package scripture
