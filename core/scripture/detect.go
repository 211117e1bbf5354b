package scripture

import "regexp"

// detectPattern matches an optional 1-3 numeral (optionally followed by
// whitespace), a run of ASCII letters, whitespace, then chapter:verse, bounded
// by word boundaries. The whitespace after the numeral is only consumed
// together with the numeral, so a match never starts with the space that
// separates it from the preceding word.
var detectPattern = regexp.MustCompile(`\b(?:[1-3]\s?)?[A-Za-z]+\s\d+:\d+\b`)

// Match is a detected reference and its byte offsets in the scanned text.
type Match struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// DetectReferences returns every substring of text shaped like a scripture
// reference, in order of appearance and with duplicates kept. Matches are
// returned exactly as written. Book names are not checked against any corpus.
func DetectReferences(text string) []string {
	if text == "" {
		return nil
	}
	return detectPattern.FindAllString(text, -1)
}

// FindReferences is DetectReferences with the byte offsets of each match, for
// callers that highlight citations in place.
func FindReferences(text string) []Match {
	if text == "" {
		return nil
	}
	locs := detectPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([]Match, len(locs))
	for i, loc := range locs {
		out[i] = Match{Text: text[loc[0]:loc[1]], Start: loc[0], End: loc[1]}
	}
	return out
}

// Dedupe returns refs with repeats removed, keeping the first occurrence of each.
func Dedupe(refs []string) []string {
	if len(refs) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(refs))
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
