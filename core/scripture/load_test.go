package scripture

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/FocuswithJustin/SermonFlow/core/digest"
	apperrors "github.com/FocuswithJustin/SermonFlow/core/errors"
)

const johnCorpus = `[
  {"translation": "WEB", "book": "John", "chapter": 3, "verse": 16, "text": "For God so loved..."},
  {"translation": "WEB", "book": "John", "chapter": 3, "verse": 17, "text": "For God didn't send his Son..."},
  {"translation": "WEB", "book": "1 John", "chapter": 1, "verse": 9, "text": "If we confess our sins..."},
  {"translation": "WEB", "book": "Genesis", "chapter": 1, "verse": 1, "text": "In the beginning..."}
]`

func mustLoad(t *testing.T, data string) *Index {
	t.Helper()
	idx, err := Load([]byte(data))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return idx
}

func TestLoad(t *testing.T) {
	idx := mustLoad(t, johnCorpus)

	if got := idx.Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}
	if got := idx.Skipped(); got != 0 {
		t.Errorf("Skipped() = %d, want 0", got)
	}
	text, ok := idx.Lookup("John", 3, 16)
	if !ok || text != "For God so loved..." {
		t.Errorf("Lookup(John 3:16) = (%q, %v), want (%q, true)", text, ok, "For God so loved...")
	}
	if got := strings.Join(idx.Books(), ","); got != "John,1 John,Genesis" {
		t.Errorf("Books() = %q, want first-appearance order", got)
	}
	if got := strings.Join(idx.Translations(), ","); got != "WEB" {
		t.Errorf("Translations() = %q, want %q", got, "WEB")
	}
	if want := digest.Of([]byte(johnCorpus)); idx.Digest() != want {
		t.Errorf("Digest() = %+v, want %+v", idx.Digest(), want)
	}
}

func TestLoadSkipsMalformedRecords(t *testing.T) {
	var records []string
	for v := 1; v <= 9; v++ {
		if v == 5 {
			records = append(records, `{"book":"Psalms","chapter":"one hundred","verse":1,"text":"bad"}`)
		}
		records = append(records, fmt.Sprintf(`{"translation":"WEB","book":"Psalms","chapter":119,"verse":%d,"text":"verse %d"}`, v, v))
	}

	idx := mustLoad(t, "["+strings.Join(records, ",")+"]")

	if got := idx.Len(); got != 9 {
		t.Errorf("Len() = %d, want 9", got)
	}
	if got := idx.Skipped(); got != 1 {
		t.Errorf("Skipped() = %d, want 1", got)
	}
	for v := 1; v <= 9; v++ {
		want := fmt.Sprintf("verse %d", v)
		if got, ok := idx.Lookup("Psalms", 119, v); !ok || got != want {
			t.Errorf("Lookup(Psalms 119:%d) = (%q, %v), want (%q, true)", v, got, ok, want)
		}
	}
}

func TestLoadRecordSkipRules(t *testing.T) {
	tests := []struct {
		name   string
		record string
		keep   bool
	}{
		{"complete", `{"translation":"WEB","book":"John","chapter":1,"verse":1,"text":"x"}`, true},
		{"no translation", `{"book":"John","chapter":1,"verse":1,"text":"x"}`, true},
		{"empty text", `{"book":"John","chapter":1,"verse":1,"text":""}`, true},
		{"missing text", `{"book":"John","chapter":1,"verse":1}`, false},
		{"missing book", `{"chapter":1,"verse":1,"text":"x"}`, false},
		{"empty book", `{"book":"","chapter":1,"verse":1,"text":"x"}`, false},
		{"missing chapter", `{"book":"John","verse":1,"text":"x"}`, false},
		{"string verse", `{"book":"John","chapter":1,"verse":"1","text":"x"}`, false},
		{"fractional verse", `{"book":"John","chapter":1,"verse":1.5,"text":"x"}`, false},
		{"whole float chapter", `{"book":"Rom","chapter":8.0,"verse":28,"text":"x"}`, true},
		{"exponent verse", `{"book":"Rom","chapter":8,"verse":1e1,"text":"x"}`, true},
		{"huge verse", `{"book":"Rom","chapter":8,"verse":1e300,"text":"x"}`, false},
		{"null verse", `{"book":"John","chapter":1,"verse":null,"text":"x"}`, false},
		{"padded book", `{"book":" John","chapter":1,"verse":1,"text":"x"}`, false},
		{"trailing space book", `{"book":"John ","chapter":1,"verse":1,"text":"x"}`, false},
		{"multiline book", `{"book":"Jo\nhn","chapter":1,"verse":1,"text":"x"}`, false},
		{"zero chapter", `{"book":"John","chapter":0,"verse":1,"text":"x"}`, false},
		{"negative verse", `{"book":"John","chapter":1,"verse":-2,"text":"x"}`, false},
		{"null text", `{"book":"John","chapter":1,"verse":1,"text":null}`, false},
		{"number element", `42`, false},
		{"null element", `null`, false},
		{"array element", `[1,2,3]`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := mustLoad(t, "["+tt.record+"]")
			wantLen, wantSkipped := 0, 1
			if tt.keep {
				wantLen, wantSkipped = 1, 0
			}
			if idx.Len() != wantLen || idx.Skipped() != wantSkipped {
				t.Errorf("Len(), Skipped() = %d, %d, want %d, %d", idx.Len(), idx.Skipped(), wantLen, wantSkipped)
			}
		})
	}
}

func TestLoadWholeFloatResolves(t *testing.T) {
	idx := mustLoad(t, `[{"book":"Rom","chapter":8.0,"verse":28,"text":"all things work together"}]`)
	if got, ok := NewEngine(idx).Resolve("Rom 8:28"); !ok || got != "all things work together" {
		t.Errorf("Resolve(Rom 8:28) = (%q, %v), want (%q, true)", got, ok, "all things work together")
	}
}

func TestLoadByteOrderMark(t *testing.T) {
	idx, err := Load([]byte("\xEF\xBB\xBF" + `[{"book":"John","chapter":3,"verse":16,"text":"x"}]`))
	if err != nil {
		t.Fatalf("Load() with BOM error = %v", err)
	}
	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", idx.Len())
	}
}

func TestLoadMalformedBuffer(t *testing.T) {
	inputs := map[string]string{
		"empty":          "",
		"whitespace":     "   \n\t",
		"object":         `{"book":"John","chapter":3,"verse":16,"text":"x"}`,
		"null":           "null",
		"string":         `"John 3:16"`,
		"truncated":      `[{"book":"John"`,
		"trailing junk":  `[] []`,
		"not json":       "John 3:16 For God so loved",
		"unclosed array": `[`,
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			idx, err := Load([]byte(input))
			if err == nil {
				t.Fatalf("Load(%q) succeeded, want error", input)
			}
			if idx != nil {
				t.Errorf("Load(%q) returned a partial index", input)
			}
			if !errors.Is(err, apperrors.ErrMalformed) {
				t.Errorf("Load(%q) error = %v, want ErrMalformed", input, err)
			}
			var loadErr *apperrors.LoadError
			if !errors.As(err, &loadErr) || loadErr.Kind != apperrors.Malformed {
				t.Errorf("Load(%q) error = %T, want *LoadError of kind Malformed", input, err)
			}
		})
	}
}

func TestLoadEmptyArray(t *testing.T) {
	idx := mustLoad(t, "[]")
	if idx.Len() != 0 || idx.Skipped() != 0 {
		t.Errorf("Len(), Skipped() = %d, %d, want 0, 0", idx.Len(), idx.Skipped())
	}
	if books := idx.Books(); len(books) != 0 {
		t.Errorf("Books() = %v, want empty", books)
	}
}

func TestLoadDuplicateLastWriteWins(t *testing.T) {
	idx := mustLoad(t, `[
		{"book":"John","chapter":3,"verse":16,"text":"first"},
		{"book":"John","chapter":3,"verse":16,"text":"second"}
	]`)

	if got := idx.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
	if got, _ := idx.Lookup("John", 3, 16); got != "second" {
		t.Errorf("Lookup(John 3:16) = %q, want %q", got, "second")
	}
}
