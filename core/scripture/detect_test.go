package scripture

import (
	"reflect"
	"testing"
)

func TestDetectReferences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "two references in order",
			text: "See John 3:16 and also 1 John 1:9 for context.",
			want: []string{"John 3:16", "1 John 1:9"},
		},
		{
			name: "chapter without verse",
			text: "Genesis 1 is the beginning.",
			want: nil,
		},
		{
			name: "duplicates preserved",
			text: "John 3:16, then John 3:16 again",
			want: []string{"John 3:16", "John 3:16"},
		},
		{
			name: "unknown book still detected",
			text: "Goo 3:16 is not a book",
			want: []string{"Goo 3:16"},
		},
		{
			name: "case preserved",
			text: "read jOHN 3:16 tonight",
			want: []string{"jOHN 3:16"},
		},
		{
			name: "numeral without space",
			text: "1John 1:9",
			want: []string{"1John 1:9"},
		},
		{
			name: "numeral out of range",
			text: "4 Kings 1:1",
			want: []string{"Kings 1:1"},
		},
		{
			name: "start of line",
			text: "Romans 8:28\n2 Corinthians 5:17",
			want: []string{"Romans 8:28", "2 Corinthians 5:17"},
		},
		{
			name: "trailing letters break the word boundary",
			text: "John 3:16a",
			want: nil,
		},
		{
			name: "multi-word book keeps only last word",
			text: "Song of Solomon 2:4",
			want: []string{"Solomon 2:4"},
		},
		{
			name: "no space before chapter",
			text: "John3:16",
			want: nil,
		},
		{
			name: "plain prose",
			text: "Grace and peace to you this morning.",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectReferences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectReferences(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectReferencesWithoutCorpus(t *testing.T) {
	e := NewEngine(nil)
	got := e.DetectReferences("Philippians 4:13")
	if !reflect.DeepEqual(got, []string{"Philippians 4:13"}) {
		t.Errorf("DetectReferences() = %q, want [Philippians 4:13]", got)
	}
}

func TestFindReferences(t *testing.T) {
	text := "See John 3:16 and also 1 John 1:9 for context."
	got := FindReferences(text)
	want := []Match{
		{Text: "John 3:16", Start: 4, End: 13},
		{Text: "1 John 1:9", Start: 23, End: 33},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FindReferences() = %+v, want %+v", got, want)
	}
	for _, m := range got {
		if text[m.Start:m.End] != m.Text {
			t.Errorf("offsets [%d:%d] = %q, want %q", m.Start, m.End, text[m.Start:m.End], m.Text)
		}
	}

	if got := FindReferences("nothing here"); got != nil {
		t.Errorf("FindReferences(no match) = %+v, want nil", got)
	}
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"John 3:16", "Rom 8:28", "John 3:16", "john 3:16"})
	want := []string{"John 3:16", "Rom 8:28", "john 3:16"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dedupe() = %q, want %q", got, want)
	}
	if got := Dedupe(nil); got != nil {
		t.Errorf("Dedupe(nil) = %q, want nil", got)
	}
}
