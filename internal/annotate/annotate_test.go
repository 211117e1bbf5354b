package annotate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/FocuswithJustin/SermonFlow/core/scripture"
)

func newTestEngine(t *testing.T) *scripture.Engine {
	t.Helper()
	idx, err := scripture.Load([]byte(`[
		{"translation": "WEB", "book": "John", "chapter": 3, "verse": 16, "text": "For God so loved the world..."},
		{"translation": "WEB", "book": "1 John", "chapter": 1, "verse": 9, "text": "If we confess our sins..."}
	]`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return scripture.NewEngine(idx)
}

func TestAnnotate(t *testing.T) {
	a := New(newTestEngine(t))
	ctx := context.Background()

	got := a.Annotate(ctx, "See John 3:16 and Goo 3:16, then 1 John 1:9.")
	want := []scripture.Citation{
		{Reference: "John 3:16", Text: "For God so loved the world...", Resolved: true},
		{Reference: "Goo 3:16"},
		{Reference: "1 John 1:9", Text: "If we confess our sins...", Resolved: true},
	}
	if len(got) != len(want) {
		t.Fatalf("Annotate() returned %d citations, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("citation %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestAnnotateEmpty(t *testing.T) {
	a := New(newTestEngine(t))
	ctx := context.Background()

	if got := a.Annotate(ctx, ""); got != nil {
		t.Errorf("Annotate(\"\") = %v, want nil", got)
	}
	if got := a.Annotate(ctx, "no citations here"); len(got) != 0 {
		t.Errorf("Annotate() = %v, want empty", got)
	}
	if hits, misses := a.Stats(); hits != 0 || misses != 1 {
		t.Errorf("Stats() = %d, %d, want 0, 1", hits, misses)
	}
}

func TestAnnotateCaches(t *testing.T) {
	a := New(newTestEngine(t))
	ctx := context.Background()
	note := "Preach John 3:16."

	first := a.Annotate(ctx, note)
	first[0].Text = "mutated by caller"

	second := a.Annotate(ctx, note)
	if second[0].Text != "For God so loved the world..." {
		t.Errorf("cached citation was mutated through a returned slice: %q", second[0].Text)
	}

	if hits, misses := a.Stats(); hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d, %d, want 1, 1", hits, misses)
	}

	a.Reset()
	a.Annotate(ctx, note)
	if hits, misses := a.Stats(); hits != 1 || misses != 2 {
		t.Errorf("Stats() after Reset = %d, %d, want 1, 2", hits, misses)
	}
}

func TestAnnotateTTL(t *testing.T) {
	a := New(newTestEngine(t), WithTTL(20*time.Millisecond))
	ctx := context.Background()

	a.Annotate(ctx, "John 3:16")
	time.Sleep(40 * time.Millisecond)
	a.Annotate(ctx, "John 3:16")

	if hits, misses := a.Stats(); hits != 0 || misses != 2 {
		t.Errorf("Stats() = %d, %d, want 0, 2 after expiry", hits, misses)
	}
}

func TestAnnotateCapacity(t *testing.T) {
	a := New(newTestEngine(t), WithCapacity(1))
	ctx := context.Background()

	a.Annotate(ctx, "John 3:16")
	a.Annotate(ctx, "1 John 1:9")
	a.Annotate(ctx, "John 3:16")

	if hits, misses := a.Stats(); hits != 0 || misses != 3 {
		t.Errorf("Stats() = %d, %d, want 0, 3 with capacity 1", hits, misses)
	}
}

func TestAnnotateConcurrent(t *testing.T) {
	a := New(newTestEngine(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got := a.Annotate(ctx, "John 3:16 and 1 John 1:9")
				if len(got) != 2 || !got[0].Resolved || !got[1].Resolved {
					t.Errorf("Annotate() = %+v", got)
					return
				}
			}
		}()
	}
	wg.Wait()

	if hits, misses := a.Stats(); hits+misses != 400 {
		t.Errorf("hits+misses = %d, want 400", hits+misses)
	}
}
