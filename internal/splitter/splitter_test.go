package splitter

import (
	"strings"
	"testing"
)

func TestSplit_ShortInputSingleChunk(t *testing.T) {
	s := New(100, 20)
	chunks := s.Split("short text")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "short text" {
		t.Errorf("unexpected chunk %q", chunks[0])
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	s := New(100, 20)
	if chunks := s.Split(""); chunks != nil {
		t.Errorf("expected nil, got %v", chunks)
	}
	if chunks := s.Split("   \n\t  "); chunks != nil {
		t.Errorf("expected nil for whitespace, got %v", chunks)
	}
}

func TestSplit_TrimsInput(t *testing.T) {
	s := New(100, 0)
	chunks := s.Split("  padded  ")
	if len(chunks) != 1 || chunks[0] != "padded" {
		t.Errorf("expected trimmed chunk, got %v", chunks)
	}
}

func TestSplit_OverlapWindows(t *testing.T) {
	s := New(10, 4)
	text := "abcdefghijklmnopqrstuvwxyz"
	chunks := s.Split(text)

	// step = 6: windows start at 0, 6, 12, 18; the last window reaches the end
	want := []string{"abcdefghij", "ghijklmnop", "mnopqrstuv", "stuvwxyz"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %v", len(want), len(chunks), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], chunks[i])
		}
	}
}

func TestSplit_ZeroOverlapCoversEverything(t *testing.T) {
	s := New(5, 0)
	text := "aaaaabbbbbccccc"
	chunks := s.Split(text)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(chunks), chunks)
	}
	if strings.Join(chunks, "") != text {
		t.Errorf("chunks do not reassemble input: %v", chunks)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	s := New(50, 10)
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)

	first := s.Split(text)
	second := s.Split(text)
	if len(first) != len(second) {
		t.Fatalf("non-deterministic chunk count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplit_CoversAllRunes(t *testing.T) {
	s := New(7, 3)
	text := "0123456789abcdefghij"
	chunks := s.Split(text)

	covered := make(map[rune]bool)
	for _, c := range chunks {
		for _, r := range c {
			covered[r] = true
		}
	}
	for _, r := range text {
		if !covered[r] {
			t.Errorf("rune %q not covered by any chunk", r)
		}
	}
}

func TestSplit_MultibyteRunes(t *testing.T) {
	s := New(4, 1)
	text := "日本語のテキストです"
	chunks := s.Split(text)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i, c := range chunks {
		if n := len([]rune(c)); n > 4 {
			t.Errorf("chunk %d has %d runes, want <= 4", i, n)
		}
	}
}

func TestNew_ClampsInvalidParams(t *testing.T) {
	// overlap >= chunkSize must not loop forever
	s := New(5, 10)
	chunks := s.Split("abcdefghijklmnop")
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}

	s = New(0, -1)
	if chunks := s.Split("text"); len(chunks) != 1 {
		t.Errorf("expected defaults to apply, got %v", chunks)
	}
}
