package segment

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

// TestSplitReturnsExactCount verifies the post-condition: exactly
// targetCount non-empty chunks for any reasonable text.
func TestSplitReturnsExactCount(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		count int
	}{
		{"one sentence one chunk", "A quiet morning in the village.", 1},
		{"more sentences than chunks", "One. Two. Three. Four. Five. Six. Seven. Eight.", 3},
		{"equal sentences and chunks", "First! Second? Third.", 3},
		{"fewer sentences than chunks", "The fox ran across the wide open field toward the river.", 4},
		{"no terminal punctuation", "a story without any sentence boundaries at all", 2},
		{"many chunks", "Alpha. Beta. Gamma. Delta. Epsilon. Zeta. Eta. Theta. Iota. Kappa. Lambda. Mu.", 6},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chunks, err := Split(tc.text, tc.count)
			if err != nil {
				t.Fatalf("Split: %v", err)
			}
			if len(chunks) != tc.count {
				t.Fatalf("got %d chunks, want %d", len(chunks), tc.count)
			}
			for i, c := range chunks {
				if strings.TrimSpace(c) == "" {
					t.Fatalf("chunk %d is empty", i)
				}
			}
		})
	}
}

// TestSplitFiveSentencesIntoThree pins the grouping rule: five sentences
// at target three group one per chunk, then the tail folds back in.
func TestSplitFiveSentencesIntoThree(t *testing.T) {
	text := "One. Two. Three. Four. Five."
	chunks, err := Split(text, 3)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}

	want := []string{"One.", "Two.", "Three. Four. Five."}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}

	if joined := strings.Join(chunks, " "); joined != text {
		t.Errorf("concatenation = %q, want source text", joined)
	}
}

// TestSplitPreservesOrderAndText verifies no sentence is dropped when only
// merging is involved.
func TestSplitPreservesOrderAndText(t *testing.T) {
	text := "The ship sailed at dawn. Storm clouds gathered. The crew held fast. Land appeared at last."
	chunks, err := Split(text, 2)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if joined := strings.Join(chunks, " "); joined != text {
		t.Errorf("concatenation = %q, want source text", joined)
	}
}

// TestSplitBisectsLongestChunk checks the expansion path: a single
// sentence bisected by character length until the count matches.
func TestSplitBisectsLongestChunk(t *testing.T) {
	chunks, err := Split("Hello there world.", 3)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, c := range chunks {
		if c == "" {
			t.Fatalf("chunk %d is empty", i)
		}
	}
}

// TestSplitMultibyteText bisects narration with no sentence terminals in
// a multi-byte script: every chunk must stay valid UTF-8 and the chunks
// must reproduce the source text character for character.
func TestSplitMultibyteText(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		count int
	}{
		{"korean", "옛날 옛적에 호랑이가 살았다", 4},
		{"chinese", "从前有一只老虎住在深山里", 5},
		{"mixed scripts", "Der Bär sagte: Привет. 世界は広い. Fin.", 6},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chunks, err := Split(tc.text, tc.count)
			if err != nil {
				t.Fatalf("Split: %v", err)
			}
			if len(chunks) != tc.count {
				t.Fatalf("got %d chunks, want %d", len(chunks), tc.count)
			}
			for i, c := range chunks {
				if !utf8.ValidString(c) {
					t.Fatalf("chunk %d is not valid UTF-8: %q", i, c)
				}
				if strings.TrimSpace(c) == "" {
					t.Fatalf("chunk %d is empty", i)
				}
			}

			// Bisection trims whitespace at the cut, so compare the
			// character sequence with spaces removed.
			strip := func(s string) string {
				return strings.Join(strings.Fields(s), "")
			}
			if got, want := strip(strings.Join(chunks, " ")), strip(tc.text); got != want {
				t.Errorf("chunk characters = %q, want %q", got, want)
			}
		})
	}
}

func TestSplitTextTooShort(t *testing.T) {
	_, err := Split("Hi", 5)
	if !errors.Is(err, ErrTextTooShort) {
		t.Fatalf("err = %v, want ErrTextTooShort", err)
	}
}

func TestSplitRejectsBadInput(t *testing.T) {
	if _, err := Split("Some text.", 0); err == nil {
		t.Error("expected error for zero target count")
	}
	if _, err := Split("   ", 2); err == nil {
		t.Error("expected error for blank text")
	}
}
