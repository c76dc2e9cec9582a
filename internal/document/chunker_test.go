package document

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunkText_EmptyInput(t *testing.T) {
	if got := ChunkText("", 500); len(got) != 0 {
		t.Errorf("ChunkText(\"\") = %v, want empty", got)
	}
	if got := ChunkText("   \n\t  ", 500); len(got) != 0 {
		t.Errorf("ChunkText(whitespace) = %v, want empty", got)
	}
}

func TestChunkText_ShortTextSingleSegment(t *testing.T) {
	text := "A short document that fits in one chunk."
	got := ChunkText(text, 500)
	if len(got) != 1 {
		t.Fatalf("ChunkText() returned %d segments, want 1", len(got))
	}
	if got[0] != text {
		t.Errorf("ChunkText() segment = %q, want %q", got[0], text)
	}
}

func TestChunkText_DefaultSize(t *testing.T) {
	text := strings.Repeat("word ", 50)
	got := ChunkText(text, 0)
	if len(got) != 1 {
		t.Fatalf("ChunkText() with zero size returned %d segments, want 1", len(got))
	}
}

func TestChunkText_RespectsMaxSize(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 60)
	max := 200
	for i, seg := range ChunkText(text, max) {
		if n := utf8.RuneCountInString(seg); n > max {
			t.Errorf("segment[%d] has %d runes, exceeds max %d", i, n, max)
		}
		if strings.TrimSpace(seg) == "" {
			t.Errorf("segment[%d] is empty", i)
		}
	}
}

func TestChunkText_CoverageLossless(t *testing.T) {
	texts := []string{
		strings.Repeat("Sentence one here. Sentence two follows. ", 40),
		"Paragraph one.\n\nParagraph two.\n\nParagraph three.",
		strings.Repeat("nowhitespaceatall", 100),
	}
	for _, text := range texts {
		segments := ChunkText(text, 120)
		want := strings.Join(strings.Fields(text), " ")
		got := strings.Join(strings.Fields(strings.Join(segments, " ")), " ")
		if got != want {
			t.Errorf("content not preserved:\n got: %.80q\nwant: %.80q", got, want)
		}
	}
}

func TestChunkText_ParagraphBoundaries(t *testing.T) {
	// Three paragraphs of ~383 chars with breaks near the 500-char marks:
	// each paragraph must come out as its own chunk.
	para := strings.TrimSpace(strings.Repeat("alpha beta gamma delta. ", 16))
	text := para + "\n\n" + para + "\n\n" + para

	segments := ChunkText(text, 500)
	if len(segments) != 3 {
		t.Fatalf("ChunkText() returned %d segments, want 3", len(segments))
	}
	for i, seg := range segments {
		if seg != para {
			t.Errorf("segment[%d] does not match its paragraph:\n got: %.60q", i, seg)
		}
	}
}

func TestChunkText_HardCutWithoutBoundaries(t *testing.T) {
	// A single long token has no breakable point; the chunker must still
	// make forward progress by cutting at the exact limit.
	text := strings.Repeat("x", 1250)
	segments := ChunkText(text, 500)
	if len(segments) != 3 {
		t.Fatalf("ChunkText() returned %d segments, want 3", len(segments))
	}
	wantLens := []int{500, 500, 250}
	for i, seg := range segments {
		if len(seg) != wantLens[i] {
			t.Errorf("segment[%d] length = %d, want %d", i, len(seg), wantLens[i])
		}
	}
}

func TestChunkText_SentenceBoundary(t *testing.T) {
	first := "First sentence ends here."
	text := first + " " + strings.Repeat("filler words continue on and on ", 20)
	segments := ChunkText(text, len(first)+10)
	if len(segments) < 2 {
		t.Fatalf("ChunkText() returned %d segments, want at least 2", len(segments))
	}
	if segments[0] != first {
		t.Errorf("first segment = %q, want cut after %q", segments[0], first)
	}
}
