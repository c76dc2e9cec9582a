package document

import (
	"strings"
	"unicode"
)

const (
	// DefaultMaxChunkSize is the character budget per chunk.
	DefaultMaxChunkSize = 500

	// boundaryLookback is how far back from the size limit we search for a
	// sentence or paragraph boundary before falling back to whitespace.
	boundaryLookback = 150
)

// ChunkText splits text into ordered segments of at most maxChunkSize runes.
// Segments close at the nearest preceding sentence end or paragraph break
// within a lookback window, then at whitespace, then at the hard limit so a
// single unbreakable token still makes forward progress.
// Empty input yields an empty slice. Boundary trimming may drop surrounding
// whitespace but never drops content.
func ChunkText(text string, maxChunkSize int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	var segments []string
	start := 0

	for start < len(runes) {
		if len(runes)-start <= maxChunkSize {
			appendSegment(&segments, string(runes[start:]))
			break
		}

		end := start + maxChunkSize
		cut := findBoundary(runes, start, end)

		appendSegment(&segments, string(runes[start:cut]))
		start = cut
	}

	return segments
}

// findBoundary picks the cut position for a segment spanning [start, limit).
// Preference order: paragraph break or sentence end within the lookback
// window, then the last whitespace anywhere in the segment, then the hard
// limit itself.
func findBoundary(runes []rune, start, limit int) int {
	windowStart := limit - boundaryLookback
	if windowStart < start+1 {
		windowStart = start + 1
	}

	// Paragraph break nearest the limit wins over a later sentence end:
	// paragraphs are the stronger natural boundary.
	for i := limit - 1; i >= windowStart; i-- {
		if runes[i] == '\n' && i > start && runes[i-1] == '\n' {
			return i + 1
		}
	}

	// Sentence-ending punctuation followed by whitespace.
	for i := limit - 1; i >= windowStart; i-- {
		if isSentenceEnd(runes[i]) && unicode.IsSpace(runes[i+1]) {
			return i + 1
		}
	}

	// Any whitespace, scanning back from the limit.
	for i := limit - 1; i > start; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}

	// No breakable point at all: hard cut.
	return limit
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?':
		return true
	}
	return false
}

// appendSegment trims a raw segment and keeps it only if content remains.
func appendSegment(segments *[]string, raw string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		*segments = append(*segments, trimmed)
	}
}
