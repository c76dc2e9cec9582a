package document

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// pageMarkerPattern matches explicit page markers that text extractors leave
// behind, e.g. "[Page 3]" or "--- Page 3 ---" on their own line.
var pageMarkerPattern = regexp.MustCompile(`(?mi)^\s*(?:\[page\s+(\d+)\]|-{2,}\s*page\s+(\d+)\s*-{2,})\s*$`)

// pageBreak marks the rune offset at which a given page starts.
type pageBreak struct {
	offset int
	page   int
}

// Enhance turns raw segments into Chunks with sequential indices, rune
// offsets into the original text, page spans, and key entities. Segments
// must be in source order; offsets are located with a forward cursor so the
// original is never rescanned from the start.
func Enhance(segments []string, original string, extractor EntityExtractor) []Chunk {
	if len(segments) == 0 {
		return nil
	}
	if extractor == nil {
		extractor = NewHeuristicExtractor()
	}

	breaks := pageBreaks(original)

	chunks := make([]Chunk, 0, len(segments))
	byteCursor := 0
	runeCursor := 0

	for i, seg := range segments {
		rel := strings.Index(original[byteCursor:], seg)
		if rel < 0 {
			// Segment text is not literally present past the cursor. This
			// cannot happen for segments produced by ChunkText; skip rather
			// than emit a chunk with a fabricated span.
			continue
		}
		absByte := byteCursor + rel
		start := runeCursor + utf8.RuneCountInString(original[byteCursor:absByte])
		end := start + utf8.RuneCountInString(seg)

		chunks = append(chunks, Chunk{
			Index:       i,
			Text:        seg,
			StartPos:    start,
			EndPos:      end,
			Pages:       pagesForSpan(breaks, start, end),
			KeyEntities: extractor.Extract(seg),
		})

		byteCursor = absByte + len(seg)
		runeCursor = end
	}

	// Skipped segments leave index gaps; reassign so indices stay 0..n-1.
	for i := range chunks {
		chunks[i].Index = i
	}

	return chunks
}

// pageBreaks scans the original text for pagination markers and returns the
// rune offsets at which each page starts. It recognizes form feeds (the page
// separator most plain-text extractors emit) and explicit "[Page N]" style
// markers. No markers means pagination is unknown and the result is nil;
// pages are never guessed.
func pageBreaks(text string) []pageBreak {
	var breaks []pageBreak

	// Explicit markers carry their own page numbers.
	for _, m := range pageMarkerPattern.FindAllStringSubmatchIndex(text, -1) {
		num := ""
		if m[2] >= 0 {
			num = text[m[2]:m[3]]
		} else if m[4] >= 0 {
			num = text[m[4]:m[5]]
		}
		page, err := strconv.Atoi(num)
		if err != nil || page <= 0 {
			continue
		}
		breaks = append(breaks, pageBreak{offset: utf8.RuneCountInString(text[:m[0]]), page: page})
	}

	if len(breaks) > 0 {
		if breaks[0].offset > 0 {
			// Text before the first marker belongs to the preceding page.
			first := breaks[0].page - 1
			if first < 1 {
				first = 1
			}
			breaks = append([]pageBreak{{offset: 0, page: first}}, breaks...)
		}
		return breaks
	}

	// Form feeds: each one starts the next page, counting from 1.
	runeIdx := 0
	page := 1
	for _, r := range text {
		if r == '\f' {
			if len(breaks) == 0 {
				breaks = append(breaks, pageBreak{offset: 0, page: 1})
			}
			page++
			breaks = append(breaks, pageBreak{offset: runeIdx + 1, page: page})
		}
		runeIdx++
	}

	return breaks
}

// pagesForSpan returns the ordered set of pages a rune span overlaps.
func pagesForSpan(breaks []pageBreak, start, end int) []int {
	if len(breaks) == 0 {
		return nil
	}

	var pages []int
	for i, b := range breaks {
		pageEnd := int(^uint(0) >> 1)
		if i+1 < len(breaks) {
			pageEnd = breaks[i+1].offset
		}
		if start < pageEnd && end > b.offset {
			pages = append(pages, b.page)
		}
	}
	return pages
}
