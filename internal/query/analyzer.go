// Package query turns a raw user message into the search terms and explicit
// page references used by the retrieval layer. Analysis is a pure function of
// the message; empty or unusable messages yield empty results, never errors.
package query

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	// minTermLength drops terms too short to carry meaning.
	minTermLength = 2

	// DefaultMaxPageNumber bounds page references; anything larger is
	// treated as a non-match rather than an error.
	DefaultMaxPageNumber = 10000
)

// pageRefPattern matches "page 4", "p. 4", "pp. 2-5", "pg 4", "pages 2-5",
// "pages 2 to 5", case-insensitive.
var pageRefPattern = regexp.MustCompile(`(?i)\b(?:pages?|pp\.?|pg\.?|p\.)\s*(\d{1,6})(?:\s*(?:-|–|—|to|through)\s*(\d{1,6}))?`)

var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "can": {}, "do": {}, "does": {}, "for": {},
	"from": {}, "has": {}, "have": {}, "how": {}, "in": {}, "is": {}, "it": {},
	"me": {}, "my": {}, "of": {}, "on": {}, "or": {}, "page": {}, "pages": {},
	"say": {}, "says": {},
	"tell": {}, "that": {}, "the": {}, "this": {}, "to": {}, "was": {},
	"were": {}, "what": {}, "when": {}, "where": {}, "which": {}, "who": {},
	"why": {}, "will": {}, "with": {}, "would": {}, "you": {}, "your": {},
}

// Analysis is the transient result of analyzing one user message.
type Analysis struct {
	SearchTerms    []string
	PageReferences []int
}

// Analyzer extracts search terms and page references from user messages.
type Analyzer struct {
	maxPageNumber int
}

// NewAnalyzer creates an Analyzer. maxPageNumber bounds accepted page
// references; zero or negative selects the default.
func NewAnalyzer(maxPageNumber int) *Analyzer {
	if maxPageNumber <= 0 {
		maxPageNumber = DefaultMaxPageNumber
	}
	return &Analyzer{maxPageNumber: maxPageNumber}
}

// Analyze runs both extractions over one message.
func (a *Analyzer) Analyze(message string) Analysis {
	return Analysis{
		SearchTerms:    ExtractSearchTerms(message),
		PageReferences: a.ExtractPageReferences(message),
	}
}

// ExtractSearchTerms normalizes the message (lowercase, punctuation
// stripped), removes stop words and too-short terms, and returns the
// remaining terms deduplicated in first-occurrence order.
func ExtractSearchTerms(message string) []string {
	tokens := tokenize(message)
	if len(tokens) == 0 {
		return nil
	}

	var terms []string
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if len([]rune(tok)) < minTermLength {
			continue
		}
		if _, isStop := stopwords[tok]; isStop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
	}
	return terms
}

// ExtractPageReferences scans for "page N" style patterns and returns the
// distinct page numbers in mention order. Ranges expand to every integer in
// the inclusive range. Non-positive or out-of-bound numbers are skipped.
func (a *Analyzer) ExtractPageReferences(message string) []int {
	matches := pageRefPattern.FindAllStringSubmatch(message, -1)
	if len(matches) == 0 {
		return nil
	}

	var pages []int
	seen := make(map[int]struct{})

	add := func(p int) {
		if p <= 0 || p > a.maxPageNumber {
			return
		}
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		pages = append(pages, p)
	}

	for _, m := range matches {
		from, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if m[2] == "" {
			add(from)
			continue
		}
		to, err := strconv.Atoi(m[2])
		if err != nil || to < from {
			add(from)
			continue
		}
		if to > a.maxPageNumber {
			to = a.maxPageNumber
		}
		for p := from; p <= to; p++ {
			add(p)
		}
	}
	return pages
}

// tokenize lowercases text and splits on anything that is not a letter or digit.
func tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	return strings.Fields(builder.String())
}
