package document

import (
	"regexp"
	"strings"
	"unicode"
)

// EntityExtractor extracts notable terms and phrases from a text segment.
// Implementations are best-effort: duplicates or misses are acceptable, but
// every returned entity must appear in the segment text.
type EntityExtractor interface {
	Extract(text string) []string
}

const (
	defaultMaxEntities   = 12
	defaultFreqThreshold = 3
	minFrequentTermLen   = 4
)

var (
	// Capitalized multi-word phrases, e.g. "Acme Corporation" or "New York".
	properPhrasePattern = regexp.MustCompile(`\b[A-Z][a-zA-Z0-9]*(?:\s+[A-Z][a-zA-Z0-9]*)+\b`)

	// Dates and money amounts, e.g. "2024-03-01", "12/31/2024", "$1,200.50".
	datePattern  = regexp.MustCompile(`\b(?:\d{4}-\d{2}-\d{2}|\d{1,2}[/.]\d{1,2}[/.]\d{2,4})\b`)
	moneyPattern = regexp.MustCompile(`[$€£]\s?\d[\d,]*(?:\.\d+)?|\b\d[\d,]*(?:\.\d+)?\s?%`)
)

// HeuristicExtractor implements EntityExtractor with regex and frequency
// heuristics. It is deterministic for identical input.
type HeuristicExtractor struct {
	maxEntities   int
	freqThreshold int
}

// NewHeuristicExtractor creates an extractor with default limits.
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{
		maxEntities:   defaultMaxEntities,
		freqThreshold: defaultFreqThreshold,
	}
}

// Extract returns notable terms from text in first-occurrence order:
// capitalized multi-word phrases, date and money patterns, and terms that
// repeat above the frequency threshold.
func (e *HeuristicExtractor) Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var entities []string
	seen := make(map[string]struct{})

	add := func(candidate string) {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			return
		}
		key := strings.ToLower(candidate)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		entities = append(entities, candidate)
	}

	for _, m := range properPhrasePattern.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range datePattern.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range moneyPattern.FindAllString(text, -1) {
		add(m)
	}

	// Terms repeated often enough within the segment are likely its topic.
	tokens := tokenizeWords(text)
	freq := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		freq[tok]++
	}
	for _, tok := range tokens {
		if len(tok) < minFrequentTermLen {
			continue
		}
		if _, isStop := stopwords[tok]; isStop {
			continue
		}
		if freq[tok] >= e.freqThreshold {
			add(tok)
		}
	}

	if len(entities) > e.maxEntities {
		entities = entities[:e.maxEntities]
	}
	return entities
}

var stopwords = map[string]struct{}{
	"about": {}, "after": {}, "been": {}, "before": {}, "does": {}, "each": {},
	"from": {}, "have": {}, "into": {}, "more": {}, "most": {}, "other": {},
	"over": {}, "some": {}, "such": {}, "than": {}, "that": {}, "their": {},
	"them": {}, "then": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"were": {}, "what": {}, "when": {}, "where": {}, "which": {}, "will": {},
	"with": {}, "would": {}, "your": {},
}

// tokenizeWords lowercases text and splits it into letter/digit runs.
func tokenizeWords(text string) []string {
	if text == "" {
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
