package rag

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"docchat/internal/contextutil"
	"docchat/internal/document"
	"docchat/internal/query"
)

const (
	contextHeader    = "--- Context from document ---"
	contextFooter    = "--- End Context ---"
	chunkDelimiter   = "\n\n---\n\n"
	minUsableDocSize = 10
)

// Assembler builds document records from raw text and token-budgeted context
// strings from ranked chunks. It is stateless; every call is a pure
// transformation of its inputs.
type Assembler struct {
	cfg       Config
	ranker    *Ranker
	analyzer  *query.Analyzer
	extractor document.EntityExtractor
}

// NewAssembler creates an Assembler. A nil extractor selects the default
// heuristic entity extractor.
func NewAssembler(cfg Config, extractor document.EntityExtractor) *Assembler {
	cfg = cfg.normalized()
	if extractor == nil {
		extractor = document.NewHeuristicExtractor()
	}
	return &Assembler{
		cfg:       cfg,
		ranker:    NewRanker(cfg),
		analyzer:  query.NewAnalyzer(cfg.MaxPageNumber),
		extractor: extractor,
	}
}

// ProcessDocument builds a Record from raw extracted text. Empty or
// too-short text yields a record with zero chunks rather than an error;
// callers must treat zero chunks as "no context available". The result is
// deterministic for identical input.
func (a *Assembler) ProcessDocument(ctx context.Context, text, fileName string) *document.Record {
	logger := contextutil.LoggerFromContext(ctx)

	rec := &document.Record{FileName: fileName}

	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minUsableDocSize {
		logger.InfoContext(ctx, "document too short to index", "file_name", fileName, "length", len(trimmed))
		return rec
	}

	segments := document.ChunkText(text, a.cfg.MaxChunkSize)
	if len(segments) > a.cfg.MaxChunks {
		logger.WarnContext(ctx, "document exceeds chunk cap, truncating",
			"file_name", fileName,
			"chunks", len(segments),
			"cap", a.cfg.MaxChunks,
		)
		segments = segments[:a.cfg.MaxChunks]
		rec.Truncated = true
	}

	rec.Chunks = document.Enhance(segments, text, a.extractor)
	rec.TotalChars = utf8.RuneCountInString(text)
	for _, c := range rec.Chunks {
		for _, p := range c.Pages {
			if p > rec.PageCount {
				rec.PageCount = p
			}
		}
	}

	logger.InfoContext(ctx, "document processed",
		"file_name", fileName,
		"chunks", len(rec.Chunks),
		"pages", rec.PageCount,
		"total_chars", rec.TotalChars,
		"truncated", rec.Truncated,
	)
	return rec
}

// PrepareContext analyzes the user message and assembles a context string
// from the record's most relevant chunks. A nil record or one with zero
// chunks yields an empty string.
func (a *Assembler) PrepareContext(ctx context.Context, rec *document.Record, userMessage string) string {
	return a.PrepareContextWith(ctx, rec, a.analyzer.Analyze(userMessage))
}

// PrepareContextWith assembles context from a pre-computed query analysis,
// for callers that already ran the analyzer themselves.
func (a *Assembler) PrepareContextWith(ctx context.Context, rec *document.Record, q query.Analysis) string {
	logger := contextutil.LoggerFromContext(ctx)

	if rec == nil || len(rec.Chunks) == 0 {
		return ""
	}

	ranked := a.ranker.FindRelevantChunks(rec, q)
	if len(ranked) == 0 {
		logger.InfoContext(ctx, "no relevant chunks for query",
			"file_name", rec.FileName,
			"terms", len(q.SearchTerms),
			"page_refs", len(q.PageReferences),
		)
		return ""
	}

	// Drop lowest-ranked chunks until the assembled string fits the budget.
	for len(ranked) > 0 {
		assembled := a.format(rec.FileName, ranked)
		if utf8.RuneCountInString(assembled) <= a.cfg.ContextBudget {
			logger.InfoContext(ctx, "context assembled",
				"file_name", rec.FileName,
				"chunks_included", len(ranked),
				"context_length", utf8.RuneCountInString(assembled),
			)
			return assembled
		}
		if len(ranked) == 1 {
			break
		}
		ranked = ranked[:len(ranked)-1]
	}

	// Even the single top chunk overflows: truncate its text at a sentence
	// boundary near the limit.
	top := ranked[0]
	overhead := utf8.RuneCountInString(a.format(rec.FileName, []ScoredChunk{top})) - utf8.RuneCountInString(top.Text)
	allowance := a.cfg.ContextBudget - overhead
	if allowance <= 0 {
		return ""
	}
	top.Text = truncateAtSentence(top.Text, allowance)
	logger.InfoContext(ctx, "top chunk truncated to fit context budget",
		"file_name", rec.FileName,
		"chunk_index", top.Index,
	)
	return a.format(rec.FileName, []ScoredChunk{top})
}

// format renders ranked chunks into the context block handed to prompt
// construction, annotating each chunk with its source pages when known.
func (a *Assembler) format(fileName string, ranked []ScoredChunk) string {
	var b strings.Builder
	b.WriteString(contextHeader)
	b.WriteString("\n\n")

	for i, sc := range ranked {
		if i > 0 {
			b.WriteString(chunkDelimiter)
		}
		b.WriteString(fmt.Sprintf("[Source: %s%s]\n", fileName, formatPages(sc.Pages)))
		b.WriteString(sc.Text)
	}

	b.WriteString("\n\n")
	b.WriteString(contextFooter)
	return b.String()
}

// formatPages renders a page annotation such as ", page 4" or ", pages 2-5".
func formatPages(pages []int) string {
	switch len(pages) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf(", page %d", pages[0])
	default:
		min, max := pages[0], pages[0]
		for _, p := range pages[1:] {
			if p < min {
				min = p
			}
			if p > max {
				max = p
			}
		}
		return fmt.Sprintf(", pages %d-%d", min, max)
	}
}

// truncateAtSentence cuts text to at most limit runes, preferring the
// sentence end nearest the limit, then whitespace, then a hard cut.
func truncateAtSentence(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	cut := limit
	for i := limit - 1; i > 0; i-- {
		if isSentenceEnd(runes[i]) {
			cut = i + 1
			break
		}
		if unicode.IsSpace(runes[i]) && cut == limit {
			cut = i
		}
	}
	return strings.TrimSpace(string(runes[:cut]))
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?':
		return true
	}
	return false
}
