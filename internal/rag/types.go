package rag

import "docchat/internal/document"

// Config holds the retrieval tunables. The relative priority is the binding
// contract: a page match outranks an entity match, which outranks a plain
// keyword match.
type Config struct {
	// KeywordWeight scores each query term found in a chunk's text.
	KeywordWeight float64
	// EntityWeight scores each query term found in a chunk's key entities.
	EntityWeight float64
	// PageMatchBonus is added once when a chunk's pages intersect the
	// query's explicit page references.
	PageMatchBonus float64
	// TopK is the maximum number of chunks returned by a ranking pass.
	TopK int
	// MinScore is the relevance floor a chunk must clear to be selected.
	MinScore float64
	// MaxChunkSize is the character budget per chunk when processing a document.
	MaxChunkSize int
	// MaxChunks caps how many chunks a single document may produce.
	MaxChunks int
	// ContextBudget is the maximum size in runes of an assembled context string.
	ContextBudget int
	// MaxPageNumber bounds page references accepted from user messages.
	MaxPageNumber int
}

// DefaultConfig returns the retrieval defaults.
func DefaultConfig() Config {
	return Config{
		KeywordWeight:  1.0,
		EntityWeight:   2.0,
		PageMatchBonus: 5.0,
		TopK:           4,
		MinScore:       0.05,
		MaxChunkSize:   document.DefaultMaxChunkSize,
		MaxChunks:      500,
		ContextBudget:  2000,
	}
}

// normalized fills in zero values so a partially specified config behaves.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.KeywordWeight <= 0 {
		c.KeywordWeight = def.KeywordWeight
	}
	if c.EntityWeight <= 0 {
		c.EntityWeight = def.EntityWeight
	}
	if c.PageMatchBonus <= 0 {
		c.PageMatchBonus = def.PageMatchBonus
	}
	if c.TopK <= 0 {
		c.TopK = def.TopK
	}
	if c.MinScore < 0 {
		c.MinScore = def.MinScore
	}
	if c.MaxChunkSize <= 0 {
		c.MaxChunkSize = def.MaxChunkSize
	}
	if c.MaxChunks <= 0 {
		c.MaxChunks = def.MaxChunks
	}
	if c.ContextBudget <= 0 {
		c.ContextBudget = def.ContextBudget
	}
	return c
}

// ScoredChunk is a working copy of a chunk produced by a ranking pass for a
// single query. The canonical record is never mutated.
type ScoredChunk struct {
	document.Chunk
	Score float64
}
