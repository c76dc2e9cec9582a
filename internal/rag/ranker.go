package rag

import (
	"sort"
	"strings"

	"docchat/internal/document"
	"docchat/internal/query"
)

// Ranker scores a document's chunks against an analyzed query and selects
// the most relevant ones.
type Ranker struct {
	cfg Config
}

// NewRanker creates a Ranker with the given config; zero fields fall back
// to defaults.
func NewRanker(cfg Config) *Ranker {
	return &Ranker{cfg: cfg.normalized()}
}

// FindRelevantChunks scores every chunk of the record against the query and
// returns the top-K chunks above the relevance floor, most relevant first.
// Ties break by ascending chunk index so earlier material wins. When no
// chunk clears the floor but the query names explicit pages, chunks on those
// pages are returned anyway: a page request must not be dropped for low
// keyword overlap. Scores are written to working copies only.
func (r *Ranker) FindRelevantChunks(rec *document.Record, q query.Analysis) []ScoredChunk {
	if rec == nil || len(rec.Chunks) == 0 {
		return nil
	}

	scored := make([]ScoredChunk, len(rec.Chunks))
	for i, c := range rec.Chunks {
		score := r.scoreChunk(c, q)
		sc := ScoredChunk{Chunk: c, Score: score}
		sc.RelevanceScore = score
		scored[i] = sc
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Index < scored[j].Index
	})

	selected := make([]ScoredChunk, 0, r.cfg.TopK)
	for _, sc := range scored {
		if sc.Score < r.cfg.MinScore || sc.Score == 0 {
			break
		}
		selected = append(selected, sc)
		if len(selected) == r.cfg.TopK {
			break
		}
	}

	if len(selected) == 0 && len(q.PageReferences) > 0 {
		return r.pageFallback(scored, q.PageReferences)
	}

	return selected
}

// scoreChunk computes the normalized relevance of one chunk: a weighted sum
// of keyword matches, entity matches, and a page-intersection bonus, divided
// by the theoretical maximum for this query so the result stays in [0, 1].
func (r *Ranker) scoreChunk(c document.Chunk, q query.Analysis) float64 {
	raw := 0.0

	lowerText := strings.ToLower(c.Text)
	lowerEntities := make([]string, len(c.KeyEntities))
	for i, e := range c.KeyEntities {
		lowerEntities[i] = strings.ToLower(e)
	}

	for _, term := range q.SearchTerms {
		if strings.Contains(lowerText, term) {
			raw += r.cfg.KeywordWeight
		}
		for _, entity := range lowerEntities {
			if strings.Contains(entity, term) {
				raw += r.cfg.EntityWeight
				break
			}
		}
	}

	if pagesIntersect(c.Pages, q.PageReferences) {
		raw += r.cfg.PageMatchBonus
	}

	max := float64(len(q.SearchTerms))*(r.cfg.KeywordWeight+r.cfg.EntityWeight) + r.cfg.PageMatchBonus
	if max == 0 {
		return 0
	}

	score := raw / max
	if score > 1 {
		score = 1
	}
	return score
}

// pageFallback returns chunks whose pages match an explicit reference, in
// source order, capped at TopK.
func (r *Ranker) pageFallback(scored []ScoredChunk, refs []int) []ScoredChunk {
	var matched []ScoredChunk
	for _, sc := range scored {
		if pagesIntersect(sc.Pages, refs) {
			matched = append(matched, sc)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Index < matched[j].Index
	})

	if len(matched) > r.cfg.TopK {
		matched = matched[:r.cfg.TopK]
	}
	return matched
}

func pagesIntersect(pages, refs []int) bool {
	if len(pages) == 0 || len(refs) == 0 {
		return false
	}
	set := make(map[int]struct{}, len(pages))
	for _, p := range pages {
		set[p] = struct{}{}
	}
	for _, ref := range refs {
		if _, ok := set[ref]; ok {
			return true
		}
	}
	return false
}
