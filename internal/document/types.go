package document

import "fmt"

// Chunk represents a bounded segment of an uploaded document's text,
// annotated with position, page, and entity metadata.
type Chunk struct {
	Index          int      // Sequence order within the record (starts at 0)
	Text           string   // Segment content
	StartPos       int      // Rune offset of the segment start in the original text
	EndPos         int      // Rune offset one past the segment end
	Pages          []int    // Page numbers the segment overlaps; empty when pagination is unknown
	KeyEntities    []string // Notable terms/phrases extracted from the segment
	RelevanceScore float64  // Set during a ranking pass only; not persisted
}

// Record is the aggregate of all chunks for one uploaded document.
// A Record with zero chunks means the input was empty or unusable and
// consumers must treat it as "no context available".
type Record struct {
	FileName   string
	Chunks     []Chunk
	TotalChars int  // Rune count of the original text
	PageCount  int  // Highest page number seen, 0 when pagination is unknown
	Truncated  bool // True when the chunk cap cut off part of the document
}

// Validate checks the record's structural invariants. A violation is an
// internal defect, not an expected input condition.
func (r *Record) Validate() error {
	for i, c := range r.Chunks {
		if c.Index != i {
			return fmt.Errorf("chunk at position %d has index %d, want %d", i, c.Index, i)
		}
		if c.StartPos >= c.EndPos {
			return fmt.Errorf("chunk %d has invalid span [%d, %d)", c.Index, c.StartPos, c.EndPos)
		}
		if i > 0 && c.StartPos < r.Chunks[i-1].EndPos {
			return fmt.Errorf("chunk %d span overlaps chunk %d", c.Index, i-1)
		}
	}
	return nil
}
