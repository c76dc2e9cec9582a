// Package extract supplies the plain text used by the document pipeline from
// an uploaded file's raw content. The pipeline itself never parses file
// formats; this is its extraction boundary.
package extract

import (
	"path/filepath"
	"strings"
)

// Extractor turns raw file content into plain text.
type Extractor interface {
	Text(content []byte) (string, error)
}

// ForFile selects an extractor for a file name. Markdown files get the
// goldmark extractor; everything else is treated as plain text that an
// upstream collaborator already extracted.
func ForFile(fileName string) Extractor {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".md", ".markdown":
		return NewMarkdownExtractor()
	default:
		return PlainText{}
	}
}

// PlainText passes content through unchanged.
type PlainText struct{}

// Text returns the content as a string.
func (PlainText) Text(content []byte) (string, error) {
	return string(content), nil
}
