package pipeline

import (
	"context"
	"regexp"
)

// crlfOrCR matches Windows and old Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// LineEndingPreprocessor normalizes line endings before conversion.
// Text scraped from the logbook can carry \r\n inside cell values, which
// would split a pipe table row in two.
type LineEndingPreprocessor struct{}

// PreprocessMarkdown converts \r\n and \r to \n.
func (p *LineEndingPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	return crlfOrCR.ReplaceAllString(content, "\n")
}
