package pipeline

import (
	"context"
	"fmt"
)

// Previewer renders transcribed markdown as a styled HTML page.
type Previewer struct {
	preprocessor MarkdownPreprocessor
	converter    HTMLConverter
	cssInjector  CSSInjector
	css          string
}

// NewPreviewer creates a Previewer applying css to every page.
func NewPreviewer(css string) *Previewer {
	return &Previewer{
		preprocessor: &LineEndingPreprocessor{},
		converter:    NewGoldmarkConverter(),
		cssInjector:  &CSSInjection{},
		css:          css,
	}
}

// Preview converts markdown to a standalone HTML document titled title.
func (p *Previewer) Preview(ctx context.Context, markdown, title string) (string, error) {
	content := p.preprocessor.PreprocessMarkdown(ctx, markdown)

	htmlContent, err := p.converter.ToHTML(ctx, content, title)
	if err != nil {
		return "", fmt.Errorf("converting to HTML: %w", err)
	}

	htmlContent = p.cssInjector.InjectCSS(ctx, htmlContent, p.css)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return htmlContent, nil
}
