// Package pipeline turns a transcribed workout into a standalone HTML
// preview.
//
// Stages:
//   - Markdown preprocessing (line ending normalization)
//   - Markdown to HTML conversion via Goldmark (GFM pipe tables)
//   - CSS injection into the resulting document
//
// The markdown itself is produced by the root c2md package; this package
// never alters what goes on the clipboard.
package pipeline
