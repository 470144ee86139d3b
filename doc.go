// Package c2md transcribes Concept2 online logbook workout pages to markdown.
//
// # Quick Start
//
// Create a transcriber, transcribe a workout page, and close when done:
//
//	tr, err := c2md.NewTranscriber(c2md.WithCookie(session))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tr.Close()
//
//	res, err := tr.TranscribeURL(ctx, "https://log.concept2.com/profile/123/log/987654")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(res.Markdown)
//
// Saved pages work too: ReadPage builds a Page from HTML, taking its address
// from the canonical link when none is given.
//
// # Pipeline
//
//  1. Locator: the final path segment must be a decimal workout identifier,
//     otherwise ErrNotWorkoutPage and nothing else runs.
//  2. Extractor: title, date, summary stats, additional stats, details and
//     the intervals (or splits) table are read with CSS selectors. Missing
//     regions fall back to defaults; extraction never fails.
//  3. Renderer: a fixed markdown layout ending with the monitor image.
//  4. Optional HTML preview via Goldmark (WithPreview).
//
// # Clipboard
//
// ClipboardWriter tries the system clipboard first and falls back to a
// synchronous Fallback (OSC 52 in terminals, a hidden textarea in the
// browser). A fallback copy is always reported as successful. CopyButton
// adds the Idle, Busy and Confirming cycle of a copy control with a single
// confirmation timer.
//
// # Browser
//
// Enhancer opens a workout page in Chrome (go-rod) and adds a monitor image
// link and a "Copy as Markdown" button to the page's actions region.
//
// # Parallel Processing
//
// For batch runs, TranscriberPool lazily creates transcribers up to its size:
//
//	pool := c2md.NewTranscriberPool(4, func() (*c2md.Transcriber, error) {
//	    return c2md.NewTranscriber()
//	})
//	defer pool.Close()
package c2md
