package c2md

import "strings"

// Section headings of the rendered document.
const (
	headingSummary   = "Workout Summary"
	headingMoreStats = "Additional Stats"
	headingDetails   = "Workout Details"
	headingImage     = "Workout Image"
	imageAltText     = "Workout Summary"
	tableSeparator   = "---"
)

// Render serializes a WorkoutRecord to markdown.
// Section order is fixed; values are written exactly as captured.
// Render is pure: the same record always yields the same bytes.
func Render(rec *WorkoutRecord) string {
	if rec == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString("# " + rec.Title + "\n\n")
	b.WriteString("**Date:** " + rec.Date + "\n\n")
	b.WriteString("**Original Workout:** " + rec.SourceURL + "\n\n")

	writeStatSection(&b, headingSummary, rec.Stats, true)
	writeStatSection(&b, headingMoreStats, rec.MoreStats, false)
	writeStatSection(&b, headingDetails, rec.Details, false)

	if rec.Table != nil {
		writeTable(&b, rec.Table)
	}

	b.WriteString("\n## " + headingImage + "\n\n")
	b.WriteString("![" + imageAltText + "](" + rec.ImageURL + ")\n")

	return b.String()
}

// writeStatSection writes a heading followed by one bold-labelled line per
// entry. Empty sections are skipped unless always is set.
func writeStatSection(b *strings.Builder, heading string, stats *StatMap, always bool) {
	if stats.Len() == 0 && !always {
		return
	}
	b.WriteString("## " + heading + "\n\n")
	stats.Each(func(label, value string) {
		b.WriteString("**" + label + ":** " + value + "\n\n")
	})
}

// writeTable writes a GitHub-flavored markdown pipe table.
func writeTable(b *strings.Builder, t *IntervalTable) {
	b.WriteString("\n## " + t.Name + "\n\n")
	writeTableRow(b, t.Headers)

	sep := make([]string, len(t.Headers))
	for i := range sep {
		sep[i] = tableSeparator
	}
	writeTableRow(b, sep)

	for _, row := range t.Rows {
		writeTableRow(b, row)
	}
}

func writeTableRow(b *strings.Builder, cells []string) {
	b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
}
