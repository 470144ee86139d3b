package c2md

import (
	"io"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CSS selectors describing the logbook workout page.
const (
	selActions      = ".actions"
	selTitle        = "h2"
	selDetails      = ".workout__details"
	selDate         = ".workout__details h4"
	selStat         = ".workout__stat"
	selStatValue    = "span"
	selStatLabel    = "p"
	selMoreStats    = ".workout__more-stats"
	selIntervals    = ".intervals"
	selSplits       = ".splits"
	selHeaderCells  = "thead tr th"
	selBodyRows     = "tbody tr"
	selHeartIcon    = ".icon-heart"
	summaryRowClass = "info"
	restRowPrefix   = "r"
)

// Extractor reads a workout page snapshot into a WorkoutRecord.
// Missing regions fall back to defaults or empty sections; it never fails.
type Extractor struct {
	host   string
	logger *slog.Logger
}

// NewExtractor creates an Extractor for the given logbook host.
// A nil logger discards diagnostics.
func NewExtractor(host string, logger *slog.Logger) *Extractor {
	if host == "" {
		host = DefaultHost
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{host: host, logger: logger}
}

// Extract builds a WorkoutRecord from doc.
// The caller must already have validated id with WorkoutID.
func (e *Extractor) Extract(doc *goquery.Document, id, sourceURL string) *WorkoutRecord {
	rec := newWorkoutRecord(id, sourceURL, e.host)
	if doc == nil {
		e.logger.Debug("no document, using defaults", "workout", id)
		return rec
	}

	if title, ok := firstText(doc.Selection, selTitle); ok {
		rec.Title = title
	} else {
		e.logger.Debug("title not found, using default", "workout", id)
	}

	if date, ok := firstText(doc.Selection, selDate); ok {
		rec.Date = date
	} else {
		e.logger.Debug("date not found, using default", "workout", id)
	}

	e.extractStats(doc, rec.Stats)
	e.extractMoreStats(doc, rec.MoreStats)
	e.extractDetails(doc, rec.Details)
	rec.Table = e.extractTable(doc)

	e.logger.Debug("extracted workout",
		"workout", id,
		"stats", rec.Stats.Len(),
		"moreStats", rec.MoreStats.Len(),
		"details", rec.Details.Len(),
		"table", rec.Table != nil,
	)
	return rec
}

// extractStats pairs the value and label of every stat block.
func (e *Extractor) extractStats(doc *goquery.Document, stats *StatMap) {
	doc.Find(selStat).Each(func(_ int, stat *goquery.Selection) {
		value := stat.Find(selStatValue).First()
		label := stat.Find(selStatLabel).First()
		if value.Length() == 0 || label.Length() == 0 {
			e.logger.Debug("skipping incomplete stat block")
			return
		}
		stats.Set(trimmedText(label), trimmedText(value))
	})
}

// extractMoreStats reads every header/data row of the "more stats" tables.
func (e *Extractor) extractMoreStats(doc *goquery.Document, stats *StatMap) {
	doc.Find(selMoreStats).Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			th := row.Find("th").First()
			td := row.Find("td").First()
			if th.Length() == 0 || td.Length() == 0 {
				return
			}
			stats.Set(trimmedText(th), trimmedText(td))
		})
	})
}

// extractDetails reads bold-labelled paragraphs of the details region.
// The value is the paragraph text without the first occurrence of the label.
func (e *Extractor) extractDetails(doc *goquery.Document, details *StatMap) {
	section := doc.Find(selDetails).First()
	if section.Length() == 0 {
		e.logger.Debug("details region not found")
		return
	}

	section.Find("p").Each(func(_ int, p *goquery.Selection) {
		strong := p.Find("strong").First()
		if strong.Length() == 0 {
			return
		}
		rawLabel := strong.Text()
		value := strings.TrimSpace(strings.Replace(p.Text(), rawLabel, "", 1))
		if value == "" {
			return
		}
		details.Set(strings.TrimSpace(rawLabel), value)
	})
}

// extractTable reads the intervals table, or the splits table when the page
// has no intervals container. Returns nil when nothing qualifies.
func (e *Extractor) extractTable(doc *goquery.Document) *IntervalTable {
	name := TableIntervals
	container := doc.Find(selIntervals).First()
	if container.Length() == 0 {
		name = TableSplits
		container = doc.Find(selSplits).First()
	}
	if container.Length() == 0 {
		e.logger.Debug("no intervals or splits container")
		return nil
	}

	table := container.Find("table").First()
	if table.Length() == 0 {
		e.logger.Debug("table container has no table", "table", name)
		return nil
	}

	headerCells := table.Find(selHeaderCells)
	bodyRows := table.Find(selBodyRows)
	if headerCells.Length() == 0 || bodyRows.Length() == 0 {
		e.logger.Debug("table has no header or body rows", "table", name)
		return nil
	}

	headers := make([]string, 0, headerCells.Length())
	headerCells.Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, headerText(th))
	})

	var rows [][]string
	bodyRows.Each(func(_ int, tr *goquery.Selection) {
		if tr.HasClass(summaryRowClass) {
			return
		}
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		values := make([]string, 0, cells.Length())
		cells.Each(func(_ int, td *goquery.Selection) {
			values = append(values, trimmedText(td))
		})
		if IsRestRow(values) {
			return
		}
		rows = append(rows, values)
	})

	if len(rows) == 0 {
		e.logger.Debug("table has no qualifying rows", "table", name)
		return nil
	}

	return &IntervalTable{Name: name, Headers: headers, Rows: rows}
}

// IsRestRow reports whether a table row describes a rest interval.
// The logbook prefixes rest values with "r" (e.g. "r1:00.0").
func IsRestRow(cells []string) bool {
	for _, c := range cells {
		if strings.HasPrefix(c, restRowPrefix) {
			return true
		}
	}
	return false
}

// headerText returns a header cell's label, mapping the icon-only heart
// rate column to "HR".
func headerText(th *goquery.Selection) string {
	text := trimmedText(th)
	if text == "" && th.Find(selHeartIcon).Length() > 0 {
		return heartRateHeader
	}
	return text
}

// firstText returns the trimmed text of the first match of selector.
func firstText(s *goquery.Selection, selector string) (string, bool) {
	match := s.Find(selector).First()
	if match.Length() == 0 {
		return "", false
	}
	return trimmedText(match), true
}

func trimmedText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
