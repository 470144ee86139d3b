package c2md

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Defaults used when the page lacks a title or date.
const (
	DefaultTitle = "Workout"
	DefaultDate  = "Unknown Date"
)

// Interval table names, in selection priority order.
const (
	TableIntervals = "Intervals"
	TableSplits    = "Splits"
)

// heartRateHeader replaces a table header that only shows a heart icon.
const heartRateHeader = "HR"

// StatMap is an insertion-ordered label to value mapping.
// Setting an existing label overwrites its value and keeps its position.
// The zero value is ready to use.
type StatMap struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewStatMap creates a StatMap from label/value pairs.
// Panics if pairs has an odd length (programmer error).
func NewStatMap(pairs ...string) *StatMap {
	if len(pairs)%2 != 0 {
		panic("c2md: NewStatMap requires label/value pairs")
	}
	s := &StatMap{}
	for i := 0; i < len(pairs); i += 2 {
		s.Set(pairs[i], pairs[i+1])
	}
	return s
}

// Set stores value under label.
func (s *StatMap) Set(label, value string) {
	if s.m == nil {
		s.m = orderedmap.New[string, string]()
	}
	s.m.Set(label, value)
}

// Get returns the value stored under label.
func (s *StatMap) Get(label string) (string, bool) {
	if s == nil || s.m == nil {
		return "", false
	}
	return s.m.Get(label)
}

// Len returns the number of entries.
func (s *StatMap) Len() int {
	if s == nil || s.m == nil {
		return 0
	}
	return s.m.Len()
}

// Each calls fn for every entry in insertion order.
func (s *StatMap) Each(fn func(label, value string)) {
	if s == nil || s.m == nil {
		return
	}
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Labels returns the labels in insertion order.
func (s *StatMap) Labels() []string {
	labels := make([]string, 0, s.Len())
	s.Each(func(label, _ string) {
		labels = append(labels, label)
	})
	return labels
}

// IntervalTable holds the interval or split breakdown of a workout.
type IntervalTable struct {
	Name    string     // TableIntervals or TableSplits
	Headers []string   // column names, in page order
	Rows    [][]string // one cell per header, in page order
}

// WorkoutRecord is a snapshot of one workout page.
// It lives for a single transcription and is never cached.
type WorkoutRecord struct {
	ID        string
	Title     string
	Date      string
	SourceURL string
	ImageURL  string
	Stats     *StatMap       // primary stats ("Workout Summary")
	MoreStats *StatMap       // secondary stats ("Additional Stats")
	Details   *StatMap       // bold-labelled paragraphs ("Workout Details")
	Table     *IntervalTable // nil when the page has no usable table
}

// newWorkoutRecord creates a record with defaults and empty maps.
func newWorkoutRecord(id, sourceURL, host string) *WorkoutRecord {
	return &WorkoutRecord{
		ID:        id,
		Title:     DefaultTitle,
		Date:      DefaultDate,
		SourceURL: sourceURL,
		ImageURL:  ImageURL(host, id),
		Stats:     &StatMap{},
		MoreStats: &StatMap{},
		Details:   &StatMap{},
	}
}
