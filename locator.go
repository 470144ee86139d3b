package c2md

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultHost is the Concept2 online logbook host.
const DefaultHost = "log.concept2.com"

// workoutIDPattern matches a workout identifier: decimal digits only.
var workoutIDPattern = regexp.MustCompile(`^\d+$`)

// WorkoutID returns the trailing path segment of pageURL when it is a
// workout identifier (decimal digits only).
// Query string and fragment are ignored. Any other address, including one
// ending in a slash, returns ErrNotWorkoutPage.
func WorkoutID(pageURL string) (string, error) {
	if pageURL == "" {
		return "", ErrMissingInput
	}

	path := pageURL
	if u, err := url.Parse(pageURL); err == nil {
		path = u.Path
	}

	segments := strings.Split(path, "/")
	id := segments[len(segments)-1]
	if !workoutIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %s", ErrNotWorkoutPage, pageURL)
	}
	return id, nil
}

// IsWorkoutPage reports whether pageURL addresses a single workout.
func IsWorkoutPage(pageURL string) bool {
	_, err := WorkoutID(pageURL)
	return err == nil
}

// ImageURL returns the address of the monitor image for a workout.
func ImageURL(host, workoutID string) string {
	if host == "" {
		host = DefaultHost
	}
	return "https://" + host + "/images/monitor/" + workoutID + "/medium"
}

// validateHost rejects hosts that would produce a malformed image address.
func validateHost(host string) error {
	if host == "" || strings.ContainsAny(host, "/?#@ \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidHost, host)
	}
	return nil
}
