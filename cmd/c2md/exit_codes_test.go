package main

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	c2md "github.com/alnah/go-c2md"
	"github.com/alnah/go-c2md/internal/assets"
	"github.com/alnah/go-c2md/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"unknown error", errors.New("boom"), ExitGeneral},

		{"not a workout", c2md.ErrNotWorkoutPage, ExitNotWorkout},
		{"wrapped not a workout", fmt.Errorf("3 transcription(s) failed: %w", c2md.ErrNotWorkoutPage), ExitNotWorkout},

		{"browser connect", c2md.ErrBrowserConnect, ExitBrowser},
		{"page create", c2md.ErrPageCreate, ExitBrowser},
		{"page load", c2md.ErrPageLoad, ExitBrowser},
		{"injection", c2md.ErrInjection, ExitBrowser},
		{"no actions anchor", c2md.ErrNoActionsAnchor, ExitBrowser},

		{"file not found", fs.ErrNotExist, ExitIO},
		{"permission", fs.ErrPermission, ExitIO},
		{"fetch", fmt.Errorf("%w: status 404", c2md.ErrPageFetch), ExitIO},
		{"empty html", c2md.ErrEmptyHTML, ExitIO},
		{"clipboard", c2md.ErrClipboardUnavailable, ExitIO},
		{"read page", ErrReadPage, ExitIO},
		{"write output", ErrWriteOutput, ExitIO},

		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid field", config.ErrInvalidField, ExitUsage},
		{"invalid host", c2md.ErrInvalidHost, ExitUsage},
		{"missing input", c2md.ErrMissingInput, ExitUsage},
		{"style not found", fmt.Errorf("loading style: %w", assets.ErrStyleNotFound), ExitUsage},
		{"invalid flags", ErrInvalidFlags, ExitUsage},
		{"no input", ErrNoInput, ExitUsage},
		{"missing page url", ErrMissingPageURL, ExitUsage},
		{"copy multiple", ErrCopyMultiple, ExitUsage},
		{"clipboard disabled", ErrClipboardDisabled, ExitUsage},
		{"worker count", ErrInvalidWorkerCount, ExitUsage},
		{"timeout", ErrInvalidTimeout, ExitUsage},
		{"shell", ErrUnsupportedShell, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes_Distinct(t *testing.T) {
	t.Parallel()

	codes := []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO, ExitBrowser, ExitNotWorkout}
	seen := make(map[int]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate exit code %d", c)
		}
		seen[c] = true
		if c >= 126 {
			t.Errorf("exit code %d collides with shell-reserved codes", c)
		}
	}
}
