package c2md

import (
	"context"
	"sync"
	"time"
)

// DefaultConfirmFor is how long the copy button shows its confirmation.
const DefaultConfirmFor = 2000 * time.Millisecond

// Button labels.
const (
	LabelCopy   = "Copy as Markdown"
	LabelCopied = "Copied!"
	LabelImage  = "View Workout Image"
)

// ButtonState is the state of a copy button.
type ButtonState int

const (
	ButtonIdle ButtonState = iota
	ButtonBusy
	ButtonConfirming
)

// String returns a lowercase name for logs.
func (s ButtonState) String() string {
	switch s {
	case ButtonBusy:
		return "busy"
	case ButtonConfirming:
		return "confirming"
	default:
		return "idle"
	}
}

// Label returns the text shown on the button in this state.
func (s ButtonState) Label() string {
	if s == ButtonConfirming {
		return LabelCopied
	}
	return LabelCopy
}

// Disabled reports whether the button ignores clicks in this state.
func (s ButtonState) Disabled() bool {
	return s != ButtonIdle
}

// copier abstracts ClipboardWriter for the button.
type copier interface {
	Copy(ctx context.Context, text string) (CopyResult, error)
}

// Compile-time interface implementation check.
var _ copier = (*ClipboardWriter)(nil)

// timerHandle is the subset of *time.Timer the button needs.
type timerHandle interface {
	Stop() bool
}

// CopyButton owns the Idle -> Busy -> Confirming -> Idle cycle of a copy
// control. It holds a single confirmation timer: a new press stops the
// previous timer instead of racing it.
type CopyButton struct {
	mu         sync.Mutex
	state      ButtonState
	timer      timerHandle
	generation uint64

	copier     copier
	view       func(ButtonState)
	confirmFor time.Duration
	afterFunc  func(time.Duration, func()) timerHandle
}

// NewCopyButton creates a button copying through c and reporting every state
// change to view. confirmFor <= 0 uses DefaultConfirmFor.
func NewCopyButton(c *ClipboardWriter, view func(ButtonState), confirmFor time.Duration) *CopyButton {
	return newCopyButton(c, view, confirmFor)
}

func newCopyButton(c copier, view func(ButtonState), confirmFor time.Duration) *CopyButton {
	if confirmFor <= 0 {
		confirmFor = DefaultConfirmFor
	}
	if view == nil {
		view = func(ButtonState) {}
	}
	return &CopyButton{
		copier:     c,
		view:       view,
		confirmFor: confirmFor,
		afterFunc: func(d time.Duration, f func()) timerHandle {
			return time.AfterFunc(d, f)
		},
	}
}

// State returns the current state.
func (b *CopyButton) State() ButtonState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Press copies text and drives the confirmation cycle.
// Returns ErrCopyInProgress while a previous copy is still running.
// A press during confirmation copies again and restarts the window.
func (b *CopyButton) Press(ctx context.Context, text string) (CopyResult, error) {
	b.mu.Lock()
	if b.state == ButtonBusy {
		b.mu.Unlock()
		return CopyResult{}, ErrCopyInProgress
	}
	b.stopTimerLocked()
	b.state = ButtonBusy
	b.mu.Unlock()
	b.view(ButtonBusy)

	res, err := b.copier.Copy(ctx, text)

	b.mu.Lock()
	if err != nil {
		b.state = ButtonIdle
		b.mu.Unlock()
		b.view(ButtonIdle)
		return res, err
	}

	b.state = ButtonConfirming
	gen := b.generation
	b.timer = b.afterFunc(b.confirmFor, func() { b.restore(gen) })
	b.mu.Unlock()
	b.view(ButtonConfirming)

	return res, nil
}

// Close stops a pending confirmation timer without restoring the view.
func (b *CopyButton) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopTimerLocked()
}

// restore returns to Idle unless a newer press replaced the timer.
func (b *CopyButton) restore(gen uint64) {
	b.mu.Lock()
	if gen != b.generation || b.state != ButtonConfirming {
		b.mu.Unlock()
		return
	}
	b.state = ButtonIdle
	b.timer = nil
	b.mu.Unlock()
	b.view(ButtonIdle)
}

// stopTimerLocked cancels the pending timer and invalidates its callback.
func (b *CopyButton) stopTimerLocked() {
	b.generation++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
