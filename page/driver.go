// Package page drives the translation page's input and output elements
// through the reset/input/stabilize protocol. The page reacts to input
// changes with a debounce and updates its output element asynchronously,
// so every step is confirmed by polling the output rather than assumed.
package page

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DOM is the surface the driver needs from the live page. Implementations
// report a missing output element via present=false; that is an expected
// transient state during page re-renders, not an error.
type DOM interface {
	// SetInput replaces the input field's content. Empty text clears it.
	SetInput(ctx context.Context, text string) error

	// Activate fires the simulated interaction the page's framework needs
	// to notice an input change.
	Activate(ctx context.Context) error

	// ReadOutput returns the output element's current text. present is
	// false when the element is not in the DOM right now.
	ReadOutput(ctx context.Context) (text string, present bool, err error)
}

// State identifies where the driver is in the per-chunk protocol.
type State int

const (
	StateIdle State = iota
	StateResettingInput
	StateAwaitingResetConfirmation
	StateInputtingText
	StateAwaitingTranslation
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResettingInput:
		return "resetting-input"
	case StateAwaitingResetConfirmation:
		return "awaiting-reset-confirmation"
	case StateInputtingText:
		return "inputting-text"
	case StateAwaitingTranslation:
		return "awaiting-translation"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// ErrStabilizationTimeout is returned when the page's output does not reach
// the awaited state within the configured timeout.
var ErrStabilizationTimeout = errors.New("page output did not stabilize in time")

const (
	DefaultInterval = 200 * time.Millisecond
	DefaultTimeout  = 2 * time.Minute
)

// Options configures a Driver. Zero values fall back to defaults; Sleep is
// only overridden by tests that substitute a fake clock.
type Options struct {
	// Interval is the poll interval for every wait on the output element.
	Interval time.Duration

	// Timeout bounds each individual wait. Zero means DefaultTimeout.
	Timeout time.Duration

	// Sleep waits for d or until ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Driver runs the translation protocol for one chunk at a time against a
// DOM. It is not safe for concurrent use; the caller submits chunks
// strictly sequentially.
type Driver struct {
	dom      DOM
	interval time.Duration
	timeout  time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	state    State
}

func NewDriver(dom DOM, opts Options) *Driver {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	return &Driver{
		dom:      dom,
		interval: opts.Interval,
		timeout:  opts.Timeout,
		sleep:    opts.Sleep,
	}
}

// State returns the driver's position in the protocol, for status reporting.
func (d *Driver) State() State { return d.state }

// TranslateChunk pushes one chunk through the page and returns the
// stabilized translation: reset the input with token confirmation, write
// the chunk, then wait for fresh output.
func (d *Driver) TranslateChunk(ctx context.Context, text string) (string, error) {
	d.state = StateIdle
	if err := d.resetInput(ctx); err != nil {
		return "", fmt.Errorf("resetting input: %w", err)
	}

	d.state = StateInputtingText
	if err := d.writeInput(ctx, text); err != nil {
		return "", fmt.Errorf("writing source text: %w", err)
	}

	out, err := d.awaitTranslation(ctx)
	if err != nil {
		return "", err
	}
	d.state = StateDone
	return out, nil
}

// resetInput clears the input field in two confirmed phases. A random token
// is written first and its echo awaited in the output, proving the page
// registered the write; only then is the field cleared, and the token's
// disappearance confirms the clear. Writing the chunk immediately after a
// bare clear can race with stale output because the page debounces field
// writes.
func (d *Driver) resetInput(ctx context.Context) error {
	token := uuid.NewString()

	d.state = StateResettingInput
	if err := d.writeInput(ctx, token); err != nil {
		return fmt.Errorf("writing reset token: %w", err)
	}

	d.state = StateAwaitingResetConfirmation
	err := d.waitForOutput(ctx, "reset token to echo", func(text string) bool {
		return strings.Contains(text, token)
	})
	if err != nil {
		return err
	}

	if err := d.writeInput(ctx, ""); err != nil {
		return fmt.Errorf("clearing input: %w", err)
	}
	return d.waitForOutput(ctx, "reset token to clear", func(text string) bool {
		return !strings.Contains(text, token)
	})
}

// writeInput performs the page's required interaction dance: activation
// signal, field write, activation signal again.
func (d *Driver) writeInput(ctx context.Context, text string) error {
	if err := d.dom.Activate(ctx); err != nil {
		return fmt.Errorf("pre-write activation: %w", err)
	}
	if err := d.dom.SetInput(ctx, text); err != nil {
		return err
	}
	if err := d.dom.Activate(ctx); err != nil {
		return fmt.Errorf("post-write activation: %w", err)
	}
	return nil
}

// awaitTranslation captures the current output and waits for it to change
// into a finished value. An output still ending in an ellipsis is the
// page's "still computing" indicator.
func (d *Driver) awaitTranslation(ctx context.Context) (string, error) {
	previous, _, err := d.dom.ReadOutput(ctx)
	if err != nil {
		previous = ""
	}

	d.state = StateAwaitingTranslation
	var result string
	err = d.waitForOutput(ctx, "translation to stabilize", func(text string) bool {
		if text == "" || text == previous || stillComputing(text) {
			return false
		}
		result = text
		return true
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

// waitForOutput polls the output element at the driver interval until cond
// holds for a successful read. A missing element or a failed read counts as
// "no value yet" and keeps the poll going; only the accumulated timeout
// terminates the wait.
func (d *Driver) waitForOutput(ctx context.Context, what string, cond func(text string) bool) error {
	var waited time.Duration
	for {
		text, present, err := d.dom.ReadOutput(ctx)
		switch {
		case err != nil:
			slog.Debug("output element not readable, still polling", "waiting_for", what, "error", err)
		case !present:
			slog.Debug("output element absent, still polling", "waiting_for", what)
		case cond(text):
			return nil
		}

		if waited >= d.timeout {
			return fmt.Errorf("waiting for %s: %w", what, ErrStabilizationTimeout)
		}
		if err := d.sleep(ctx, d.interval); err != nil {
			return err
		}
		waited += d.interval
	}
}

func stillComputing(text string) bool {
	return strings.HasSuffix(text, "...") || strings.HasSuffix(text, "…")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
