package page

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeDOM models the page: output lags input writes by a configurable
// number of reads, optionally passes through a "still computing" ellipsis
// phase, and can report the output element as missing.
type fakeDOM struct {
	translations  map[string]string
	lag           int // reads the output needs to catch up after a write
	ellipsisReads int // reads spent showing the in-progress indicator
	absent        int // upcoming reads that report the element missing

	input       string
	output      string
	dirty       bool
	caughtUp    int
	computing   int
	writes      []string
	activations int
}

func (f *fakeDOM) SetInput(_ context.Context, text string) error {
	f.input = text
	f.writes = append(f.writes, text)
	f.dirty = true
	f.caughtUp = 0
	f.computing = 0
	return nil
}

func (f *fakeDOM) Activate(context.Context) error {
	f.activations++
	return nil
}

func (f *fakeDOM) ReadOutput(context.Context) (string, bool, error) {
	if f.absent > 0 {
		f.absent--
		return "", false, nil
	}
	if f.dirty {
		if f.caughtUp < f.lag {
			f.caughtUp++
			return f.output, true, nil
		}
		if f.computing < f.ellipsisReads {
			f.computing++
			return f.render() + "...", true, nil
		}
		f.output = f.render()
		f.dirty = false
	}
	return f.output, true, nil
}

// render echoes unknown input (the page shows untranslatable tokens as-is),
// which is exactly what the reset protocol relies on.
func (f *fakeDOM) render() string {
	if f.input == "" {
		return ""
	}
	if translated, ok := f.translations[f.input]; ok {
		return translated
	}
	return "[" + f.input + "]"
}

func instantSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func newTestDriver(dom DOM) *Driver {
	return NewDriver(dom, Options{
		Interval: 200 * time.Millisecond,
		Timeout:  time.Minute,
		Sleep:    instantSleep,
	})
}

func TestTranslateChunk(t *testing.T) {
	dom := &fakeDOM{
		translations:  map[string]string{"Hello.": "Hallo."},
		lag:           2,
		ellipsisReads: 2,
	}
	d := newTestDriver(dom)

	got, err := d.TranslateChunk(context.Background(), "Hello.")
	if err != nil {
		t.Fatalf("TranslateChunk() returned error: %v", err)
	}
	if got != "Hallo." {
		t.Errorf("TranslateChunk() = %q, want %q", got, "Hallo.")
	}
	if d.State() != StateDone {
		t.Errorf("State() = %v, want %v", d.State(), StateDone)
	}
}

func TestTranslateChunk_WriteProtocol(t *testing.T) {
	dom := &fakeDOM{
		translations: map[string]string{"Hello.": "Hallo."},
		lag:          1,
	}
	d := newTestDriver(dom)

	if _, err := d.TranslateChunk(context.Background(), "Hello."); err != nil {
		t.Fatalf("TranslateChunk() returned error: %v", err)
	}

	// Reset token write, clearing write, then the chunk itself.
	if len(dom.writes) != 3 {
		t.Fatalf("input written %d times %q, want 3", len(dom.writes), dom.writes)
	}
	if dom.writes[0] == "" || dom.writes[0] == "Hello." {
		t.Errorf("first write = %q, want a random reset token", dom.writes[0])
	}
	if dom.writes[1] != "" {
		t.Errorf("second write = %q, want the clearing write", dom.writes[1])
	}
	if dom.writes[2] != "Hello." {
		t.Errorf("third write = %q, want the chunk text", dom.writes[2])
	}

	// Each field write is framed by an activation signal on both sides.
	if dom.activations != 2*len(dom.writes) {
		t.Errorf("activations = %d, want %d", dom.activations, 2*len(dom.writes))
	}
}

func TestTranslateChunk_ResetTokenNeverLeaks(t *testing.T) {
	dom := &fakeDOM{
		translations: map[string]string{"Hi.": "Cześć."},
		lag:          3,
	}
	d := newTestDriver(dom)

	got, err := d.TranslateChunk(context.Background(), "Hi.")
	if err != nil {
		t.Fatalf("TranslateChunk() returned error: %v", err)
	}

	token := dom.writes[0]
	if strings.Contains(got, token) {
		t.Errorf("translation %q contains the reset token", got)
	}
}

func TestTranslateChunk_TransientlyMissingOutput(t *testing.T) {
	dom := &fakeDOM{
		translations: map[string]string{"Hello.": "Hallo."},
		lag:          1,
		absent:       3,
	}
	d := newTestDriver(dom)

	got, err := d.TranslateChunk(context.Background(), "Hello.")
	if err != nil {
		t.Fatalf("TranslateChunk() returned error: %v", err)
	}
	if got != "Hallo." {
		t.Errorf("TranslateChunk() = %q, want %q", got, "Hallo.")
	}
}

func TestTranslateChunk_StabilizationTimeout(t *testing.T) {
	// The output element never comes back.
	dom := &fakeDOM{absent: 1 << 30}
	d := NewDriver(dom, Options{
		Interval: 200 * time.Millisecond,
		Timeout:  time.Second,
		Sleep:    instantSleep,
	})

	_, err := d.TranslateChunk(context.Background(), "Hello.")
	if !errors.Is(err, ErrStabilizationTimeout) {
		t.Fatalf("TranslateChunk() error = %v, want ErrStabilizationTimeout", err)
	}
}

func TestTranslateChunk_ContextCancelled(t *testing.T) {
	dom := &fakeDOM{absent: 1 << 30}
	d := newTestDriver(dom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.TranslateChunk(ctx, "Hello.")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("TranslateChunk() error = %v, want context.Canceled", err)
	}
}

func TestStateString(t *testing.T) {
	states := map[State]string{
		StateIdle:                      "idle",
		StateResettingInput:            "resetting-input",
		StateAwaitingResetConfirmation: "awaiting-reset-confirmation",
		StateInputtingText:             "inputting-text",
		StateAwaitingTranslation:       "awaiting-translation",
		StateDone:                      "done",
	}
	for state, want := range states {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
