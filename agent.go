package main

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/Niedzwiedzw/tlumok/config"
	"github.com/Niedzwiedzw/tlumok/platform"
	"github.com/Niedzwiedzw/tlumok/storage"
	"github.com/Niedzwiedzw/tlumok/translate"
	"github.com/Niedzwiedzw/tlumok/web"
)

// Agent owns the clipboard poll loop. On each tick it reads the clipboard;
// new text suspends the timer for the duration of a full translation pass,
// and the loop is re-armed afterwards regardless of how the pass ended.
type Agent struct {
	cfg        *config.Config
	clipboard  platform.Clipboard
	translator translate.Translator
	db         *storage.DB
	interval   time.Duration

	setWatch    chan bool
	watching    atomic.Bool
	translating atomic.Bool

	// lastSeen is the last value this agent wrote to the clipboard, so the
	// next tick does not translate the agent's own output. Only the loop
	// goroutine touches it.
	lastSeen string
}

// NewAgent creates a new agent instance. db may be nil when history and
// dictionary are disabled.
func NewAgent(cfg *config.Config, clip platform.Clipboard, translator translate.Translator, db *storage.DB) *Agent {
	interval := time.Duration(cfg.Watch.PollIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}

	return &Agent{
		cfg:        cfg,
		clipboard:  clip,
		translator: translator,
		db:         db,
		interval:   interval,
		setWatch:   make(chan bool, 4),
	}
}

// SetWatching requests the poll loop to start or stop. The request is
// applied by the loop goroutine; during a long pass it takes effect once
// the pass completes.
func (a *Agent) SetWatching(on bool) {
	select {
	case a.setWatch <- on:
	default:
		slog.Warn("Watch toggle dropped, agent busy")
	}
}

// Watching reports whether the poll loop is currently active
func (a *Agent) Watching() bool {
	return a.watching.Load()
}

// Status reports the loop state for the dashboard
func (a *Agent) Status() web.AgentStatus {
	return web.AgentStatus{
		Watching:    a.watching.Load(),
		Translating: a.translating.Load(),
	}
}

// Run starts the agent's main event loop
func (a *Agent) Run(ctx context.Context) error {
	var timer *time.Timer
	var tick <-chan time.Time

	// Any pending timer is fully stopped before a new one is armed, so two
	// poll chains can never run concurrently.
	arm := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.NewTimer(a.interval)
		tick = timer.C
	}
	disarm := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
		}
		tick = nil
	}

	for {
		select {
		case <-ctx.Done():
			disarm()
			return nil

		case on := <-a.setWatch:
			if on == a.watching.Load() {
				continue
			}
			a.watching.Store(on)
			if on {
				slog.Info("Clipboard watch started", "interval", a.interval)
				arm()
			} else {
				slog.Info("Clipboard watch stopped")
				disarm()
			}

		case <-tick:
			// Polling stays suspended for the whole pass; only one pass can
			// ever be in flight.
			disarm()
			a.tick(ctx)
			if a.watching.Load() {
				arm()
			}
		}
	}
}

// tick inspects the clipboard once and runs a translation pass when it
// holds new text
func (a *Agent) tick(ctx context.Context) {
	text, err := a.clipboard.Get()
	if err != nil {
		// Clipboard access fails transiently when another application holds
		// it; skip this tick without touching any state.
		slog.Debug("Clipboard read failed, skipping tick", "error", err)
		return
	}

	if text == "" || text == a.lastSeen {
		return
	}

	a.translatePass(ctx, text)
}

// translatePass translates text and writes the result back to the clipboard
func (a *Agent) translatePass(ctx context.Context, text string) {
	start := time.Now()
	a.translating.Store(true)
	defer a.translating.Store(false)

	chars := utf8.RuneCountInString(text)
	slog.Info("New clipboard text, translating", "chars", chars, "translator", a.translator.Name())

	pass := &storage.Pass{
		SourceLanguage: a.cfg.Languages.Source,
		TargetLanguage: a.cfg.Languages.Target,
		SourceText:     text,
		CharacterCount: chars,
	}

	result, err := a.translator.Translate(ctx, text)
	pass.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		// The failed text still becomes lastSeen so a bad input is not
		// retried on every subsequent tick.
		a.lastSeen = text
		slog.Error("Translation pass failed", "error", err)
		pass.ErrorMessage = err.Error()
		a.record(pass)
		return
	}

	a.lastSeen = result.Text
	if err := a.clipboard.Set(result.Text); err != nil {
		slog.Warn("Failed to write translation to clipboard", "error", err)
	}

	pass.TranslatedText = result.Text
	pass.ChunkCount = result.Chunks
	pass.FromDictionary = result.FromDictionary
	pass.Success = true
	a.record(pass)

	slog.Info("Translation copied to clipboard",
		"chars", utf8.RuneCountInString(result.Text),
		"chunks", result.Chunks,
		"from_dictionary", result.FromDictionary,
		"duration", time.Since(start).Round(time.Millisecond))
}

func (a *Agent) record(p *storage.Pass) {
	if a.db == nil || !a.cfg.History.Enabled {
		return
	}
	if err := a.db.SavePass(p); err != nil {
		slog.Warn("Failed to save pass to history", "error", err)
	}
}
