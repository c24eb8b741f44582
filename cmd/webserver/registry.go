package main

import (
	"context"
	"sync"
	"time"

	"triviaiq"
)

// gameEntry is one browser's quiz session plus the bookkeeping the HTTP
// layer needs around it
type gameEntry struct {
	mu         sync.Mutex
	session    *triviaiq.GameSession
	selection  triviaiq.Selection
	player     string
	lastTick   time.Time
	scoreSaved bool
	// generation identifies the start request whose questions may Begin
	// the session. Empty when no generation is pending.
	generation string

	// lastSeen is guarded by the registry lock
	lastSeen time.Time
}

// catchUp converts wall-clock time since the last tick into tick messages
func (e *gameEntry) catchUp(now time.Time) []triviaiq.Msg {
	if e.session.State() != triviaiq.StatePlaying {
		return nil
	}
	n := int(now.Sub(e.lastTick) / time.Second)
	if n <= 0 {
		return nil
	}
	e.lastTick = e.lastTick.Add(time.Duration(n) * time.Second)
	ticks := make([]triviaiq.Msg, n)
	for i := range ticks {
		ticks[i] = triviaiq.TickMsg{}
	}
	return ticks
}

// reset discards the session and the HTTP bookkeeping, orphaning any
// generation still in flight
func (e *gameEntry) reset() {
	e.session.Reset()
	e.selection = triviaiq.Selection{}
	e.player = ""
	e.lastTick = time.Time{}
	e.scoreSaved = false
	e.generation = ""
}

// gameRegistry holds the in-memory quiz sessions keyed by game ID
type gameRegistry struct {
	mu    sync.RWMutex
	games map[string]*gameEntry
}

func newGameRegistry() *gameRegistry {
	return &gameRegistry{
		games: make(map[string]*gameEntry),
	}
}

// Get returns the entry for id, creating one in setup if needed, and marks
// it seen at now
func (gr *gameRegistry) Get(id string, now time.Time) *gameEntry {
	gr.mu.Lock()
	defer gr.mu.Unlock()
	entry, ok := gr.games[id]
	if !ok {
		entry = &gameEntry{session: triviaiq.NewGameSession()}
		gr.games[id] = entry
	}
	entry.lastSeen = now
	return entry
}

// Sweep drops entries not seen within idle of now and returns how many
// were removed
func (gr *gameRegistry) Sweep(now time.Time, idle time.Duration) int {
	gr.mu.Lock()
	defer gr.mu.Unlock()
	removed := 0
	for id, entry := range gr.games {
		if now.Sub(entry.lastSeen) > idle {
			delete(gr.games, id)
			removed++
		}
	}
	return removed
}

// runSweeper sweeps idle entries every interval until ctx is done
func (gr *gameRegistry) runSweeper(ctx context.Context, interval, idle time.Duration, now func() time.Time) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := gr.Sweep(now(), idle); n > 0 {
				triviaiq.VerboseLog("Swept %d idle games, %d tracked", n, gr.Size())
			}
		}
	}
}

// Size returns the number of tracked sessions
func (gr *gameRegistry) Size() int {
	gr.mu.RLock()
	defer gr.mu.RUnlock()
	return len(gr.games)
}
