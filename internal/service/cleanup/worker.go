package cleanup

import (
	"context"
	"log"
	"time"
)

// SessionSweeper is implemented by game.SessionManager.
type SessionSweeper interface {
	CleanupOldSessions() int
}

type Worker struct {
	Sessions SessionSweeper
	Interval time.Duration
}

func NewWorker(sessions SessionSweeper, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Worker{Sessions: sessions, Interval: interval}
}

// Start runs one sweep right away and then one per interval until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		w.runCleanup()

		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Println("[CLEANUP] Background worker stopped")
				return
			case <-ticker.C:
				w.runCleanup()
			}
		}
	}()
	log.Printf("[CLEANUP] Background worker started (every %s)", w.Interval)
}

func (w *Worker) runCleanup() {
	removed := w.Sessions.CleanupOldSessions()
	if removed > 0 {
		log.Printf("[CLEANUP] Removed %d stale game sessions", removed)
	}
}
