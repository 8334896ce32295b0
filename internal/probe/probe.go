// Package probe polls the backend health endpoint in the background so that
// /healthz can report whether the backend is reachable.
package probe

import (
	"context"
	"log"
	"sync"
	"time"
)

// Checker is the health call the probe repeats. *backend.Client satisfies
// it.
type Checker interface {
	Health(ctx context.Context) error
}

// Status is the outcome of the last check.
type Status struct {
	Up        bool      `json:"up"`
	CheckedAt time.Time `json:"checked_at"`
	Error     string    `json:"error,omitempty"`
}

// Service checks the backend on a fixed interval.
type Service struct {
	checker  Checker
	interval time.Duration

	mu   sync.RWMutex
	last Status
}

// NewService creates a probe. interval <= 0 defaults to 30 seconds.
func NewService(c Checker, interval time.Duration) *Service {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Service{checker: c, interval: interval}
}

// Run checks once right away and then every interval until ctx is done.
func (s *Service) Run(ctx context.Context) {
	log.Println("Starting backend probe...")
	s.CheckOnce(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Backend probe shutting down.")
			return
		case <-timer.C:
			s.CheckOnce(ctx)
			timer.Reset(s.interval)
		}
	}
}

// CheckOnce performs a single check and records the result.
func (s *Service) CheckOnce(ctx context.Context) Status {
	checkCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	st := Status{Up: true, CheckedAt: time.Now().UTC()}
	if err := s.checker.Health(checkCtx); err != nil {
		st.Up = false
		st.Error = err.Error()
	}

	s.mu.Lock()
	prev := s.last
	s.last = st
	s.mu.Unlock()

	if prev.CheckedAt.IsZero() || prev.Up != st.Up {
		if st.Up {
			log.Println("Backend is reachable.")
		} else {
			log.Printf("Backend is unreachable: %s", st.Error)
		}
	}
	return st
}

// Last returns the most recent status. CheckedAt is zero before the first
// check.
func (s *Service) Last() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}
