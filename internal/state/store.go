package state

import (
	"sync"
	"time"
)

// Outcome is what a single relay cycle observed.
type Outcome struct {
	Cycle       uint64
	OCRStatus   string // empty when the fetch failed
	RelayStatus string // empty when the relay was skipped or failed
	Err         error
	Elapsed     time.Duration
}

// Snapshot represents the latest cycle as seen by the status endpoint.
type Snapshot struct {
	Cycle               uint64        `json:"cycle"`
	OCRStatus           string        `json:"ocr_status,omitempty"`
	RelayStatus         string        `json:"relay_status,omitempty"`
	LastError           string        `json:"last_error,omitempty"`
	LastElapsed         time.Duration `json:"last_elapsed_ns"`
	LastUpdated         time.Time     `json:"last_updated"`
	ConsecutiveFailures int           `json:"consecutive_failures"` // Number of consecutive failed cycles
	Offline             bool          `json:"offline"`
}

// IsOffline returns true when cycles have failed repeatedly.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates updates from the loop with reads from the status server.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Record replaces the stored snapshot with the outcome of a cycle. A failed
// cycle keeps the last known statuses but records the error.
func (s *Store) Record(o Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Cycle = o.Cycle
	s.snapshot.LastElapsed = o.Elapsed
	s.snapshot.LastUpdated = time.Now()

	if o.Err != nil {
		s.snapshot.LastError = o.Err.Error()
		s.snapshot.ConsecutiveFailures++
		if o.OCRStatus != "" {
			s.snapshot.OCRStatus = o.OCRStatus
		}
		return
	}

	s.snapshot.OCRStatus = o.OCRStatus
	s.snapshot.RelayStatus = o.RelayStatus
	s.snapshot.LastError = ""
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Offline = snap.IsOffline()
	return snap
}
