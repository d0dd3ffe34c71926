package monitor

import (
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sozercan/screenai/apimodels"
	"github.com/sozercan/screenai/internal/journal"
)

// Status is a concurrency-safe view of loop progress.
type Status struct {
	mu       sync.RWMutex
	started  time.Time
	state    State
	counters apimodels.Counters
	last     *apimodels.Exchange
}

func NewStatus() *Status {
	return &Status{started: time.Now(), state: StateWaiting}
}

func (s *Status) Snapshot() apimodels.StatusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := apimodels.StatusResponse{
		StartedAt: s.started.Format(time.RFC3339),
		Uptime:    strings.TrimSpace(humanize.RelTime(s.started, time.Now(), "", "")),
		State:     s.state.String(),
		Counters:  s.counters,
	}
	if s.last != nil {
		last := *s.last
		resp.LastExchange = &last
	}
	return resp
}

func (s *Status) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	if state == StateCapturing {
		s.counters.Iterations++
	}
}

func (s *Status) update(fn func(c *apimodels.Counters)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.counters)
}

func (s *Status) recorded(captureID string, entry journal.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters.EntriesWritten++
	s.last = &apimodels.Exchange{
		CaptureID: captureID,
		Timestamp: entry.Time.Format(journal.TimestampFormat),
		Text:      entry.Text,
		Response:  entry.Response,
	}
}
