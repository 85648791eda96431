package market

import (
	"sync"

	"cardmarket/internal/domain"
)

// stubSource replays a scripted value stream, for tests that need to
// force a particular roll.
type stubSource struct {
	vals []float64
	i    int
	ints []int
	j    int
}

func (s *stubSource) Float64() float64 {
	if len(s.vals) == 0 {
		return 0.5
	}
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func (s *stubSource) Uniform(min, max float64) float64 {
	return min + (max-min)*s.Float64()
}

func (s *stubSource) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.j%len(s.ints)] % n
	s.j++
	return v
}

// recorderNotifier captures notifications for assertions.
type recorderNotifier struct {
	mu       sync.Mutex
	updates  int
	messages []string
	levels   []domain.NotificationLevel
}

func (r *recorderNotifier) MarketUpdated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
}

func (r *recorderNotifier) Notify(message string, level domain.NotificationLevel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	r.levels = append(r.levels, level)
}

func (r *recorderNotifier) messageCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}
