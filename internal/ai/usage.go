package ai

import "sync"

// UsageMeter accumulates token usage across completion calls. Generation
// runs record per-call totals into a shared meter and report the delta for
// the run; safe for concurrent use.
type UsageMeter struct {
	mu    sync.Mutex
	total int
	calls int
}

// NewUsageMeter creates an empty meter.
func NewUsageMeter() *UsageMeter {
	return &UsageMeter{}
}

// Record adds one completion call's token count.
func (m *UsageMeter) Record(tokens int) {
	if tokens < 0 {
		return
	}
	m.mu.Lock()
	m.total += tokens
	m.calls++
	m.mu.Unlock()
}

// Total returns the accumulated token count.
func (m *UsageMeter) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// Calls returns how many completions have been recorded.
func (m *UsageMeter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
