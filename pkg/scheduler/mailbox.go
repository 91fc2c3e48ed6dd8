package scheduler

import "sync"

// mailbox collects completion entries from workers. Only Update drains it.
type mailbox struct {
	mu      sync.Mutex
	entries []CompletionEntry
}

func (m *mailbox) push(e CompletionEntry) {
	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.mu.Unlock()
}

// take removes and returns every entry present at the time of the call.
// Entries pushed afterwards stay for the next call.
func (m *mailbox) take() []CompletionEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == 0 {
		return nil
	}
	out := m.entries
	m.entries = nil
	return out
}

func (m *mailbox) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
