package chat

import (
	"sync"

	"go-restaurant/models"
)

// Transcript keeps the most recent exchanges sent back as conversation
// context. A limit of zero or less keeps everything.
type Transcript struct {
	mu        sync.Mutex
	limit     int
	exchanges []models.Exchange
}

func NewTranscript(limit int) *Transcript {
	return &Transcript{limit: limit}
}

// Append records an exchange, dropping the oldest beyond the limit.
func (t *Transcript) Append(e models.Exchange) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.exchanges = append(t.exchanges, e)
	if t.limit > 0 && len(t.exchanges) > t.limit {
		t.exchanges = append([]models.Exchange(nil), t.exchanges[len(t.exchanges)-t.limit:]...)
	}
}

// Exchanges returns a copy, oldest first. It is never nil so it encodes as [].
func (t *Transcript) Exchanges() []models.Exchange {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Exchange, len(t.exchanges))
	copy(out, t.exchanges)
	return out
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.exchanges)
}

func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.exchanges = nil
}
