package memory

import (
	"context"
	"sync"

	"live-quiz-service/internal/domain"
)

// ResultArchive is an in-memory, append-only implementation of
// app.ResultArchive.
type ResultArchive struct {
	mu      sync.RWMutex
	records []domain.ResultRecord
}

func NewResultArchive() *ResultArchive {
	return &ResultArchive{}
}

func (a *ResultArchive) Append(_ context.Context, record domain.ResultRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, record)
	return nil
}

// ByGame returns the archived records for a game, in append order.
func (a *ResultArchive) ByGame(gameID string) []domain.ResultRecord {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var out []domain.ResultRecord
	for _, record := range a.records {
		if record.GameID == gameID {
			out = append(out, record)
		}
	}
	return out
}
