package memory

import (
	"context"
	"sync"
	"time"

	"live-quiz-service/internal/domain"
)

// GameStore is an in-memory implementation of app.GameRecordStore.
type GameStore struct {
	mu    sync.RWMutex
	games map[string]*domain.GameRecord
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[string]*domain.GameRecord),
	}
}

func (s *GameStore) Create(_ context.Context, record domain.GameRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[record.ID]; ok {
		return nil
	}
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now
	s.games[record.ID] = &record
	return nil
}

func (s *GameStore) Find(_ context.Context, gameID string) (domain.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.games[gameID]
	if !ok {
		return domain.GameRecord{}, domain.ErrGameNotFound
	}
	return *record, nil
}

// SetResults attaches the leaderboard and marks the game ended. Missing
// records are created so a demo setup without the authoring API still works.
func (s *GameStore) SetResults(_ context.Context, gameID string, results []domain.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.games[gameID]
	if !ok {
		record = &domain.GameRecord{ID: gameID, CreatedAt: time.Now()}
		s.games[gameID] = record
	}
	record.Results = append([]domain.LeaderboardEntry(nil), results...)
	record.Active = false
	record.UpdatedAt = time.Now()
	return nil
}

// AddParticipants unions the ids into the record's participant set.
func (s *GameStore) AddParticipants(_ context.Context, gameID string, participantIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.games[gameID]
	if !ok {
		return domain.ErrGameNotFound
	}
	record.Participants = unionIDs(record.Participants, participantIDs)
	record.UpdatedAt = time.Now()
	return nil
}

func unionIDs(existing, added []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		seen[id] = struct{}{}
	}
	for _, id := range added {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		existing = append(existing, id)
	}
	return existing
}
