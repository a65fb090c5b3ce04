package memory

import (
	"context"
	"sync"

	"live-quiz-service/internal/domain"
)

// TournamentStore is an in-memory implementation of app.TournamentStore.
type TournamentStore struct {
	mu          sync.RWMutex
	tournaments map[string]*domain.TournamentRecord
}

func NewTournamentStore() *TournamentStore {
	return &TournamentStore{
		tournaments: make(map[string]*domain.TournamentRecord),
	}
}

func (s *TournamentStore) Create(_ context.Context, record domain.TournamentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tournaments[record.ID]; ok {
		return nil
	}
	s.tournaments[record.ID] = &record
	return nil
}

func (s *TournamentStore) Find(_ context.Context, tournamentID string) (domain.TournamentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.tournaments[tournamentID]
	if !ok {
		return domain.TournamentRecord{}, domain.ErrTournamentNotFound
	}
	return *record, nil
}

// AddParticipants unions the ids into the tournament's participant set.
func (s *TournamentStore) AddParticipants(_ context.Context, tournamentID string, participantIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.tournaments[tournamentID]
	if !ok {
		return domain.ErrTournamentNotFound
	}
	record.Participants = unionIDs(record.Participants, participantIDs)
	return nil
}
