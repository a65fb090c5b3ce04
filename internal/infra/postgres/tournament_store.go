package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"live-quiz-service/internal/domain"
)

// TournamentStore persists tournament records in Postgres.
type TournamentStore struct {
	pool *pgxpool.Pool
}

func NewTournamentStore(pool *pgxpool.Pool) *TournamentStore {
	return &TournamentStore{pool: pool}
}

func (s *TournamentStore) Create(ctx context.Context, record domain.TournamentRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tournaments (id, title, host_id, participants, games)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`,
		record.ID, record.Title, record.HostID, record.Participants, record.Games,
	)
	if err != nil {
		return fmt.Errorf("create tournament: %w", err)
	}
	return nil
}

func (s *TournamentStore) Find(ctx context.Context, tournamentID string) (domain.TournamentRecord, error) {
	record := domain.TournamentRecord{ID: tournamentID}
	err := s.pool.QueryRow(ctx, `
		SELECT title, host_id, participants, games FROM tournaments WHERE id=$1`, tournamentID,
	).Scan(&record.Title, &record.HostID, &record.Participants, &record.Games)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TournamentRecord{}, domain.ErrTournamentNotFound
	}
	if err != nil {
		return domain.TournamentRecord{}, fmt.Errorf("find tournament: %w", err)
	}
	return record, nil
}

// AddParticipants unions the ids into the tournament's participant set.
func (s *TournamentStore) AddParticipants(ctx context.Context, tournamentID string, participantIDs []string) error {
	if len(participantIDs) == 0 {
		return nil
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE tournaments
		SET participants = (
			SELECT COALESCE(array_agg(DISTINCT p), '{}') FROM unnest(participants || $2::text[]) AS p
		)
		WHERE id=$1`,
		tournamentID, participantIDs,
	)
	if err != nil {
		return fmt.Errorf("add tournament participants: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTournamentNotFound
	}
	return nil
}
