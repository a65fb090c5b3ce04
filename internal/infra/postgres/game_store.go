package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"live-quiz-service/internal/domain"
)

// GameStore persists game records in Postgres. Participants are a text[]
// column so adding ids is a single set-union statement, not a list append.
type GameStore struct {
	pool *pgxpool.Pool
}

func NewGameStore(pool *pgxpool.Pool) *GameStore {
	return &GameStore{pool: pool}
}

func (s *GameStore) Create(ctx context.Context, record domain.GameRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO games (id, title, host_id, quiz_id, tournament_id, active, participants)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		record.ID, record.Title, record.HostID, record.QuizID, record.TournamentID, record.Active, record.Participants,
	)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	return nil
}

func (s *GameStore) Find(ctx context.Context, gameID string) (domain.GameRecord, error) {
	record := domain.GameRecord{ID: gameID}
	var resultsRaw []byte
	err := s.pool.QueryRow(ctx, `
		SELECT title, host_id, quiz_id, COALESCE(tournament_id, ''), active, participants, results, created_at, updated_at
		FROM games WHERE id=$1`, gameID,
	).Scan(&record.Title, &record.HostID, &record.QuizID, &record.TournamentID, &record.Active,
		&record.Participants, &resultsRaw, &record.CreatedAt, &record.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.GameRecord{}, domain.ErrGameNotFound
	}
	if err != nil {
		return domain.GameRecord{}, fmt.Errorf("find game: %w", err)
	}
	if len(resultsRaw) > 0 {
		if err := json.Unmarshal(resultsRaw, &record.Results); err != nil {
			return domain.GameRecord{}, fmt.Errorf("unmarshal results: %w", err)
		}
	}
	return record, nil
}

// SetResults attaches the final leaderboard and marks the game ended.
func (s *GameStore) SetResults(ctx context.Context, gameID string, results []domain.LeaderboardEntry) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE games SET results=$2::jsonb, active=false, updated_at=now() WHERE id=$1`,
		gameID, data,
	)
	if err != nil {
		return fmt.Errorf("set results: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

// AddParticipants unions the ids into the record's participant set.
func (s *GameStore) AddParticipants(ctx context.Context, gameID string, participantIDs []string) error {
	if len(participantIDs) == 0 {
		return nil
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE games
		SET participants = (
			SELECT COALESCE(array_agg(DISTINCT p), '{}') FROM unnest(participants || $2::text[]) AS p
		), updated_at = now()
		WHERE id=$1`,
		gameID, participantIDs,
	)
	if err != nil {
		return fmt.Errorf("add game participants: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}
