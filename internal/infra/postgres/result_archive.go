package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"live-quiz-service/internal/domain"
)

// ResultArchive appends per-user answer logs to the results table.
type ResultArchive struct {
	pool *pgxpool.Pool
}

func NewResultArchive(pool *pgxpool.Pool) *ResultArchive {
	return &ResultArchive{pool: pool}
}

func (a *ResultArchive) Append(ctx context.Context, record domain.ResultRecord) error {
	data, err := json.Marshal(record.Results)
	if err != nil {
		return fmt.Errorf("marshal answer log: %w", err)
	}
	_, err = a.pool.Exec(ctx, `
		INSERT INTO results (user_id, game_id, data) VALUES ($1, $2, $3::jsonb)`,
		record.UserID, record.GameID, data,
	)
	if err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

// ByGame returns the archived records for a game, in append order.
func (a *ResultArchive) ByGame(ctx context.Context, gameID string) ([]domain.ResultRecord, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT user_id, data FROM results WHERE game_id=$1 ORDER BY id`, gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []domain.ResultRecord
	for rows.Next() {
		record := domain.ResultRecord{GameID: gameID}
		var raw []byte
		if err := rows.Scan(&record.UserID, &raw); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal(raw, &record.Results); err != nil {
			return nil, fmt.Errorf("unmarshal answer log: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}
