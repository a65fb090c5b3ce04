package app

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"live-quiz-service/internal/domain"
)

// GameRecordStore persists durable game records.
type GameRecordStore interface {
	Create(ctx context.Context, record domain.GameRecord) error
	Find(ctx context.Context, gameID string) (domain.GameRecord, error)
	// SetResults attaches the final leaderboard and marks the game ended.
	SetResults(ctx context.Context, gameID string, results []domain.LeaderboardEntry) error
	// AddParticipants unions the ids into the record's participant set.
	AddParticipants(ctx context.Context, gameID string, participantIDs []string) error
}

// TournamentStore registers participants into a tournament's set.
type TournamentStore interface {
	AddParticipants(ctx context.Context, tournamentID string, participantIDs []string) error
}

// ResultArchive appends one per-user answer log per finished game.
type ResultArchive interface {
	Append(ctx context.Context, record domain.ResultRecord) error
}

// Finalizer hands a finished game off to the durable collaborators. Every
// write is best-effort: failures are logged and the remaining writes still
// run, matching the at-least-once intent of finalization.
type Finalizer struct {
	games       GameRecordStore
	tournaments TournamentStore
	archive     ResultArchive
}

func NewFinalizer(games GameRecordStore, tournaments TournamentStore, archive ResultArchive) *Finalizer {
	return &Finalizer{
		games:       games,
		tournaments: tournaments,
		archive:     archive,
	}
}

// Persist writes the final leaderboard onto the game record, unions the
// participant ids into the game and (when linked) tournament records, and
// archives each participant's answer log. The session is already gone from
// the registry by the time this runs, so the room cannot finalize twice.
func (f *Finalizer) Persist(ctx context.Context, gameID string, lb domain.Leaderboard, participants []string, logs map[string][]domain.AnswerRecord) {
	if err := f.games.SetResults(ctx, gameID, lb.Entries); err != nil {
		log.Printf("game %s: set results failed: %v", gameID, err)
	}
	if err := f.games.AddParticipants(ctx, gameID, participants); err != nil {
		log.Printf("game %s: add participants failed: %v", gameID, err)
	}

	record, err := f.games.Find(ctx, gameID)
	if err != nil {
		log.Printf("game %s: lookup failed: %v", gameID, err)
	} else if record.TournamentID != "" {
		if err := f.tournaments.AddParticipants(ctx, record.TournamentID, participants); err != nil {
			log.Printf("tournament %s: add participants failed: %v", record.TournamentID, err)
		}
	}

	var g errgroup.Group
	for userID, answers := range logs {
		userID, answers := userID, answers
		g.Go(func() error {
			err := f.archive.Append(ctx, domain.ResultRecord{
				UserID:  userID,
				GameID:  gameID,
				Results: answers,
			})
			if err != nil {
				log.Printf("game %s: archive results for %s failed: %v", gameID, userID, err)
			}
			return nil
		})
	}
	_ = g.Wait()
}
