package memory

import (
	"context"
	"testing"

	"live-quiz-service/internal/domain"
)

func TestGameStoreSetResultsAndUnion(t *testing.T) {
	ctx := context.Background()
	store := NewGameStore()

	if err := store.Create(ctx, domain.GameRecord{ID: "g1", Active: true, HostID: "host"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Duplicate create is a no-op.
	if err := store.Create(ctx, domain.GameRecord{ID: "g1", Title: "other"}); err != nil {
		t.Fatalf("create again: %v", err)
	}

	if err := store.AddParticipants(ctx, "g1", []string{"a", "b"}); err != nil {
		t.Fatalf("add participants: %v", err)
	}
	if err := store.AddParticipants(ctx, "g1", []string{"b", "c"}); err != nil {
		t.Fatalf("add participants again: %v", err)
	}

	if err := store.SetResults(ctx, "g1", []domain.LeaderboardEntry{{UserID: "a", Points: 2}}); err != nil {
		t.Fatalf("set results: %v", err)
	}

	record, err := store.Find(ctx, "g1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if record.Title != "" || record.HostID != "host" {
		t.Fatalf("duplicate create must not overwrite, got %+v", record)
	}
	if len(record.Participants) != 3 {
		t.Fatalf("expected deduplicated union of 3, got %v", record.Participants)
	}
	if record.Active {
		t.Fatalf("SetResults must mark the game ended")
	}
	if len(record.Results) != 1 || record.Results[0].UserID != "a" {
		t.Fatalf("unexpected results %+v", record.Results)
	}

	if err := store.AddParticipants(ctx, "missing", []string{"x"}); err != domain.ErrGameNotFound {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestTournamentStoreUnion(t *testing.T) {
	ctx := context.Background()
	store := NewTournamentStore()

	if err := store.Create(ctx, domain.TournamentRecord{ID: "t1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.AddParticipants(ctx, "t1", []string{"a"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.AddParticipants(ctx, "t1", []string{"a", "b"}); err != nil {
		t.Fatalf("add again: %v", err)
	}

	record, err := store.Find(ctx, "t1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(record.Participants) != 2 {
		t.Fatalf("expected union of 2, got %v", record.Participants)
	}
}

func TestResultArchiveAppend(t *testing.T) {
	ctx := context.Background()
	archive := NewResultArchive()

	for _, user := range []string{"a", "b"} {
		err := archive.Append(ctx, domain.ResultRecord{
			UserID: user,
			GameID: "g1",
			Results: []domain.AnswerRecord{
				{QuestionID: "q1", Answer: "Paris"},
			},
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	records := archive.ByGame("g1")
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].UserID != "a" || records[1].UserID != "b" {
		t.Fatalf("expected append order, got %+v", records)
	}
}
