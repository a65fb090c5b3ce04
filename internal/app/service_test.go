package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
	"live-quiz-service/internal/infra/memory"
)

type testEnv struct {
	service     *app.GameService
	games       *memory.GameStore
	tournaments *memory.TournamentStore
	archive     *memory.ResultArchive
}

func newTestEnv() *testEnv {
	catalog := memory.NewQuizCatalog(memory.NewStaticQuizLoader(map[string]domain.Quiz{
		"quiz-1": {
			ID: "quiz-1",
			Questions: []domain.Question{
				{ID: "q1", Prompt: "Capital of France?", Answers: []string{"Paris", "Lyon"}, CorrectAnswer: "Paris"},
				{ID: "q2", Prompt: "6 x 7?", Answers: []string{"36", "42"}, CorrectAnswer: "42"},
			},
		},
	}), 5*time.Minute)

	games := memory.NewGameStore()
	tournaments := memory.NewTournamentStore()
	archive := memory.NewResultArchive()
	finalizer := app.NewFinalizer(games, tournaments, archive)
	service := app.NewGameService(app.NewRegistry(), catalog, memory.NewRoomTracker(), finalizer)
	return &testEnv{
		service:     service,
		games:       games,
		tournaments: tournaments,
		archive:     archive,
	}
}

func hostJoin(t *testing.T, env *testEnv, gameID string) {
	t.Helper()
	_, err := env.service.Join(context.Background(), app.JoinInput{
		GameID:      gameID,
		UserID:      "host",
		DisplayName: "Host",
		IsHost:      true,
		QuizID:      "quiz-1",
	})
	if err != nil {
		t.Fatalf("host join: %v", err)
	}
}

func playerJoin(t *testing.T, env *testEnv, gameID, userID, name string) {
	t.Helper()
	_, err := env.service.Join(context.Background(), app.JoinInput{
		GameID:      gameID,
		UserID:      userID,
		DisplayName: name,
	})
	if err != nil {
		t.Fatalf("join %s: %v", userID, err)
	}
}

func TestHostedGameScenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	hostJoin(t, env, "game-1")
	playerJoin(t, env, "game-1", "a", "Alice")
	playerJoin(t, env, "game-1", "b", "Bob")

	if _, _, err := env.service.Start(ctx, "game-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := env.service.SubmitAnswer(ctx, "game-1", "a", "Paris"); err != nil {
		t.Fatalf("submit a: %v", err)
	}
	if _, err := env.service.SubmitAnswer(ctx, "game-1", "b", "Lyon"); err != nil {
		t.Fatalf("submit b: %v", err)
	}

	if _, _, err := env.service.NextQuestion(ctx, "game-1"); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, err := env.service.SubmitAnswer(ctx, "game-1", "a", "42"); err != nil {
		t.Fatalf("submit a q2: %v", err)
	}

	lb, err := env.service.Leaderboard(ctx, "game-1")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(lb.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(lb.Entries))
	}
	if lb.Entries[0].UserID != "a" || lb.Entries[0].Points != 2 {
		t.Fatalf("expected Alice with 2 points, got %+v", lb.Entries[0])
	}
	if lb.Entries[1].UserID != "b" || lb.Entries[1].Points != 0 {
		t.Fatalf("expected Bob with 0 points, got %+v", lb.Entries[1])
	}
}

func TestConcurrentSubmissionsScoreExactlyOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	hostJoin(t, env, "game-1")
	const n = 50
	ids := make([]string, n)
	for i := range ids {
		ids[i] = string(rune('A'+i%26)) + string(rune('a'+i/26))
		playerJoin(t, env, "game-1", ids[i], "Player")
	}
	if _, _, err := env.service.Start(ctx, "game-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Every participant fires several concurrent submissions for the same
	// question; exactly one per participant may land.
	var wg sync.WaitGroup
	for _, id := range ids {
		for j := 0; j < 4; j++ {
			wg.Add(1)
			go func(userID string) {
				defer wg.Done()
				_, _ = env.service.SubmitAnswer(ctx, "game-1", userID, "Paris")
			}(id)
		}
	}
	wg.Wait()

	lb, err := env.service.Leaderboard(ctx, "game-1")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(lb.Entries) != n {
		t.Fatalf("expected %d entries, got %d", n, len(lb.Entries))
	}
	for _, e := range lb.Entries {
		if e.Points != 1 {
			t.Fatalf("expected exactly 1 point for %s, got %d", e.UserID, e.Points)
		}
	}
}

func TestFinalizePersistsAndRemovesSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	if err := env.games.Create(ctx, domain.GameRecord{
		ID:           "game-1",
		Title:        "Friday night quiz",
		HostID:       "host",
		QuizID:       "quiz-1",
		Active:       true,
		TournamentID: "t1",
	}); err != nil {
		t.Fatalf("seed game record: %v", err)
	}
	if err := env.tournaments.Create(ctx, domain.TournamentRecord{ID: "t1", Title: "Spring cup"}); err != nil {
		t.Fatalf("seed tournament: %v", err)
	}

	hostJoin(t, env, "game-1")
	playerJoin(t, env, "game-1", "a", "Alice")
	playerJoin(t, env, "game-1", "b", "Bob")
	if _, _, err := env.service.Start(ctx, "game-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	env.service.SubmitAnswer(ctx, "game-1", "a", "Paris")
	env.service.SubmitAnswer(ctx, "game-1", "b", "Lyon")

	lb, err := env.service.Finalize(ctx, "game-1")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if len(lb.Entries) != 2 || lb.Entries[0].UserID != "a" {
		t.Fatalf("unexpected leaderboard %+v", lb.Entries)
	}

	record, err := env.games.Find(ctx, "game-1")
	if err != nil {
		t.Fatalf("find game: %v", err)
	}
	if record.Active {
		t.Fatalf("finalized game must be marked ended")
	}
	if len(record.Results) != 2 {
		t.Fatalf("expected results attached, got %+v", record.Results)
	}
	if len(record.Participants) != 2 {
		t.Fatalf("expected participants unioned, got %v", record.Participants)
	}

	tournament, err := env.tournaments.Find(ctx, "t1")
	if err != nil {
		t.Fatalf("find tournament: %v", err)
	}
	if len(tournament.Participants) != 2 {
		t.Fatalf("expected tournament participants unioned, got %v", tournament.Participants)
	}

	archived := env.archive.ByGame("game-1")
	if len(archived) != 2 {
		t.Fatalf("expected one archived record per participant, got %d", len(archived))
	}
	for _, rec := range archived {
		if len(rec.Results) != 1 {
			t.Fatalf("expected one logged answer for %s, got %+v", rec.UserID, rec.Results)
		}
	}

	// The room is gone; a second finalize is a contained no-op.
	if _, err := env.service.Finalize(ctx, "game-1"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound on double finalize, got %v", err)
	}
	if _, err := env.service.SubmitAnswer(ctx, "game-1", "a", "42"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound after teardown, got %v", err)
	}
}

func TestFinalizeSurvivesMissingGameRecord(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	hostJoin(t, env, "game-9")
	playerJoin(t, env, "game-9", "a", "Alice")
	if _, _, err := env.service.Start(ctx, "game-9"); err != nil {
		t.Fatalf("start: %v", err)
	}
	env.service.SubmitAnswer(ctx, "game-9", "a", "Paris")

	// No durable record was ever created; persistence is best-effort and the
	// session still tears down.
	if _, err := env.service.Finalize(ctx, "game-9"); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if _, err := env.service.Leaderboard(ctx, "game-9"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session removed, got %v", err)
	}
}

func TestHostRejoinReplacesQuizOnly(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	hostJoin(t, env, "game-1")
	playerJoin(t, env, "game-1", "a", "Alice")
	if _, _, err := env.service.Start(ctx, "game-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	env.service.SubmitAnswer(ctx, "game-1", "a", "Paris")

	refreshed := domain.Quiz{
		ID: "quiz-1",
		Questions: []domain.Question{
			{ID: "q1", Prompt: "Capital of France?", Answers: []string{"Paris", "Lyon"}, CorrectAnswer: "Paris"},
			{ID: "q2", Prompt: "6 x 7?", Answers: []string{"36", "42"}, CorrectAnswer: "42"},
			{ID: "q3", Prompt: "Largest ocean?", Answers: []string{"Pacific", "Atlantic"}, CorrectAnswer: "Pacific"},
		},
	}
	state, err := env.service.Join(ctx, app.JoinInput{
		GameID:      "game-1",
		UserID:      "host",
		DisplayName: "Host",
		IsHost:      true,
		Quiz:        &refreshed,
	})
	if err != nil {
		t.Fatalf("host rejoin: %v", err)
	}
	if !state.Started || state.QuestionIndex != 0 {
		t.Fatalf("host rejoin must not reset progress, got %+v", state)
	}

	lb, err := env.service.Leaderboard(ctx, "game-1")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if lb.Entries[0].Points != 1 {
		t.Fatalf("scores must survive a host rejoin, got %+v", lb.Entries)
	}

	// The swapped quiz has a third question reachable from the old pointer.
	if _, _, err := env.service.NextQuestion(ctx, "game-1"); err != nil {
		t.Fatalf("advance to q2: %v", err)
	}
	if q, idx, err := env.service.NextQuestion(ctx, "game-1"); err != nil || idx != 2 || q.ID != "q3" {
		t.Fatalf("expected q3 from refreshed quiz, got q=%v idx=%d err=%v", q, idx, err)
	}
}

func TestOperationsOnUnknownGameAreContained(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	if _, err := env.service.Leave(ctx, "nope", "u1"); err != domain.ErrSessionNotFound {
		t.Fatalf("leave: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := env.service.SubmitAnswer(ctx, "nope", "u1", "x"); err != domain.ErrSessionNotFound {
		t.Fatalf("submit: expected ErrSessionNotFound, got %v", err)
	}
	if _, _, err := env.service.Start(ctx, "nope"); err != domain.ErrSessionNotFound {
		t.Fatalf("start: expected ErrSessionNotFound, got %v", err)
	}
	if _, _, err := env.service.NextQuestion(ctx, "nope"); err != domain.ErrSessionNotFound {
		t.Fatalf("advance: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := env.service.Finalize(ctx, "nope"); err != domain.ErrSessionNotFound {
		t.Fatalf("finalize: expected ErrSessionNotFound, got %v", err)
	}
}

func TestJoinUnknownQuizFails(t *testing.T) {
	env := newTestEnv()
	_, err := env.service.Join(context.Background(), app.JoinInput{
		GameID:      "game-1",
		UserID:      "host",
		DisplayName: "Host",
		IsHost:      true,
		QuizID:      "missing",
	})
	if err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}
