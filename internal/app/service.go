package app

import (
	"context"
	"log"

	"live-quiz-service/internal/domain"
)

// QuizCatalog loads quiz content (from cache/backing store). Read-only.
type QuizCatalog interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// RoomTracker marks room liveness in a shared store (Redis in production).
// All calls are best-effort.
type RoomTracker interface {
	MarkActive(ctx context.Context, gameID string)
	Clear(ctx context.Context, gameID string)
}

// GameService contains the game session use cases. Every operation resolves
// the target session through the registry; operations referencing an unknown
// game id report domain.ErrSessionNotFound and mutate nothing.
type GameService struct {
	registry  *Registry
	quizzes   QuizCatalog
	tracker   RoomTracker
	finalizer *Finalizer
}

func NewGameService(registry *Registry, quizzes QuizCatalog, tracker RoomTracker, finalizer *Finalizer) *GameService {
	return &GameService{
		registry:  registry,
		quizzes:   quizzes,
		tracker:   tracker,
		finalizer: finalizer,
	}
}

// JoinInput carries a join_room request. Hosts name the quiz they drive the
// game with, either by catalog id or inline.
type JoinInput struct {
	GameID      string
	UserID      string
	DisplayName string
	IsHost      bool
	QuizID      string
	Quiz        *domain.Quiz
}

// Join registers the participant in the room, creating the session on first
// use. A host joining an existing session replaces the quiz snapshot only.
// Returns the redacted room state for the welcome reply.
func (s *GameService) Join(ctx context.Context, in JoinInput) (SessionState, error) {
	var quiz domain.Quiz
	if in.IsHost {
		switch {
		case in.Quiz != nil:
			quiz = *in.Quiz
		case in.QuizID != "":
			loaded, err := s.quizzes.GetQuiz(ctx, in.QuizID)
			if err != nil {
				return SessionState{}, err
			}
			quiz = loaded
		}
	}

	_, existed := s.registry.Get(in.GameID)
	session := s.registry.GetOrCreate(in.GameID)
	if in.IsHost && len(quiz.Questions) > 0 {
		session.replaceQuiz(quiz)
	}
	session.join(in.UserID, in.DisplayName, in.IsHost)

	if !existed {
		s.tracker.MarkActive(ctx, in.GameID)
	}
	return session.snapshot(), nil
}

// Leave clears the participant's presence; roster, points, and answer history
// persist. Returns the updated online count.
func (s *GameService) Leave(_ context.Context, gameID, userID string) (int, error) {
	session, ok := s.registry.Get(gameID)
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	session.leave(userID)
	return session.onlineCount(), nil
}

// Start begins the quiz and returns the first question, redacted.
// Starting an already-running game is ignored with a logged warning.
func (s *GameService) Start(_ context.Context, gameID string) (domain.RedactedQuestion, int, error) {
	session, ok := s.registry.Get(gameID)
	if !ok {
		return domain.RedactedQuestion{}, 0, domain.ErrSessionNotFound
	}
	question, idx, err := session.start()
	if err == domain.ErrAlreadyStarted {
		log.Printf("game %s: start ignored, already started", gameID)
	}
	return question, idx, err
}

// NextQuestion advances the question pointer and returns the new question,
// redacted. Advancing past the last question is reported, not fatal.
func (s *GameService) NextQuestion(_ context.Context, gameID string) (domain.RedactedQuestion, int, error) {
	session, ok := s.registry.Get(gameID)
	if !ok {
		return domain.RedactedQuestion{}, 0, domain.ErrSessionNotFound
	}
	question, idx, err := session.advanceQuestion()
	if err == domain.ErrNoMoreQuestions {
		log.Printf("game %s: advance past last question ignored", gameID)
	}
	return question, idx, err
}

// SubmitAnswer records an answer against the current question. The first
// submission per participant per question wins; duplicates report
// accepted=false with no error.
func (s *GameService) SubmitAnswer(_ context.Context, gameID, userID, answer string) (bool, error) {
	session, ok := s.registry.Get(gameID)
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	return session.submitAnswer(userID, answer)
}

// Leaderboard computes the current host-excluded standing without ending the
// game.
func (s *GameService) Leaderboard(_ context.Context, gameID string) (domain.Leaderboard, error) {
	session, ok := s.registry.Get(gameID)
	if !ok {
		return domain.Leaderboard{}, domain.ErrSessionNotFound
	}
	return session.leaderboard(), nil
}

// Finalize ends the game: the leaderboard and answer logs are snapshotted,
// the session is removed from the registry exactly once, and durable writes
// run best-effort outside the session lock. A second call for the same game
// id reports ErrSessionNotFound.
func (s *GameService) Finalize(ctx context.Context, gameID string) (domain.Leaderboard, error) {
	session, ok := s.registry.Get(gameID)
	if !ok {
		return domain.Leaderboard{}, domain.ErrSessionNotFound
	}

	lb := session.leaderboard()
	logs := session.answerLogs()
	participants := session.participantIDs()

	if !s.registry.Remove(gameID) {
		// Lost the race to a concurrent finalize; that caller persists.
		return domain.Leaderboard{}, domain.ErrSessionNotFound
	}
	s.tracker.Clear(ctx, gameID)

	s.finalizer.Persist(ctx, gameID, lb, participants, logs)
	return lb, nil
}
