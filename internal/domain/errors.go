package domain

import "errors"

var (
	// ErrSessionNotFound is returned when no live session exists for a game id.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrParticipantNotFound is returned when a user acts before joining the room.
	ErrParticipantNotFound = errors.New("participant not found in game")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrGameNotStarted indicates a question-phase operation before start.
	ErrGameNotStarted = errors.New("game has not started")
	// ErrAlreadyStarted indicates a second start on a running game.
	ErrAlreadyStarted = errors.New("game already started")
	// ErrNoMoreQuestions indicates an advance past the last question.
	ErrNoMoreQuestions = errors.New("no more questions in quiz")
	// ErrGameNotFound indicates a missing durable game record.
	ErrGameNotFound = errors.New("game record not found")
	// ErrTournamentNotFound indicates a missing durable tournament record.
	ErrTournamentNotFound = errors.New("tournament record not found")
)
