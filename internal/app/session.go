package app

import (
	"sort"
	"sync"
	"time"

	"live-quiz-service/internal/domain"
)

// Session is the in-memory state machine for one game room. All mutators
// take the session mutex, so operations for a given game id never interleave;
// sessions for different game ids are fully independent.
type Session struct {
	id        string
	createdAt time.Time

	mu                sync.Mutex
	quiz              domain.Quiz
	questionIdx       int
	currentQuestionID string
	expectedAnswer    string
	started           bool
	hostID            string

	roster      map[string]*domain.RoomUser
	rosterOrder []string
	online      map[string]struct{}
	answered    map[string]struct{}
}

func newSession(id string) *Session {
	return &Session{
		id:        id,
		createdAt: time.Now(),
		roster:    make(map[string]*domain.RoomUser),
		online:    make(map[string]struct{}),
		answered:  make(map[string]struct{}),
	}
}

// join inserts the participant into the roster if new and marks them online.
// An existing roster entry keeps its points and answer log across rejoins.
func (s *Session) join(userID, displayName string, isHost bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roster[userID]; !ok {
		s.roster[userID] = &domain.RoomUser{
			ID:   userID,
			Name: displayName,
		}
		s.rosterOrder = append(s.rosterOrder, userID)
	}
	if isHost {
		s.hostID = userID
	}
	s.online[userID] = struct{}{}
}

// leave clears presence only; the roster entry persists.
func (s *Session) leave(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.online, userID)
}

// replaceQuiz swaps the quiz snapshot for a reconnecting host. The question
// pointer, roster, and scores are untouched.
func (s *Session) replaceQuiz(quiz domain.Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quiz = quiz
}

// start moves the session out of the lobby and loads the first question.
func (s *Session) start() (domain.RedactedQuestion, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return domain.RedactedQuestion{}, 0, domain.ErrAlreadyStarted
	}
	if len(s.quiz.Questions) == 0 {
		return domain.RedactedQuestion{}, 0, domain.ErrNoMoreQuestions
	}

	s.started = true
	s.questionIdx = 0
	s.loadQuestionLocked()
	return s.quiz.Questions[0].Redact(), 0, nil
}

// advanceQuestion bumps the question pointer by exactly one and resets the
// answered set. The host drives this; advancing past the last question is
// reported, never a panic.
func (s *Session) advanceQuestion() (domain.RedactedQuestion, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return domain.RedactedQuestion{}, 0, domain.ErrGameNotStarted
	}
	if s.questionIdx+1 >= len(s.quiz.Questions) {
		return domain.RedactedQuestion{}, s.questionIdx, domain.ErrNoMoreQuestions
	}

	s.questionIdx++
	s.loadQuestionLocked()
	return s.quiz.Questions[s.questionIdx].Redact(), s.questionIdx, nil
}

func (s *Session) loadQuestionLocked() {
	q := s.quiz.Questions[s.questionIdx]
	s.currentQuestionID = q.ID
	s.expectedAnswer = q.CorrectAnswer
	s.answered = make(map[string]struct{})
}

// submitAnswer records a participant's answer against the current question.
// The first submission per question wins; duplicates and submissions from
// unknown participants are dropped without touching any state.
func (s *Session) submitAnswer(userID, answer string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return false, domain.ErrGameNotStarted
	}
	user, ok := s.roster[userID]
	if !ok {
		return false, domain.ErrParticipantNotFound
	}
	if _, dup := s.answered[userID]; dup {
		return false, nil
	}

	s.answered[userID] = struct{}{}
	user.Answers = append(user.Answers, domain.AnswerRecord{
		QuestionID: s.currentQuestionID,
		Answer:     answer,
	})
	if answer == s.expectedAnswer {
		user.Points++
	}
	return true, nil
}

// leaderboard returns every roster entry except the host, sorted by points
// descending. The sort is stable over roster insertion order; no secondary
// tie-break key is applied.
func (s *Session) leaderboard() domain.Leaderboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leaderboardLocked()
}

func (s *Session) leaderboardLocked() domain.Leaderboard {
	entries := make([]domain.LeaderboardEntry, 0, len(s.rosterOrder))
	for _, id := range s.rosterOrder {
		if id == s.hostID {
			continue
		}
		user := s.roster[id]
		entries = append(entries, domain.LeaderboardEntry{
			UserID:      user.ID,
			DisplayName: user.Name,
			Points:      user.Points,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	return domain.Leaderboard{GameID: s.id, Entries: entries}
}

// answerLogs copies out every non-host participant's answer history for
// archival, keyed by participant id.
func (s *Session) answerLogs() map[string][]domain.AnswerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := make(map[string][]domain.AnswerRecord, len(s.roster))
	for id, user := range s.roster {
		if id == s.hostID {
			continue
		}
		records := make([]domain.AnswerRecord, len(user.Answers))
		copy(records, user.Answers)
		logs[id] = records
	}
	return logs
}

// participantIDs returns roster ids except the host, in insertion order.
func (s *Session) participantIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.rosterOrder))
	for _, id := range s.rosterOrder {
		if id == s.hostID {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// SessionState is the redacted room snapshot sent back to a joining client.
// The expected answer never appears here.
type SessionState struct {
	GameID          string                   `json:"gameId"`
	Started         bool                     `json:"started"`
	QuestionIndex   int                      `json:"questionIdx"`
	CurrentQuestion *domain.RedactedQuestion `json:"currentQuestion,omitempty"`
	OnlineCount     int                      `json:"onlineCount"`
	Users           []domain.RoomUser        `json:"users"`
}

// snapshot builds the redacted room state plus the current online count.
func (s *Session) snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := SessionState{
		GameID:        s.id,
		Started:       s.started,
		QuestionIndex: s.questionIdx,
		OnlineCount:   len(s.online),
		Users:         make([]domain.RoomUser, 0, len(s.rosterOrder)),
	}
	if s.started && s.questionIdx < len(s.quiz.Questions) {
		q := s.quiz.Questions[s.questionIdx].Redact()
		state.CurrentQuestion = &q
	}
	for _, id := range s.rosterOrder {
		user := s.roster[id]
		state.Users = append(state.Users, domain.RoomUser{
			ID:     user.ID,
			Name:   user.Name,
			Points: user.Points,
		})
	}
	return state
}

func (s *Session) onlineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.online)
}
