package domain

import "time"

// Question is a single quiz question. CorrectAnswer never leaves the server
// toward participants; outbound payloads use RedactedQuestion.
type Question struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"question"`
	Answers       []string `json:"answers"`
	CorrectAnswer string   `json:"correct_answer"`
}

// Quiz is the ordered question list a host drives a game with.
type Quiz struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Questions  []Question `json:"questions"`
	Difficulty string     `json:"difficulty,omitempty"`
	Category   string     `json:"category,omitempty"`
	Type       string     `json:"type,omitempty"`
}

// RedactedQuestion is the client-facing view of a question.
type RedactedQuestion struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"question"`
	Answers []string `json:"answers"`
}

// Redact strips the correct answer from a question.
func (q Question) Redact() RedactedQuestion {
	return RedactedQuestion{ID: q.ID, Prompt: q.Prompt, Answers: q.Answers}
}

// AnswerRecord is one entry of a participant's per-game answer log.
type AnswerRecord struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// RoomUser is a durable roster entry. Points and the answer log survive
// disconnects; only presence is volatile.
type RoomUser struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Points  int            `json:"points"`
	Answers []AnswerRecord `json:"answers,omitempty"`
}

// LeaderboardEntry is a snapshot-friendly view of a scored participant.
type LeaderboardEntry struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Points      int    `json:"points"`
}

// Leaderboard is the host-excluded, points-descending final standing.
type Leaderboard struct {
	GameID  string             `json:"gameId"`
	Entries []LeaderboardEntry `json:"entries"`
}

// GameRecord is the durable record of a hosted game.
type GameRecord struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	HostID       string             `json:"host"`
	Active       bool               `json:"active"`
	QuizID       string             `json:"quiz"`
	TournamentID string             `json:"tournament,omitempty"`
	Participants []string           `json:"participants"`
	Results      []LeaderboardEntry `json:"results,omitempty"`
	Difficulty   string             `json:"difficulty,omitempty"`
	Category     string             `json:"category,omitempty"`
	Type         string             `json:"type,omitempty"`
	CreatedAt    time.Time          `json:"createdAt,omitempty"`
	UpdatedAt    time.Time          `json:"updatedAt,omitempty"`
}

// ResultRecord archives one participant's full answer log for a finished game.
type ResultRecord struct {
	UserID  string         `json:"user"`
	GameID  string         `json:"game"`
	Results []AnswerRecord `json:"results"`
}

// TournamentRecord links games and the union of their participants.
type TournamentRecord struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	HostID       string   `json:"host"`
	Participants []string `json:"participants"`
	Games        []string `json:"games"`
}
