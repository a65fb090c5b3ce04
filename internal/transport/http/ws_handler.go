package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
)

// Inbound event names. These are the wire contract the clients speak.
const (
	evtJoinRoom     = "join_room"
	evtLeaveRoom    = "leave_room"
	evtSubmitAnswer = "SUBMIT_ANSWER"
	evtGameStarted  = "game_started"
	evtNextQuestion = "next_question"
	evtGetResults   = "GET_RESULTS"
	evtRoomCreated  = "ROOM_CREATED"
)

// WSHandler is the event router: it translates inbound client events into
// GameService operations and fans the resulting deltas out through the hub.
type WSHandler struct {
	service  *app.GameService
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, hub *Hub) *WSHandler {
	return &WSHandler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	GameID   string       `json:"gameId"`
	UserID   string       `json:"userId"`
	Username string       `json:"username"`
	IsHost   bool         `json:"isHost"`
	QuizID   string       `json:"quizId,omitempty"`
	Quiz     *domain.Quiz `json:"quiz,omitempty"`
}

type leavePayload struct {
	GameID string `json:"gameId"`
	UserID string `json:"userId"`
}

type answerPayload struct {
	GameID string `json:"gameId"`
	UserID string `json:"userId"`
	Answer string `json:"answer"`
}

type hostActionPayload struct {
	GameID string `json:"gameId"`
	UserID string `json:"userId"`
}

type resultsPayload struct {
	GameID string `json:"gameId"`
}

type roomUsersPayload struct {
	GameID      string            `json:"gameId"`
	OnlineCount int               `json:"onlineCount"`
	Users       []domain.RoomUser `json:"users"`
}

type onlineCountPayload struct {
	GameID      string `json:"gameId"`
	OnlineCount int    `json:"onlineCount"`
}

type questionPayload struct {
	GameID      string                  `json:"gameId"`
	Question    domain.RedactedQuestion `json:"question"`
	QuestionIdx int                     `json:"questionIdx"`
}

type answerAckPayload struct {
	GameID   string `json:"gameId"`
	Accepted bool   `json:"accepted"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

func encode[T any](eventType string, payload T) []byte {
	data, err := json.Marshal(outboundMessage[T]{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("ws encode %s: %v", eventType, err)
		return nil
	}
	return data
}

// ServeWS upgrades the connection and runs the event loop for its lifetime.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	client := newClient()
	h.hub.Register(client)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range client.send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	ctx := r.Context()
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(ctx, client, inbound)
	}

	// Implicit disconnect: clear presence the way an explicit leave would.
	if client.GameID != "" && client.UserID != "" {
		if online, err := h.service.Leave(ctx, client.GameID, client.UserID); err == nil {
			h.hub.BroadcastRoom(client.GameID, encode(evtLeaveRoom, onlineCountPayload{
				GameID:      client.GameID,
				OnlineCount: online,
			}), client)
		}
	}
	log.Printf("ws client %s disconnected", client.ID)

	h.hub.Unregister(client)
	<-writerDone
}

func (h *WSHandler) dispatch(ctx context.Context, client *Client, inbound inboundMessage) {
	switch inbound.Type {
	case evtJoinRoom:
		h.handleJoin(ctx, client, inbound.Payload)
	case evtLeaveRoom:
		h.handleLeave(ctx, client, inbound.Payload)
	case evtSubmitAnswer:
		h.handleAnswer(ctx, client, inbound.Payload)
	case evtGameStarted:
		h.handleStart(ctx, client, inbound.Payload)
	case evtNextQuestion:
		h.handleNext(ctx, client, inbound.Payload)
	case evtGetResults:
		h.handleResults(ctx, client, inbound.Payload)
	case evtRoomCreated:
		// Notify every other connection that the room list changed.
		h.hub.BroadcastAll(encode("rooms_refresh", struct{}{}), client)
	default:
		h.hub.Send(client, encode("error", errorPayload{Message: "unsupported message type"}))
	}
}

func (h *WSHandler) handleJoin(ctx context.Context, client *Client, raw json.RawMessage) {
	var payload joinPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.GameID == "" || payload.UserID == "" {
		h.hub.Send(client, encode("error", errorPayload{Message: "invalid join payload"}))
		return
	}

	state, err := h.service.Join(ctx, app.JoinInput{
		GameID:      payload.GameID,
		UserID:      payload.UserID,
		DisplayName: payload.Username,
		IsHost:      payload.IsHost,
		QuizID:      payload.QuizID,
		Quiz:        payload.Quiz,
	})
	if err != nil {
		h.hub.Send(client, encode("error", errorPayload{Message: err.Error()}))
		return
	}

	client.UserID = payload.UserID
	client.IsHost = payload.IsHost
	h.hub.Subscribe(client, payload.GameID)

	h.hub.Send(client, encode("welcome", state))
	h.hub.BroadcastRoom(payload.GameID, encode("room_users", roomUsersPayload{
		GameID:      payload.GameID,
		OnlineCount: state.OnlineCount,
		Users:       state.Users,
	}), client)
}

func (h *WSHandler) handleLeave(ctx context.Context, client *Client, raw json.RawMessage) {
	var payload leavePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return
	}
	online, err := h.service.Leave(ctx, payload.GameID, payload.UserID)
	if err != nil {
		log.Printf("leave_room for unknown game %s ignored", payload.GameID)
		return
	}
	h.hub.BroadcastRoom(payload.GameID, encode(evtLeaveRoom, onlineCountPayload{
		GameID:      payload.GameID,
		OnlineCount: online,
	}), nil)
	h.hub.Leave(client)
}

func (h *WSHandler) handleAnswer(ctx context.Context, client *Client, raw json.RawMessage) {
	var payload answerPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return
	}
	accepted, err := h.service.SubmitAnswer(ctx, payload.GameID, payload.UserID, payload.Answer)
	if err != nil {
		// Unknown game, unknown participant, or not started: contained no-op.
		log.Printf("answer for game %s from %s dropped: %v", payload.GameID, payload.UserID, err)
		return
	}
	h.hub.Send(client, encode("answer_received", answerAckPayload{
		GameID:   payload.GameID,
		Accepted: accepted,
	}))
}

func (h *WSHandler) handleStart(ctx context.Context, client *Client, raw json.RawMessage) {
	var payload hostActionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return
	}
	question, idx, err := h.service.Start(ctx, payload.GameID)
	if err != nil {
		log.Printf("game_started for game %s ignored: %v", payload.GameID, err)
		return
	}
	h.hub.BroadcastRoom(payload.GameID, encode(evtGameStarted, questionPayload{
		GameID:      payload.GameID,
		Question:    question,
		QuestionIdx: idx,
	}), nil)
}

func (h *WSHandler) handleNext(ctx context.Context, client *Client, raw json.RawMessage) {
	var payload hostActionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return
	}
	question, idx, err := h.service.NextQuestion(ctx, payload.GameID)
	if err != nil {
		log.Printf("next_question for game %s ignored: %v", payload.GameID, err)
		return
	}
	h.hub.BroadcastRoom(payload.GameID, encode(evtNextQuestion, questionPayload{
		GameID:      payload.GameID,
		Question:    question,
		QuestionIdx: idx,
	}), nil)
}

func (h *WSHandler) handleResults(ctx context.Context, client *Client, raw json.RawMessage) {
	var payload resultsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return
	}
	lb, err := h.service.Finalize(ctx, payload.GameID)
	if err != nil {
		log.Printf("GET_RESULTS for game %s ignored: %v", payload.GameID, err)
		return
	}
	h.hub.BroadcastRoom(payload.GameID, encode("game_results", lb), nil)
}
