package memory

import "context"

// RoomTracker is a no-op app.RoomTracker for single-instance deployments;
// the registry alone knows which rooms are live.
type RoomTracker struct{}

func NewRoomTracker() *RoomTracker {
	return &RoomTracker{}
}

func (RoomTracker) MarkActive(context.Context, string) {}

func (RoomTracker) Clear(context.Context, string) {}
