// Package event defines the broadcast vocabulary shared by the server-side
// hub and the client-side reconciler.
package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// Name tags an event with entity and action, e.g. "job:created".
type Name string

// Server-to-client events, emitted after each committed mutation.
const (
	JobCreated    Name = "job:created"
	JobUpdated    Name = "job:updated"
	JobDeleted    Name = "job:deleted"
	TaskCreated   Name = "task:created"
	TaskUpdated   Name = "task:updated"
	TaskDeleted   Name = "task:deleted"
	PhotoUploaded Name = "photo:uploaded"
	NoteAdded     Name = "note:added"
	NoteDeleted   Name = "note:deleted"
)

// Client-to-server informational events and the names they are re-broadcast
// under. Payloads pass through verbatim.
const (
	TaskStatus        Name = "task:status"
	TaskStatusUpdated Name = "task:status:updated"
	TeamUpdate        Name = "team:update"
	TeamUpdated       Name = "team:updated"
)

// Event is one broadcast message. Data holds the fully materialized entity
// for creates and updates, or a Deleted payload for deletes.
type Event struct {
	Name      Name            `json:"name"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Deleted is the payload of every *:deleted event.
type Deleted struct {
	ID int64 `json:"id"`
}

// New builds an event with the payload marshaled into Data.
func New(name Name, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", name, err)
	}
	return Event{Name: name, Timestamp: time.Now(), Data: data}, nil
}

// Rebroadcast maps a client-sent event name to the name it is re-emitted
// under, or ("", false) for names that are not pass-throughs.
func Rebroadcast(name Name) (Name, bool) {
	switch name {
	case TaskStatus:
		return TaskStatusUpdated, true
	case TeamUpdate:
		return TeamUpdated, true
	}
	return "", false
}
