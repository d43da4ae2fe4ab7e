package events

import "time"

// Note lifecycle events published on the bus as events.<TYPE>.
const (
	NoteCaptured = "NOTE_CAPTURED"
	NoteUpdated  = "NOTE_UPDATED"
	NoteDeleted  = "NOTE_DELETED"
	NoteSynced   = "NOTE_CALENDAR_SYNCED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "NOTE_CAPTURED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewNoteEvent builds the payload shared by all note lifecycle events.
func NewNoteEvent(eventType, noteID, title string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"note_id":     noteID,
			"title":       title,
			"occurred_at": at.Format(time.RFC3339),
		},
		OccurredAt: at,
	}
}
