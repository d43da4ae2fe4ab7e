package dto

import (
	"time"
)

type NoteResponse struct {
	Id              string    `json:"id"`
	OriginalText    string    `json:"original_text"`
	NoteType        string    `json:"note_type"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Summary         string    `json:"summary,omitempty"`
	Tags            []string  `json:"tags"`
	Category        string    `json:"category"`
	EventDate       string    `json:"event_date,omitempty"`
	EventTime       string    `json:"event_time,omitempty"`
	EventEndTime    string    `json:"event_end_time,omitempty"`
	Location        string    `json:"location,omitempty"`
	Attendees       []string  `json:"attendees"`
	DueDate         string    `json:"due_date,omitempty"`
	Priority        string    `json:"priority,omitempty"`
	ReminderDate    string    `json:"reminder_date,omitempty"`
	ReminderTime    string    `json:"reminder_time,omitempty"`
	IsRecurring     bool      `json:"is_recurring"`
	Recurrence      string    `json:"recurrence,omitempty"`
	ActionItems     []string  `json:"action_items"`
	CalendarEventId string    `json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UpdateNoteRequest is a partial edit; nil fields are left untouched.
type UpdateNoteRequest struct {
	Title        *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Content      *string   `json:"content"`
	Summary      *string   `json:"summary"`
	Tags         *[]string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=40"`
	Category     *string   `json:"category" validate:"omitempty,oneof=meeting event task reminder idea learning personal work other"`
	EventDate    *string   `json:"event_date" validate:"omitempty,datetime=2006-01-02"`
	EventTime    *string   `json:"event_time" validate:"omitempty,datetime=15:04"`
	EventEndTime *string   `json:"event_end_time" validate:"omitempty,datetime=15:04"`
	Location     *string   `json:"location"`
	Attendees    *[]string `json:"attendees"`
	DueDate      *string   `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Priority     *string   `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	ReminderDate *string   `json:"reminder_date" validate:"omitempty,datetime=2006-01-02"`
	ReminderTime *string   `json:"reminder_time" validate:"omitempty,datetime=15:04"`
	IsRecurring  *bool     `json:"is_recurring"`
	Recurrence   *string   `json:"recurrence" validate:"omitempty,oneof=daily weekly monthly"`
	ActionItems  *[]string `json:"action_items"`
}

type RelatedNotesResponse struct {
	NoteId string          `json:"note_id"`
	Notes  []*NoteResponse `json:"notes"`
}
