package entity

import (
	"strings"
	"time"
)

type NoteType string

const (
	NoteTypeText  NoteType = "text"
	NoteTypeVoice NoteType = "voice"
)

type Category string

const (
	CategoryMeeting  Category = "meeting"
	CategoryEvent    Category = "event"
	CategoryTask     Category = "task"
	CategoryReminder Category = "reminder"
	CategoryIdea     Category = "idea"
	CategoryLearning Category = "learning"
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryOther    Category = "other"
)

var categories = map[Category]struct{}{
	CategoryMeeting: {}, CategoryEvent: {}, CategoryTask: {}, CategoryReminder: {}, CategoryIdea: {},
	CategoryLearning: {}, CategoryPersonal: {}, CategoryWork: {}, CategoryOther: {},
}

// ParseCategory maps free text onto the canonical enumeration, falling back to other.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categories[c]; ok {
		return c
	}
	return CategoryOther
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ParsePriority returns "" for anything outside the enumeration.
func ParsePriority(s string) Priority {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p
	}
	return ""
}

type Recurrence string

const (
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

func ParseRecurrence(s string) Recurrence {
	switch r := Recurrence(strings.ToLower(strings.TrimSpace(s))); r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return r
	}
	return ""
}

type Note struct {
	Id           string   `json:"id"`
	OriginalText string   `json:"originalText"`
	NoteType     NoteType `json:"noteType"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Summary      string   `json:"summary,omitempty"`
	Tags         []string `json:"tags"`
	Category     Category `json:"category"`

	// Meeting / event
	EventDate    string   `json:"eventDate,omitempty"`
	EventTime    string   `json:"eventTime,omitempty"`
	EventEndTime string   `json:"eventEndTime,omitempty"`
	Location     string   `json:"location,omitempty"`
	Attendees    []string `json:"attendees,omitempty"`

	// Task
	DueDate  string   `json:"dueDate,omitempty"`
	Priority Priority `json:"priority,omitempty"`

	// Reminder
	ReminderDate string     `json:"reminderDate,omitempty"`
	ReminderTime string     `json:"reminderTime,omitempty"`
	IsRecurring  bool       `json:"isRecurring,omitempty"`
	Recurrence   Recurrence `json:"recurrence,omitempty"`

	ActionItems     []string  `json:"actionItems"`
	CalendarEventId string    `json:"calendarEventId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IsCalendarCandidate reports whether the note qualifies for automatic calendar sync.
func (n *Note) IsCalendarCandidate() bool {
	return (n.Category == CategoryMeeting || n.Category == CategoryEvent) && n.EventDate != ""
}

// Clone returns a deep copy so callers never share slices with the store.
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	c := *n
	c.Tags = cloneStrings(n.Tags)
	c.Attendees = cloneStrings(n.Attendees)
	c.ActionItems = cloneStrings(n.ActionItems)
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
