package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"meeting", CategoryMeeting},
		{" Event ", CategoryEvent},
		{"REMINDER", CategoryReminder},
		{"shopping", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategory(tt.in))
		})
	}
}

func TestParsePriorityAndRecurrence(t *testing.T) {
	assert.Equal(t, PriorityUrgent, ParsePriority("Urgent"))
	assert.Equal(t, Priority(""), ParsePriority("asap"))
	assert.Equal(t, RecurrenceWeekly, ParseRecurrence("weekly"))
	assert.Equal(t, Recurrence(""), ParseRecurrence("yearly"))
}

func TestCloneIsDeep(t *testing.T) {
	n := &Note{Id: "a", Tags: []string{"x"}, Attendees: []string{"John"}, ActionItems: []string{"do"}}
	c := n.Clone()
	c.Tags[0] = "changed"
	c.Attendees[0] = "Jane"

	assert.Equal(t, "x", n.Tags[0])
	assert.Equal(t, "John", n.Attendees[0])
	assert.Nil(t, (*Note)(nil).Clone())
}

func TestIsCalendarCandidate(t *testing.T) {
	assert.True(t, (&Note{Category: CategoryMeeting, EventDate: "2026-10-17"}).IsCalendarCandidate())
	assert.True(t, (&Note{Category: CategoryEvent, EventDate: "2026-10-17"}).IsCalendarCandidate())
	assert.False(t, (&Note{Category: CategoryMeeting}).IsCalendarCandidate())
	assert.False(t, (&Note{Category: CategoryTask, EventDate: "2026-10-17"}).IsCalendarCandidate())
}
