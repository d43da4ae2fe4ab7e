package mapper

import (
	"ai-notecapture-be/internal/dto"
	"ai-notecapture-be/internal/entity"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToResponse(n *entity.Note) *dto.NoteResponse {
	if n == nil {
		return nil
	}
	return &dto.NoteResponse{
		Id:              n.Id,
		OriginalText:    n.OriginalText,
		NoteType:        string(n.NoteType),
		Title:           n.Title,
		Content:         n.Content,
		Summary:         n.Summary,
		Tags:            nonNil(n.Tags),
		Category:        string(n.Category),
		EventDate:       n.EventDate,
		EventTime:       n.EventTime,
		EventEndTime:    n.EventEndTime,
		Location:        n.Location,
		Attendees:       nonNil(n.Attendees),
		DueDate:         n.DueDate,
		Priority:        string(n.Priority),
		ReminderDate:    n.ReminderDate,
		ReminderTime:    n.ReminderTime,
		IsRecurring:     n.IsRecurring,
		Recurrence:      string(n.Recurrence),
		ActionItems:     nonNil(n.ActionItems),
		CalendarEventId: n.CalendarEventId,
		CreatedAt:       n.CreatedAt,
		UpdatedAt:       n.UpdatedAt,
	}
}

func (m *NoteMapper) ToResponses(notes []*entity.Note) []*dto.NoteResponse {
	out := make([]*dto.NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, m.ToResponse(n))
	}
	return out
}

func (m *NoteMapper) ToDiscoverResponses(items []*entity.DiscoverItem) []*dto.DiscoverItemResponse {
	out := make([]*dto.DiscoverItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, &dto.DiscoverItemResponse{
			Id:          it.Id,
			Type:        string(it.Type),
			Title:       it.Title,
			Description: it.Description,
			NoteIds:     nonNil(it.NoteIds),
		})
	}
	return out
}

func (m *NoteMapper) ToCalendarEventResponses(events []*entity.CalendarEvent) []*dto.CalendarEventResponse {
	out := make([]*dto.CalendarEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, &dto.CalendarEventResponse{
			Id:       e.Id,
			Summary:  e.Summary,
			Start:    e.Start,
			End:      e.End,
			AllDay:   e.AllDay,
			Location: e.Location,
			HtmlLink: e.HtmlLink,
		})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
