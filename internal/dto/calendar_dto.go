package dto

type CalendarConnectRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token"`
}

type CalendarStatusResponse struct {
	Enabled   bool `json:"enabled"`
	Connected bool `json:"connected"`
}

type CalendarEventResponse struct {
	Id       string `json:"id"`
	Summary  string `json:"summary"`
	Start    string `json:"start"`
	End      string `json:"end"`
	AllDay   bool   `json:"all_day"`
	Location string `json:"location,omitempty"`
	HtmlLink string `json:"html_link,omitempty"`
}

type CalendarSyncResponse struct {
	NoteId  string `json:"note_id"`
	EventId string `json:"event_id"`
}
