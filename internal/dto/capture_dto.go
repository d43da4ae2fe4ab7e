package dto

type CaptureTextRequest struct {
	Text string `json:"text" validate:"required,max=20000"`
}

type CaptureResponse struct {
	Note           *NoteResponse `json:"note"`
	CalendarSynced bool          `json:"calendar_synced"`
}

type TranscriptionResponse struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
}

// RelatednessMessage is the payload of the relatedness worker topic.
type RelatednessMessage struct {
	NoteId string `json:"note_id"`
}
