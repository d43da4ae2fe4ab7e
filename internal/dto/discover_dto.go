package dto

type DiscoverItemResponse struct {
	Id          string   `json:"id"`
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	NoteIds     []string `json:"note_ids"`
}
