package entity

type DiscoverType string

const (
	DiscoverResurfacing DiscoverType = "resurfacing"
	DiscoverThread      DiscoverType = "thread"
	DiscoverExplore     DiscoverType = "explore"
)

// DiscoverItem is derived from the note collection and never persisted.
type DiscoverItem struct {
	Id          string       `json:"id"`
	Type        DiscoverType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	NoteIds     []string     `json:"noteIds"`
}
