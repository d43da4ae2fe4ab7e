// Package discovery derives the ephemeral discover feed from the note collection.
package discovery

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"ai-notecapture-be/internal/entity"
	"ai-notecapture-be/pkg/markup"
)

const (
	MaxItems = 3

	resurfaceMinNotes = 6
	resurfaceSkip     = 3
	maxThreads        = 2
	excerptRunes      = 60
)

// Rand is the subset of *rand.Rand the engine needs.
type Rand interface {
	Intn(n int) int
}

type Option func(*Engine)

// WithRand pins the random source used to pick the resurfaced note.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rnd = r }
}

type Engine struct {
	mu  sync.Mutex
	rnd Rand
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute returns at most MaxItems items: one resurfaced note, then up to two
// tag threads, then one unexplored tag. The result is never nil.
func (e *Engine) Compute(notes []*entity.Note) []*entity.DiscoverItem {
	items := make([]*entity.DiscoverItem, 0, MaxItems)

	if item := e.resurface(notes); item != nil {
		items = append(items, item)
	}

	order, byTag := indexTags(notes)
	threads := 0
	for _, tag := range order {
		if threads == maxThreads {
			break
		}
		ids := byTag[tag]
		if len(ids) < 2 {
			continue
		}
		items = append(items, &entity.DiscoverItem{
			Id:          "thread-" + tag,
			Type:        entity.DiscoverThread,
			Title:       fmt.Sprintf("%d notes about %s", len(ids), tag),
			Description: fmt.Sprintf("You keep coming back to %q. Here is everything you captured on it.", tag),
			NoteIds:     ids,
		})
		threads++
	}

	for _, tag := range order {
		if len(byTag[tag]) != 1 {
			continue
		}
		items = append(items, &entity.DiscoverItem{
			Id:          "explore-" + tag,
			Type:        entity.DiscoverExplore,
			Title:       "Explore " + tag,
			Description: fmt.Sprintf("You have only one note about %q. Capture more to grow it into a thread.", tag),
			NoteIds:     []string{},
		})
		break
	}

	if len(items) > MaxItems {
		items = items[:MaxItems]
	}
	return items
}

func (e *Engine) resurface(notes []*entity.Note) *entity.DiscoverItem {
	if len(notes) < resurfaceMinNotes {
		return nil
	}

	e.mu.Lock()
	idx := resurfaceSkip + e.rnd.Intn(len(notes)-resurfaceSkip)
	e.mu.Unlock()

	n := notes[idx]
	return &entity.DiscoverItem{
		Id:          "resurface-" + n.Id,
		Type:        entity.DiscoverResurfacing,
		Title:       "Remember this? " + n.Title,
		Description: "\"" + markup.Excerpt(plainText(n), excerptRunes) + "\"",
		NoteIds:     []string{n.Id},
	}
}

func plainText(n *entity.Note) string {
	if text := markup.PlainText(n.Content); text != "" {
		return text
	}
	if n.Summary != "" {
		return n.Summary
	}
	return n.OriginalText
}

// indexTags maps each tag to the ids of the notes carrying it, in first-seen
// order. A tag repeated inside one note counts once for that note.
func indexTags(notes []*entity.Note) ([]string, map[string][]string) {
	order := make([]string, 0)
	byTag := make(map[string][]string)
	for _, n := range notes {
		seen := make(map[string]struct{}, len(n.Tags))
		for _, tag := range n.Tags {
			if tag == "" {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			if _, ok := byTag[tag]; !ok {
				order = append(order, tag)
			}
			byTag[tag] = append(byTag[tag], n.Id)
		}
	}
	return order, byTag
}
