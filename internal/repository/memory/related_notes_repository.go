package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// RelatedNotesRepository caches best-effort relatedness results per note id.
type RelatedNotesRepository struct {
	cache *cache.Cache
}

func NewRelatedNotesRepository() *RelatedNotesRepository {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &RelatedNotesRepository{
		cache: c,
	}
}

func (r *RelatedNotesRepository) Save(noteID string, relatedIDs []string) {
	ids := make([]string, len(relatedIDs))
	copy(ids, relatedIDs)
	r.cache.Set(noteID, ids, cache.DefaultExpiration)
}

func (r *RelatedNotesRepository) Get(noteID string) ([]string, bool) {
	if x, found := r.cache.Get(noteID); found {
		ids := x.([]string)
		out := make([]string, len(ids))
		copy(out, ids)
		return out, true
	}
	return nil, false
}

// Flush drops every cached result; any mutation can change relatedness.
func (r *RelatedNotesRepository) Flush() {
	r.cache.Flush()
}
