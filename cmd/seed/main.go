package main

import (
	"context"
	"log"
	"time"

	"ai-notecapture-be/internal/bootstrap"
	"ai-notecapture-be/internal/config"
	"ai-notecapture-be/internal/entity"
	"ai-notecapture-be/internal/repository/implementation"

	"github.com/google/uuid"
)

// seed fills an empty store with sample notes so the discover feed has
// enough material to resurface and thread.
func main() {
	cfg := config.Load()
	ctx := context.Background()

	notes := implementation.NewNoteRepository(bootstrap.NewBlobRepository(cfg))
	if err := notes.Load(ctx); err != nil {
		log.Fatalf("Error: Failed to load notes: %v", err)
	}

	count, _ := notes.Count(ctx)
	if count > 0 {
		log.Printf("Skip: store already holds %d notes", count)
		return
	}

	today := time.Now().Format("2006-01-02")
	samples := []*entity.Note{
		{
			Title:    "Quarterly budget review",
			Summary:  "Go through Q3 spend with finance",
			Content:  `<div class="info-card"><div class="info-row"><span class="info-label">When</span><span class="info-value">Friday</span></div></div>`,
			Category: entity.CategoryMeeting,
			Tags:     []string{"work", "finance"},
		},
		{
			Title:    "Call the dentist",
			Summary:  "Book a cleaning appointment",
			Content:  "<p>Book a cleaning appointment</p>",
			Category: entity.CategoryTask,
			Tags:     []string{"health"},
			Priority: entity.PriorityMedium,
			DueDate:  today,
		},
		{
			Title:    "Idea: weekly photo journal",
			Summary:  "One photo a day, short caption",
			Content:  `<p class="highlight">One photo a day, short caption</p>`,
			Category: entity.CategoryIdea,
			Tags:     []string{"personal", "photography"},
		},
		{
			Title:    "Team offsite planning",
			Summary:  "Shortlist venues for the offsite",
			Content:  `<ul class="action-list"><li class="action-item">Shortlist venues</li></ul>`,
			Category: entity.CategoryWork,
			Tags:     []string{"work", "planning"},
		},
		{
			Title:    "Learn Go generics",
			Summary:  "Read the type parameters tutorial",
			Content:  "<p>Read the type parameters tutorial</p>",
			Category: entity.CategoryLearning,
			Tags:     []string{"learning", "go"},
		},
		{
			Title:    "Finance sync with accountant",
			Summary:  "Prepare receipts before the call",
			Content:  "<p>Prepare receipts before the call</p>",
			Category: entity.CategoryReminder,
			Tags:     []string{"finance"},
		},
		{
			Title:       "Morning run",
			Summary:     "5k around the park",
			Content:     "<p>5k around the park</p>",
			Category:    entity.CategoryPersonal,
			Tags:        []string{"health"},
			IsRecurring: true,
			Recurrence:  entity.RecurrenceDaily,
		},
	}

	for _, n := range samples {
		n.Id = uuid.New().String()
		n.NoteType = entity.NoteTypeText
		n.OriginalText = n.Summary
		if _, err := notes.Upsert(ctx, n); err != nil {
			log.Fatalf("Error: Failed to save %q: %v", n.Title, err)
		}
	}

	log.Printf("✅ Success: Seeded %d notes.", len(samples))
}
