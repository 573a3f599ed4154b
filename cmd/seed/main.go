// Package main provides a tool to seed the database with sample prompts.
//
// It creates the default categories and a handful of prompts with tags and
// version history for development and UI testing.
//
// Usage:
//
//	DATABASE_PATH=~/PromptHub/prompthub.db go run ./cmd/seed
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prompthubapp/prompthub-server/internal/domain"
	"github.com/prompthubapp/prompthub-server/internal/id"
	"github.com/prompthubapp/prompthub-server/internal/store/sqlite"
)

var wipe = flag.Bool("wipe", false, "Clear all existing data before seeding")

type samplePrompt struct {
	title       string
	content     string
	description string
	category    string
	tags        []string
}

var samples = []samplePrompt{
	{
		title:       "Code reviewer",
		content:     "Review the following diff for correctness, naming, and missed edge cases. Point out anything that would not survive a production incident.",
		description: "Strict review persona for pull requests",
		category:    "Programming",
		tags:        []string{"code", "review"},
	},
	{
		title:       "Commit message writer",
		content:     "Write a one-line commit message for this diff. Imperative mood, no trailing period, under 70 characters.",
		description: "Keeps commit history tidy",
		category:    "Programming",
		tags:        []string{"git", "code"},
	},
	{
		title:       "Plain-language editor",
		content:     "Rewrite the following text for a general audience. Short sentences, no jargon, keep the meaning intact.",
		description: "Editing pass for announcements and docs",
		category:    "Writing",
		tags:        []string{"editing"},
	},
	{
		title:       "Meeting summarizer",
		content:     "Summarize this transcript into decisions made, open questions, and action items with owners.",
		description: "Turns raw transcripts into minutes",
		category:    "Business",
		tags:        []string{"meetings", "summary"},
	},
	{
		title:       "Socratic tutor",
		content:     "Teach the following topic by asking me one question at a time. Never give the answer outright; guide me to it.",
		description: "Interactive learning prompt",
		category:    "Education",
		tags:        []string{"teaching"},
	},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dbPath = filepath.Join(home, "PromptHub", "prompthub.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	if *wipe {
		fmt.Println("Clearing existing data...")
		if err := s.ClearData(ctx); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
	}

	if err := s.SeedDefaultCategories(ctx); err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}

	categories, err := s.ListCategories(ctx)
	if err != nil {
		log.Fatalf("Failed to list categories: %v", err)
	}
	byName := make(map[string]string, len(categories))
	for _, c := range categories {
		byName[c.Name] = c.ID
	}

	created := 0
	for _, sample := range samples {
		p := &domain.Prompt{
			Entity:      domain.Entity{ID: id.MustGenerate("prompt")},
			Title:       sample.title,
			Content:     sample.content,
			Description: sample.description,
			CategoryID:  byName[sample.category],
			Tags:        sample.tags,
		}
		p.InitTimestamps()

		if err := s.CreatePrompt(ctx, p); err != nil {
			log.Fatalf("Failed to create prompt %q: %v", sample.title, err)
		}
		created++
	}

	fmt.Printf("Seeded %d categories and %d prompts\n", len(categories), created)
}
