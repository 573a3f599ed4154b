package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/prompthubapp/prompthub-server/internal/domain"
	"github.com/prompthubapp/prompthub-server/internal/store"
)

// StatsService aggregates library statistics from the raw listings.
type StatsService struct {
	store  store.Store
	logger *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(store store.Store, logger *slog.Logger) *StatsService {
	return &StatsService{store: store, logger: logger}
}

// CategoryCount is one row of the per-category prompt distribution.
type CategoryCount struct {
	CategoryID   string `json:"category_id,omitempty"`
	CategoryName string `json:"category_name"`
	CategoryPath string `json:"category_path,omitempty"`
	PromptCount  int    `json:"prompt_count"`
	SubtreeCount int    `json:"subtree_count"`
}

// LibraryStats summarizes the whole prompt library.
type LibraryStats struct {
	TotalPrompts    int              `json:"total_prompts"`
	TotalCategories int              `json:"total_categories"`
	TotalTags       int              `json:"total_tags"`
	TotalUsage      int              `json:"total_usage"`
	MostUsed        *domain.Prompt   `json:"most_used,omitempty"`
	RecentlyUpdated []*domain.Prompt `json:"recently_updated"`
	Categories      []CategoryCount  `json:"categories"`
	LevelStats      map[string]int   `json:"level_stats"`
	MaxLevelInUse   int              `json:"max_level_in_use"`
}

// recentLimit caps the recently-updated sample in the stats payload.
const recentLimit = 5

// GetStats computes library statistics. SubtreeCount on each category row
// includes prompts filed under its descendants.
func (s *StatsService) GetStats(ctx context.Context) (*LibraryStats, error) {
	prompts, err := s.store.ListPrompts(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	stats := &LibraryStats{
		TotalPrompts:    len(prompts),
		TotalCategories: len(categories),
		TotalTags:       len(tags),
		RecentlyUpdated: []*domain.Prompt{},
		Categories:      []CategoryCount{},
		LevelStats:      map[string]int{},
	}

	directCounts := make(map[string]int)
	for _, p := range prompts {
		stats.TotalUsage += p.UsageCount
		if stats.MostUsed == nil || p.UsageCount > stats.MostUsed.UsageCount {
			stats.MostUsed = p
		}
		if p.CategoryID != "" {
			directCounts[p.CategoryID]++
		}
	}
	if stats.MostUsed != nil && stats.MostUsed.UsageCount == 0 {
		stats.MostUsed = nil
	}

	// ListPrompts is already ordered by most recently updated.
	for i, p := range prompts {
		if i == recentLimit {
			break
		}
		stats.RecentlyUpdated = append(stats.RecentlyUpdated, p)
	}

	children := make(map[string][]string, len(categories))
	for _, c := range categories {
		if c.ParentID != "" {
			children[c.ParentID] = append(children[c.ParentID], c.ID)
		}
		stats.LevelStats[strconv.Itoa(c.Level)]++
		if c.Level > stats.MaxLevelInUse {
			stats.MaxLevelInUse = c.Level
		}
	}

	var subtreeCount func(categoryID string) int
	subtreeCount = func(categoryID string) int {
		total := directCounts[categoryID]
		for _, childID := range children[categoryID] {
			total += subtreeCount(childID)
		}
		return total
	}

	for _, c := range categories {
		stats.Categories = append(stats.Categories, CategoryCount{
			CategoryID:   c.ID,
			CategoryName: c.Name,
			CategoryPath: c.Path,
			PromptCount:  directCounts[c.ID],
			SubtreeCount: subtreeCount(c.ID),
		})
	}

	// Legacy prompts carry a name but no category link.
	orphaned := 0
	for _, p := range prompts {
		if p.CategoryID == "" {
			orphaned++
		}
	}
	if orphaned > 0 {
		stats.Categories = append(stats.Categories, CategoryCount{
			CategoryName: domain.FallbackCategoryName,
			PromptCount:  orphaned,
			SubtreeCount: orphaned,
		})
	}

	return stats, nil
}
