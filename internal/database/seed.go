package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// SeedCategory describes one category created by SeedCategories.
type SeedCategory struct {
	Name         string
	Slug         string
	Emoji        string
	DisplayOrder int
}

// DefaultCategories is the fixed taxonomy of destinations and topics the
// site launched with.
var DefaultCategories = []SeedCategory{
	{Name: "United Kingdom", Slug: "uk", Emoji: "🇬🇧", DisplayOrder: 1},
	{Name: "Canada", Slug: "canada", Emoji: "🇨🇦", DisplayOrder: 2},
	{Name: "Germany", Slug: "germany", Emoji: "🇩🇪", DisplayOrder: 3},
	{Name: "Australia", Slug: "australia", Emoji: "🇦🇺", DisplayOrder: 4},
	{Name: "United States", Slug: "usa", Emoji: "🇺🇸", DisplayOrder: 5},
	{Name: "Ireland", Slug: "ireland", Emoji: "🇮🇪", DisplayOrder: 6},
	{Name: "Netherlands", Slug: "netherlands", Emoji: "🇳🇱", DisplayOrder: 7},
	{Name: "New Zealand", Slug: "new-zealand", Emoji: "🇳🇿", DisplayOrder: 8},
	{Name: "Portugal", Slug: "portugal", Emoji: "🇵🇹", DisplayOrder: 9},
	{Name: "UAE", Slug: "uae", Emoji: "🇦🇪", DisplayOrder: 10},
	{Name: "Healthcare", Slug: "healthcare", Emoji: "🏥", DisplayOrder: 11},
	{Name: "IELTS", Slug: "ielts", Emoji: "📝", DisplayOrder: 12},
	{Name: "Study Abroad", Slug: "study", Emoji: "🎓", DisplayOrder: 13},
	{Name: "Tech", Slug: "tech", Emoji: "💻", DisplayOrder: 14},
	{Name: "Planning & Finance", Slug: "planning", Emoji: "💰", DisplayOrder: 15},
}

// SeedCategories inserts the given categories, skipping any whose name or
// slug already exists. It returns how many rows were created. All inserts
// run in a single transaction.
func SeedCategories(ctx context.Context, db *sql.DB, categories []SeedCategory) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	created := 0
	for _, c := range categories {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO categories (name, slug, emoji, display_order)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT DO NOTHING
		`, c.Name, c.Slug, c.Emoji, c.DisplayOrder)
		if err != nil {
			return 0, fmt.Errorf("seed category %s: %w", c.Slug, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("seed category %s: %w", c.Slug, err)
		}
		if n > 0 {
			created++
			slog.Info("category created", "name", c.Name, "slug", c.Slug)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed commit: %w", err)
	}

	if created == 0 {
		slog.Info("categories already seeded, skipping")
	}
	return created, nil
}
