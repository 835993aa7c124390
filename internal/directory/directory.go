// Package directory exposes the entry and category sets a session browses.
package directory

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pbaille/localconnect/internal/domain"
)

// Source provides the directory for a session. Implementations return
// entries and categories in a stable order.
type Source interface {
	Entries(ctx context.Context) ([]domain.Entry, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

// Static serves the compiled-in seed data. It never fails.
type Static struct{}

// NewStatic creates a Source over the seed data
func NewStatic() *Static {
	return &Static{}
}

// Entries returns the seed entries in insertion order
func (Static) Entries(ctx context.Context) ([]domain.Entry, error) {
	return SeedEntries(), nil
}

// Categories returns the seed categories in insertion order
func (Static) Categories(ctx context.Context) ([]domain.Category, error) {
	return SeedCategories(), nil
}

// CountByCategory returns how many entries have profession == displayName (exact match)
func CountByCategory(entries []domain.Entry, displayName string) int {
	n := 0
	for _, e := range entries {
		if e.Profession == displayName {
			n++
		}
	}
	return n
}

// CategoryCount pairs a category with its entry count
type CategoryCount struct {
	domain.Category
	Count int `json:"count"`
}

// CategoryCounts computes the badge count of every category, in category order.
// Entries whose profession matches no category are not counted anywhere.
func CategoryCounts(entries []domain.Entry, categories []domain.Category) []CategoryCount {
	out := make([]CategoryCount, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryCount{Category: c, Count: CountByCategory(entries, c.DisplayName)})
	}
	return out
}

// FindEntry looks up an entry by id
func FindEntry(entries []domain.Entry, id string) (domain.Entry, error) {
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.Entry{}, fmt.Errorf("find entry %q: %w", id, domain.ErrEntryNotFound)
}

// FindCategory looks up a category by display name
func FindCategory(categories []domain.Category, displayName string) (domain.Category, bool) {
	for _, c := range categories {
		if c.DisplayName == displayName {
			return c, true
		}
	}
	return domain.Category{}, false
}

// Load fetches entries and categories from src concurrently
func Load(ctx context.Context, src Source) ([]domain.Entry, []domain.Category, error) {
	var (
		entries    []domain.Entry
		categories []domain.Category
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		if entries, err = src.Entries(egCtx); err != nil {
			return fmt.Errorf("load entries: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		if categories, err = src.Categories(egCtx); err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return entries, categories, nil
}
