// Package query derives filtered and sorted directory results from a QueryState.
//
// Every function here is pure: inputs are never mutated and the same inputs
// always produce the same output, so callers may re-run a query on every
// keystroke without coordination.
package query

import (
	"strings"

	"github.com/pbaille/localconnect/internal/directory"
	"github.com/pbaille/localconnect/internal/domain"
)

// CategoryView is the result of browsing one category
type CategoryView struct {
	Category       *domain.Category `json:"category,omitempty"`
	SortKey        domain.SortKey   `json:"sort_key"`
	Results        []domain.Entry   `json:"results"`
	AvailableCount int              `json:"available_count"`
	TotalCount     int              `json:"total_count"`
}

// Matches reports whether searchText is a case-insensitive substring of the
// entry's name, profession, flat number, or specialization. Empty text matches.
func Matches(e domain.Entry, searchText string) bool {
	if searchText == "" {
		return true
	}
	needle := strings.ToLower(searchText)
	return strings.Contains(strings.ToLower(e.Name), needle) ||
		strings.Contains(strings.ToLower(e.Profession), needle) ||
		strings.Contains(strings.ToLower(e.FlatNumber), needle) ||
		strings.Contains(strings.ToLower(e.Specialization), needle)
}

// Filter keeps entries in the selected category (exact, case-sensitive) that
// match the search text. Input order is preserved.
func Filter(entries []domain.Entry, state domain.QueryState) []domain.Entry {
	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if state.SelectedCategory != "" && e.Profession != state.SelectedCategory {
			continue
		}
		if !Matches(e, state.SearchText) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Derive filters entries by state and orders them by state.SortKey
func Derive(entries []domain.Entry, state domain.QueryState) []domain.Entry {
	filtered := Filter(entries, state)
	sortEntries(filtered, state)
	return filtered
}

// GlobalSearch searches the whole directory, ignoring any selected category,
// and always orders by descending rating. Empty text yields no results.
func GlobalSearch(entries []domain.Entry, searchText string) []domain.Entry {
	if searchText == "" {
		return []domain.Entry{}
	}
	results := Filter(entries, domain.QueryState{SearchText: searchText})
	sortEntries(results, domain.QueryState{SortKey: domain.SortRating})
	return results
}

// DeriveCategoryView runs Derive and summarizes the result for the category screen.
// A category with no entries is a valid, empty view.
func DeriveCategoryView(entries []domain.Entry, categories []domain.Category, state domain.QueryState) CategoryView {
	results := Derive(entries, state)

	view := CategoryView{
		SortKey:    state.SortKey,
		Results:    results,
		TotalCount: len(results),
	}
	if c, ok := directory.FindCategory(categories, state.SelectedCategory); ok {
		view.Category = &c
	}
	for _, e := range results {
		if e.IsAvailable() {
			view.AvailableCount++
		}
	}
	return view
}
