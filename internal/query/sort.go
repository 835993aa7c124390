package query

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pbaille/localconnect/internal/domain"
)

// sortEntries orders entries in place. The sort is stable, so entries the
// comparator considers equal keep their filter-stage order.
func sortEntries(entries []domain.Entry, state domain.QueryState) {
	// Collators keep scratch buffers; one per call keeps the engine re-entrant.
	names := collate.New(language.English)

	var compare func(a, b domain.Entry) int
	switch state.SortKey {
	case domain.SortName:
		compare = func(a, b domain.Entry) int {
			return names.CompareString(a.Name, b.Name)
		}
	case domain.SortRating:
		compare = byRatingDesc
	case domain.SortRecentCalls:
		recents := state.RecentCallIDs
		compare = func(a, b domain.Entry) int {
			return compareRecent(domain.RecentIndex(recents, a.ID), domain.RecentIndex(recents, b.ID))
		}
	case domain.SortFavorites:
		favs := state.FavoriteIDs
		compare = func(a, b domain.Entry) int {
			if c := firstWhen(favs.Has(a.ID), favs.Has(b.ID)); c != 0 {
				return c
			}
			return names.CompareString(a.Name, b.Name)
		}
	case domain.SortAvailability:
		compare = func(a, b domain.Entry) int {
			if c := firstWhen(a.IsAvailable(), b.IsAvailable()); c != 0 {
				return c
			}
			return byRatingDesc(a, b)
		}
	default:
		return
	}

	slices.SortStableFunc(entries, compare)
}

func byRatingDesc(a, b domain.Entry) int {
	return cmp.Compare(b.Rating, a.Rating)
}

// compareRecent orders by recent-call position; -1 (never called) sorts last.
func compareRecent(ai, bi int) int {
	switch {
	case ai == -1 && bi == -1:
		return 0
	case ai == -1:
		return 1
	case bi == -1:
		return -1
	}
	return cmp.Compare(ai, bi)
}

// firstWhen puts the side whose flag is set first
func firstWhen(a, b bool) int {
	switch {
	case a && !b:
		return -1
	case !a && b:
		return 1
	}
	return 0
}
