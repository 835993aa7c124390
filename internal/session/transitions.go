// Package session holds the QueryState transitions and the per-session state cells.
package session

import (
	"fmt"

	"github.com/pbaille/localconnect/internal/domain"
)

// RecentCallCap bounds the recent-calls list
const RecentCallCap = 5

// NewState returns the session-start state seeded with favorites and recent calls.
// Duplicate recents are dropped and the list is capped.
func NewState(favorites, recents []string) domain.QueryState {
	s := domain.QueryState{
		SortKey:       domain.SortName,
		ViewMode:      domain.ViewGrid,
		FavoriteIDs:   domain.NewIDSet(favorites...),
		RecentCallIDs: []string{},
	}
	for i := len(recents) - 1; i >= 0; i-- {
		s = RegisterCall(s, recents[i])
	}
	return s
}

// ToggleFavorite flips membership of id in the favorite set
func ToggleFavorite(s domain.QueryState, id string) domain.QueryState {
	favs := s.FavoriteIDs.Clone()
	if favs.Has(id) {
		delete(favs, id)
	} else {
		favs[id] = struct{}{}
	}
	s.FavoriteIDs = favs
	return s
}

// RegisterCall moves id to the front of the recent-calls list, removing any
// earlier occurrence, and keeps at most RecentCallCap ids.
func RegisterCall(s domain.QueryState, id string) domain.QueryState {
	recents := make([]string, 0, RecentCallCap)
	recents = append(recents, id)
	for _, r := range s.RecentCallIDs {
		if len(recents) == RecentCallCap {
			break
		}
		if r != id {
			recents = append(recents, r)
		}
	}
	s.RecentCallIDs = recents
	return s
}

// SelectCategory enters a category. Entering a category clears any search text.
func SelectCategory(s domain.QueryState, displayName string) domain.QueryState {
	s.SelectedCategory = displayName
	s.SearchText = ""
	return s
}

// ClearCategory returns to the all-categories view
func ClearCategory(s domain.QueryState) domain.QueryState {
	s.SelectedCategory = ""
	return s
}

// Back leaves the current category, clearing the search as well. When no
// category is selected the state is unchanged and leave is true: the caller
// should navigate away from the directory screen.
func Back(s domain.QueryState) (next domain.QueryState, leave bool) {
	if !s.InCategory() {
		return s, true
	}
	s = ClearCategory(s)
	s.SearchText = ""
	return s, false
}

// SetSortKey changes the sort key. An unknown key leaves the state unchanged.
func SetSortKey(s domain.QueryState, key domain.SortKey) (domain.QueryState, error) {
	if !key.Valid() {
		return s, fmt.Errorf("set sort key %q: %w", key, domain.ErrInvalidSortKey)
	}
	s.SortKey = key
	return s, nil
}

// SetViewMode changes the view mode. An unknown mode leaves the state unchanged.
func SetViewMode(s domain.QueryState, mode domain.ViewMode) (domain.QueryState, error) {
	if !mode.Valid() {
		return s, fmt.Errorf("set view mode %q: %w", mode, domain.ErrInvalidViewMode)
	}
	s.ViewMode = mode
	return s, nil
}

// ToggleViewMode switches between grid and list
func ToggleViewMode(s domain.QueryState) domain.QueryState {
	if s.ViewMode == domain.ViewGrid {
		s.ViewMode = domain.ViewList
	} else {
		s.ViewMode = domain.ViewGrid
	}
	return s
}

// SetSearchText replaces the search text
func SetSearchText(s domain.QueryState, text string) domain.QueryState {
	s.SearchText = text
	return s
}
