package domain

import (
	"encoding/json"
	"sort"
)

// Availability is the reachability status of a directory entry
type Availability string

const (
	Available Availability = "Available"
	Busy      Availability = "Busy"
)

// Entry represents one listing in the local directory
type Entry struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Profession     string       `json:"profession"`
	ContactNumber  string       `json:"contact_number"`
	FlatNumber     string       `json:"flat_number"`
	Availability   Availability `json:"availability"`
	Rating         float64      `json:"rating"`
	Specialization string       `json:"specialization"`
	IsOnline       bool         `json:"is_online"`
}

// IsAvailable reports whether the entry can currently be called
func (e Entry) IsAvailable() bool {
	return e.Availability == Available
}

// Category represents a profession grouping used for browsing
type Category struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	ColorTag    string `json:"color_tag,omitempty"`
	IconRef     string `json:"icon_ref,omitempty"`
}

// SortKey selects the ordering applied to a category view
type SortKey string

const (
	SortName         SortKey = "name"
	SortRating       SortKey = "rating"
	SortRecentCalls  SortKey = "recent"
	SortFavorites    SortKey = "favorites"
	SortAvailability SortKey = "availability"
)

// SortKeys lists every valid sort key in menu order
var SortKeys = []SortKey{SortName, SortRating, SortRecentCalls, SortFavorites, SortAvailability}

// Valid reports whether k is one of the enumerated sort keys
func (k SortKey) Valid() bool {
	for _, v := range SortKeys {
		if k == v {
			return true
		}
	}
	return false
}

// ViewMode selects how results are rendered
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// Valid reports whether m is a known view mode
func (m ViewMode) Valid() bool {
	return m == ViewGrid || m == ViewList
}

// IDSet is a set of entry ids. It marshals as a sorted JSON array.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids, dropping duplicates
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Clone returns an independent copy
func (s IDSet) Clone() IDSet {
	c := make(IDSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Slice returns the ids in ascending order
func (s IDSet) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted array of ids
func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

// UnmarshalJSON decodes an array of ids, dropping duplicates
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}

// QueryState is the per-session state driving a directory result.
// Values are treated as immutable; transitions return new states.
type QueryState struct {
	SearchText       string   `json:"search_text"`
	SelectedCategory string   `json:"selected_category"`
	SortKey          SortKey  `json:"sort_key"`
	ViewMode         ViewMode `json:"view_mode"`
	FavoriteIDs      IDSet    `json:"favorite_ids"`
	RecentCallIDs    []string `json:"recent_call_ids"`
}

// InCategory reports whether a category is selected
func (s QueryState) InCategory() bool {
	return s.SelectedCategory != ""
}

// IsRecent reports whether id is in the recent-calls list
func (s QueryState) IsRecent(id string) bool {
	return RecentIndex(s.RecentCallIDs, id) >= 0
}

// RecentIndex returns the position of id in recents, or -1
func RecentIndex(recents []string, id string) int {
	for i, r := range recents {
		if r == id {
			return i
		}
	}
	return -1
}
