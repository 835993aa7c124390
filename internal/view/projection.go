// Package view shapes query results for rendering and runs the actions a
// rendered item offers.
package view

import (
	"strings"
	"unicode/utf8"

	"github.com/pbaille/localconnect/internal/domain"
)

// DefaultPageSize matches the render batch of the directory screen
const DefaultPageSize = 10

// Item is one rendered directory entry. ContactNumber is only filled in list mode.
type Item struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Initials       string              `json:"initials"`
	Profession     string              `json:"profession"`
	Specialization string              `json:"specialization"`
	FlatNumber     string              `json:"flat_number"`
	ContactNumber  string              `json:"contact_number,omitempty"`
	Rating         float64             `json:"rating"`
	Availability   domain.Availability `json:"availability"`
	IsOnline       bool                `json:"is_online"`
	IsFavorite     bool                `json:"is_favorite"`
	IsRecent       bool                `json:"is_recent"`
	CanCall        bool                `json:"can_call"`
}

// EmptyState holds the translation keys shown when there is nothing to render
type EmptyState struct {
	TitleKey   string `json:"title_key"`
	MessageKey string `json:"message_key"`
}

// Projection is a page of results shaped for one view mode
type Projection struct {
	Mode       domain.ViewMode `json:"mode"`
	Columns    int             `json:"columns"`
	Items      []Item          `json:"items"`
	Rows       [][]Item        `json:"rows"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalItems int             `json:"total_items"`
	TotalPages int             `json:"total_pages"`
	SortLabel  string          `json:"sort_label,omitempty"`
	Empty      *EmptyState     `json:"empty,omitempty"`
}

// Options selects the page to project
type Options struct {
	Page     int
	PageSize int
}

// Project renders results for the state's view mode. Grid mode lays items out
// two per row; list mode one per row.
func Project(results []domain.Entry, state domain.QueryState, opts Options) Projection {
	return project(results, state, state.ViewMode, opts)
}

// ProjectGlobal renders global search results, which are always a grid
func ProjectGlobal(results []domain.Entry, state domain.QueryState, opts Options) Projection {
	p := project(results, state, domain.ViewGrid, opts)
	p.SortLabel = SortLabel(domain.SortRating)
	return p
}

func project(results []domain.Entry, state domain.QueryState, mode domain.ViewMode, opts Options) Projection {
	if !mode.Valid() {
		mode = domain.ViewGrid
	}
	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}

	p := Projection{
		Mode:       mode,
		Columns:    1,
		Items:      []Item{},
		Rows:       [][]Item{},
		Page:       page,
		PageSize:   size,
		TotalItems: len(results),
		TotalPages: (len(results) + size - 1) / size,
		SortLabel:  SortLabel(state.SortKey),
	}
	if mode == domain.ViewGrid {
		p.Columns = 2
	}

	if len(results) == 0 {
		p.Empty = emptyState(state)
		return p
	}

	start := (page - 1) * size
	if start >= len(results) {
		return p
	}
	end := min(start+size, len(results))

	for _, e := range results[start:end] {
		p.Items = append(p.Items, newItem(e, state, mode))
	}
	for i := 0; i < len(p.Items); i += p.Columns {
		p.Rows = append(p.Rows, p.Items[i:min(i+p.Columns, len(p.Items))])
	}
	return p
}

func newItem(e domain.Entry, state domain.QueryState, mode domain.ViewMode) Item {
	it := Item{
		ID:             e.ID,
		Name:           e.Name,
		Initials:       Initials(e.Name),
		Profession:     e.Profession,
		Specialization: e.Specialization,
		FlatNumber:     e.FlatNumber,
		Rating:         e.Rating,
		Availability:   e.Availability,
		IsOnline:       e.IsOnline,
		IsFavorite:     state.FavoriteIDs.Has(e.ID),
		IsRecent:       state.IsRecent(e.ID),
		CanCall:        e.IsAvailable(),
	}
	if mode == domain.ViewList {
		it.ContactNumber = e.ContactNumber
	}
	return it
}

// emptyState is nil on the home screen, where the category grid shows instead
func emptyState(state domain.QueryState) *EmptyState {
	if !state.InCategory() && state.SearchText == "" {
		return nil
	}
	if !state.InCategory() {
		return &EmptyState{TitleKey: "directory.noResults", MessageKey: "directory.adjustSearch"}
	}
	if state.SearchText != "" {
		return &EmptyState{TitleKey: "directory.noneFound", MessageKey: "directory.adjustSearch"}
	}
	return &EmptyState{TitleKey: "directory.noneFound", MessageKey: "directory.noneInArea"}
}

// Initials takes the first letter of each of the first two words of name
func Initials(name string) string {
	var sb strings.Builder
	words := strings.Fields(name)
	for _, w := range words[:min(2, len(words))] {
		r, _ := utf8.DecodeRuneInString(w)
		sb.WriteRune(r)
	}
	return sb.String()
}

var sortLabels = map[domain.SortKey]string{
	domain.SortName:         "Name",
	domain.SortRating:       "Rating",
	domain.SortRecentCalls:  "Recent Calls",
	domain.SortFavorites:    "Favorites",
	domain.SortAvailability: "Available Now",
}

// SortLabel is the menu title of a sort key
func SortLabel(key domain.SortKey) string {
	return sortLabels[key]
}
