// Package events holds the community event board: a seeded list, a
// search and category filter, and validated additions.
package events

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidEvent is returned when a new event fails validation
var ErrInvalidEvent = errors.New("invalid event")

// ErrEventNotFound is returned for unknown event ids
var ErrEventNotFound = errors.New("event not found")

// Category separates recurring community events from festivals
type Category string

const (
	Regular Category = "regular"
	Special Category = "special"
	// All disables the category filter
	All Category = "all"
)

// Valid reports whether c is a category an event can carry
func (c Category) Valid() bool {
	return c == Regular || c == Special
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "3:04 PM"
)

// Event is one entry on the board. Time is a display range like "6:00 PM - 10:00 PM".
type Event struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Organizer   string   `json:"organizer"`
	Category    Category `json:"category"`
}

// Matches reports whether search is a case-insensitive substring of the
// title, description, location or organizer. Empty search matches.
func (e Event) Matches(search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(e.Title), needle) ||
		strings.Contains(strings.ToLower(e.Description), needle) ||
		strings.Contains(strings.ToLower(e.Location), needle) ||
		strings.Contains(strings.ToLower(e.Organizer), needle)
}

// Filter keeps events matching search in category, preserving order.
// An empty category or All keeps every category.
func Filter(events []Event, search string, category Category) []Event {
	out := []Event{}
	for _, e := range events {
		if category != "" && category != All && e.Category != category {
			continue
		}
		if e.Matches(search) {
			out = append(out, e)
		}
	}
	return out
}

// Split separates special events from regular ones, keeping order
func Split(events []Event) (special, regular []Event) {
	special, regular = []Event{}, []Event{}
	for _, e := range events {
		if e.Category == Special {
			special = append(special, e)
		} else {
			regular = append(regular, e)
		}
	}
	return special, regular
}

// FormatTimeRange renders start and end as "7:00 PM - 9:00 PM"
func FormatTimeRange(start, end time.Time) string {
	return start.Format(timeLayout) + " - " + end.Format(timeLayout)
}

// Draft is the add-event form
type Draft struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Organizer   string   `json:"organizer"`
	Category    Category `json:"category"`
}

// Validate trims every field, requires all of them, and checks that the date
// is YYYY-MM-DD and not before today and that both times read like "7:00 PM".
// An empty category defaults to regular.
func (d *Draft) Validate(today time.Time) error {
	fields := []struct {
		name string
		val  *string
	}{
		{"title", &d.Title},
		{"date", &d.Date},
		{"start_time", &d.StartTime},
		{"end_time", &d.EndTime},
		{"location", &d.Location},
		{"description", &d.Description},
		{"organizer", &d.Organizer},
	}

	var missing []string
	for _, f := range fields {
		*f.val = strings.TrimSpace(*f.val)
		if *f.val == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidEvent, strings.Join(missing, ", "))
	}

	if d.Category == "" {
		d.Category = Regular
	}
	if !d.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidEvent, d.Category)
	}

	date, err := time.Parse(dateLayout, d.Date)
	if err != nil {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidEvent, d.Date)
	}
	y, m, day := today.Date()
	if date.Before(time.Date(y, m, day, 0, 0, 0, 0, time.UTC)) {
		return fmt.Errorf("%w: date %s is in the past", ErrInvalidEvent, d.Date)
	}

	for _, t := range []*string{&d.StartTime, &d.EndTime} {
		if _, err := time.Parse(timeLayout, strings.ToUpper(*t)); err != nil {
			return fmt.Errorf("%w: time %q is not like 7:00 PM", ErrInvalidEvent, *t)
		}
		*t = strings.ToUpper(*t)
	}
	return nil
}

// Store is the mutex-guarded event board
type Store struct {
	mu     sync.RWMutex
	events []Event
	logger *zap.Logger
	now    func() time.Time
}

// NewStore creates a board holding a copy of events
func NewStore(events []Event, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{events: slices.Clone(events), logger: logger, now: time.Now}
}

// List returns a copy of every event in insertion order
func (s *Store) List() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events)
}

// Find looks up an event by id
func (s *Store) Find(id string) (Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.events {
		if e.ID == id {
			return e, nil
		}
	}
	return Event{}, fmt.Errorf("find event %q: %w", id, ErrEventNotFound)
}

// Add validates d and appends it with the next numeric id
func (s *Store) Add(d Draft) (Event, error) {
	if err := d.Validate(s.now()); err != nil {
		return Event{}, err
	}
	start, _ := time.Parse(timeLayout, d.StartTime)
	end, _ := time.Parse(timeLayout, d.EndTime)

	s.mu.Lock()
	defer s.mu.Unlock()

	e := Event{
		ID:          s.nextID(),
		Title:       d.Title,
		Date:        d.Date,
		Time:        FormatTimeRange(start, end),
		Location:    d.Location,
		Description: d.Description,
		Organizer:   d.Organizer,
		Category:    d.Category,
	}
	s.events = append(s.events, e)

	s.logger.Info("event added", zap.String("event", e.ID), zap.String("title", e.Title))
	return e, nil
}

// nextID is one more than the largest numeric id. Callers hold mu.
func (s *Store) nextID() string {
	highest := 0
	for _, e := range s.events {
		if n, err := strconv.Atoi(e.ID); err == nil && n > highest {
			highest = n
		}
	}
	return strconv.Itoa(highest + 1)
}
