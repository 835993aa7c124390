package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pbaille/localconnect/internal/directory"
	"github.com/pbaille/localconnect/internal/domain"
)

//go:embed schema.sql
var schema string

// Store is the sqlite-backed directory provider
type Store struct {
	db *sql.DB
}

var _ directory.Source = (*Store)(nil)

// New opens the database at dbPath and initializes the schema
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Seed loads the compiled-in directory when the store is empty.
// It reports whether anything was inserted.
func (s *Store) Seed(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return false, fmt.Errorf("count entries: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	if err := s.ImportCategories(ctx, directory.SeedCategories()); err != nil {
		return false, err
	}
	if err := s.ImportEntries(ctx, directory.SeedEntries()); err != nil {
		return false, err
	}
	return true, nil
}

// ImportEntries upserts entries by id in one transaction. Existing rows keep
// their position in insertion order.
func (s *Store) ImportEntries(ctx context.Context, entries []domain.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (id, name, profession, contact_number, flat_number, availability, rating, specialization, is_online)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			profession = excluded.profession,
			contact_number = excluded.contact_number,
			flat_number = excluded.flat_number,
			availability = excluded.availability,
			rating = excluded.rating,
			specialization = excluded.specialization,
			is_online = excluded.is_online
	`)
	if err != nil {
		return fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		_, err := stmt.ExecContext(ctx,
			e.ID, e.Name, e.Profession, e.ContactNumber, e.FlatNumber,
			string(e.Availability), e.Rating, e.Specialization, e.IsOnline,
		)
		if err != nil {
			return fmt.Errorf("import entry %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// ImportCategories upserts categories by id
func (s *Store) ImportCategories(ctx context.Context, categories []domain.Category) error {
	for _, c := range categories {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO categories (id, display_name, description, color_tag, icon_ref)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				display_name = excluded.display_name,
				description = excluded.description,
				color_tag = excluded.color_tag,
				icon_ref = excluded.icon_ref
		`, c.ID, c.DisplayName, c.Description, c.ColorTag, c.IconRef)
		if err != nil {
			return fmt.Errorf("import category %s: %w", c.ID, err)
		}
	}
	return nil
}

// Entries returns all entries in insertion order
func (s *Store) Entries(ctx context.Context) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, profession, contact_number, flat_number, availability, rating, specialization, is_online
		FROM entries ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w: %w", domain.ErrDataUnavailable, err)
	}
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		var e domain.Entry
		var availability string
		if err := rows.Scan(&e.ID, &e.Name, &e.Profession, &e.ContactNumber, &e.FlatNumber,
			&availability, &e.Rating, &e.Specialization, &e.IsOnline); err != nil {
			return nil, fmt.Errorf("scan entry: %w: %w", domain.ErrDataUnavailable, err)
		}
		e.Availability = domain.Availability(availability)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w: %w", domain.ErrDataUnavailable, err)
	}

	return entries, nil
}

// Categories returns all categories in insertion order
func (s *Store) Categories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, display_name, description, color_tag, icon_ref FROM categories ORDER BY seq",
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w: %w", domain.ErrDataUnavailable, err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.DisplayName, &c.Description, &c.ColorTag, &c.IconRef); err != nil {
			return nil, fmt.Errorf("scan category: %w: %w", domain.ErrDataUnavailable, err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w: %w", domain.ErrDataUnavailable, err)
	}

	return categories, nil
}

// CountByCategory counts entries whose profession equals displayName exactly
func (s *Store) CountByCategory(ctx context.Context, displayName string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM entries WHERE profession = ?",
		displayName,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count by category: %w: %w", domain.ErrDataUnavailable, err)
	}
	return n, nil
}
