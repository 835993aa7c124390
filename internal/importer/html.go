// Package importer reads directory exports published as HTML tables.
package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/pbaille/localconnect/internal/domain"
)

// maxBody caps how much of a page or file is read (5MB)
const maxBody = 5 * 1024 * 1024

// Load reads an export from a URL or a local file path
func Load(ctx context.Context, location string) ([]domain.Entry, error) {
	if IsURL(location) {
		return Fetch(ctx, location)
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	return Parse(io.LimitReader(f, maxBody))
}

// Fetch retrieves an export page and parses its directory table
func Fetch(ctx context.Context, rawURL string) ([]domain.Entry, error) {
	rawURL = strings.TrimSpace(rawURL)
	if strings.HasPrefix(rawURL, "www.") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "localconnect/1.0 (directory-import)")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return Parse(io.LimitReader(resp.Body, maxBody))
}

// IsURL checks if a string looks like a URL
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "www.")
}

// columns maps lower-cased header text to entry fields
var columns = map[string]string{
	"id":             "id",
	"name":           "name",
	"profession":     "profession",
	"contact":        "contact",
	"contact number": "contact",
	"phone":          "contact",
	"flat":           "flat",
	"flat number":    "flat",
	"availability":   "availability",
	"status":         "availability",
	"rating":         "rating",
	"specialization": "specialization",
	"online":         "online",
}

// Parse extracts entries from the first <table> whose header row names at
// least the id, name and profession columns. Unknown columns are ignored.
func Parse(r io.Reader) ([]domain.Entry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	for _, table := range findAll(doc, "table") {
		rows := findAll(table, "tr")
		if len(rows) == 0 {
			continue
		}
		header := headerIndex(rows[0])
		if !hasColumns(header, "id", "name", "profession") {
			continue
		}
		return parseRows(rows[1:], header)
	}

	return nil, fmt.Errorf("no directory table found")
}

func parseRows(rows []*html.Node, header map[string]int) ([]domain.Entry, error) {
	entries := []domain.Entry{}
	seen := map[string]bool{}

	for i, row := range rows {
		cells := cellTexts(row)
		if len(cells) == 0 {
			continue
		}
		get := func(field string) string {
			idx, ok := header[field]
			if !ok || idx >= len(cells) {
				return ""
			}
			return cells[idx]
		}

		e := domain.Entry{
			ID:             get("id"),
			Name:           get("name"),
			Profession:     get("profession"),
			ContactNumber:  get("contact"),
			FlatNumber:     get("flat"),
			Specialization: get("specialization"),
			Availability:   domain.Available,
		}
		if e.ID == "" || e.Name == "" || e.Profession == "" {
			return nil, fmt.Errorf("row %d: id, name and profession are required", i+1)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("row %d: duplicate id %s", i+1, e.ID)
		}
		seen[e.ID] = true

		if v := get("availability"); v != "" {
			switch domain.Availability(v) {
			case domain.Available, domain.Busy:
				e.Availability = domain.Availability(v)
			default:
				return nil, fmt.Errorf("row %d: unknown availability %q", i+1, v)
			}
		}
		if v := get("rating"); v != "" {
			rating, err := strconv.ParseFloat(v, 64)
			if err != nil || rating < 0 || rating > 5 {
				return nil, fmt.Errorf("row %d: rating %q must be a number in [0,5]", i+1, v)
			}
			e.Rating = rating
		}
		switch strings.ToLower(get("online")) {
		case "yes", "true", "1", "online":
			e.IsOnline = true
		}

		entries = append(entries, e)
	}

	return entries, nil
}

func headerIndex(row *html.Node) map[string]int {
	idx := map[string]int{}
	for i, text := range cellTexts(row) {
		if field, ok := columns[strings.ToLower(text)]; ok {
			idx[field] = i
		}
	}
	return idx
}

func hasColumns(header map[string]int, fields ...string) bool {
	for _, f := range fields {
		if _, ok := header[f]; !ok {
			return false
		}
	}
	return true
}

// cellTexts returns the collapsed text of each td/th child of a row
func cellTexts(row *html.Node) []string {
	var cells []string
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, text(c))
		}
	}
	return cells
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// findAll returns every element named tag under n, in document order,
// without descending into nested matches
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}
