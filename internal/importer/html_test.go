package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/localconnect/internal/domain"
)

const exportPage = `<!DOCTYPE html>
<html><head><title>Residents</title><script>var x = "<table>";</script></head>
<body>
<table id="nav"><tr><td>Home</td><td>Directory</td></tr></table>
<table>
  <thead>
    <tr><th>ID</th><th>Name</th><th>Profession</th><th>Phone</th><th>Flat Number</th>
        <th>Status</th><th>Rating</th><th>Specialization</th><th>Online</th><th>Notes</th></tr>
  </thead>
  <tbody>
    <tr><td>1</td><td><b>Dr. Rajesh</b>   Kumar</td><td>Doctor</td><td>+91 98765 43210</td><td>A-101</td>
        <td>Available</td><td>4.8</td><td>General Medicine</td><td>yes</td><td>ignored</td></tr>
    <tr><td>2</td><td>Adv. Sunita Verma</td><td>Lawyer</td><td>+91 43210 98765</td><td>C-201</td>
        <td>Busy</td><td>4.9</td><td>Family Law</td><td>no</td><td></td></tr>
  </tbody>
</table>
</body></html>`

func TestParse(t *testing.T) {
	entries, err := Parse(strings.NewReader(exportPage))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, domain.Entry{
		ID:             "1",
		Name:           "Dr. Rajesh Kumar",
		Profession:     "Doctor",
		ContactNumber:  "+91 98765 43210",
		FlatNumber:     "A-101",
		Availability:   domain.Available,
		Rating:         4.8,
		Specialization: "General Medicine",
		IsOnline:       true,
	}, entries[0])
	assert.Equal(t, domain.Busy, entries[1].Availability)
	assert.False(t, entries[1].IsOnline)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "no table",
			body: `<p>nothing here</p>`,
			want: "no directory table",
		},
		{
			name: "missing required cell",
			body: `<table><tr><th>id</th><th>name</th><th>profession</th></tr><tr><td>1</td><td></td><td>Chef</td></tr></table>`,
			want: "row 1",
		},
		{
			name: "bad rating",
			body: `<table><tr><th>id</th><th>name</th><th>profession</th><th>rating</th></tr><tr><td>1</td><td>A</td><td>Chef</td><td>9</td></tr></table>`,
			want: "rating",
		},
		{
			name: "bad availability",
			body: `<table><tr><th>id</th><th>name</th><th>profession</th><th>availability</th></tr><tr><td>1</td><td>A</td><td>Chef</td><td>Away</td></tr></table>`,
			want: "availability",
		},
		{
			name: "duplicate id",
			body: `<table><tr><th>id</th><th>name</th><th>profession</th></tr><tr><td>1</td><td>A</td><td>Chef</td></tr><tr><td>1</td><td>B</td><td>Chef</td></tr></table>`,
			want: "duplicate id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.html")
	require.NoError(t, os.WriteFile(path, []byte(exportPage), 0o644))

	entries, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/directory" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(exportPage))
	}))
	defer srv.Close()

	entries, err := Load(context.Background(), srv.URL+"/directory")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = Fetch(context.Background(), srv.URL+"/other")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")

	_, err = Fetch(context.Background(), "ftp://example.com/x")
	assert.Error(t, err)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com"))
	assert.True(t, IsURL(" www.example.com"))
	assert.False(t, IsURL("./export.html"))
}
