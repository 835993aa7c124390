package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"ID", "Name", "Rating"}, true)
	table.AddRow("8", "Dr. Ananya Reddy", "4.9")
	table.AddRow("1", "Dr. Rajesh Kumar", "4.8")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ID  Name"))
	assert.Contains(t, lines[1], "─")
	assert.Equal(t, "8   Dr. Ananya Reddy  4.9", lines[2])
}

func TestTableEmptyHeaders(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf, nil, true).Render()
	assert.Empty(t, buf.String())
}

func TestStatusAndSummary(t *testing.T) {
	assert.Equal(t, "Busy", Status("Busy", true))

	var buf bytes.Buffer
	Summary(&buf, true, "%d found", 2)
	assert.Equal(t, "2 found\n", buf.String())
}
