package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"ID", "Name"},
		Rows: []map[string]string{
			{"ID": "1", "Name": "Maria Silva"},
			{"ID": "2", "Name": "Joao Souza"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	data, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Name", lines[0])
	assert.Equal(t, "1,Maria Silva", lines[1])
}

func TestCSVExporterMissingCellRendersEmpty(t *testing.T) {
	data, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"ID", "Name"},
		Rows:    []map[string]string{{"ID": "1"}},
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), "1,")
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data, err := NewPDFExporter().Render(sampleDataset(), "Enrollments")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "")
	require.Error(t, err)
}
