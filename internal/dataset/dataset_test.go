package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSheetColumnLookup(t *testing.T) {
	s := NewSheet("People")
	require.NoError(t, s.AppendColumn(&Column{Title: "Name", Data: []any{"Ada"}}))
	require.NoError(t, s.AppendColumn(&Column{Title: "Score"}))

	col, ok := s.Column("Name")
	require.True(t, ok)
	assert.Equal(t, []any{"Ada"}, col.Data)

	_, ok = s.Column("Missing")
	assert.False(t, ok)
}

func TestSheetRejectsDuplicateTitles(t *testing.T) {
	s := NewSheet("S")
	require.NoError(t, s.AppendColumn(&Column{Title: "A"}))
	err := s.AppendColumn(&Column{Title: "A"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestSheetRowsIsLongestColumn(t *testing.T) {
	s := NewSheet("S")
	require.NoError(t, s.AppendColumn(&Column{Title: "A", Data: []any{1, 2, 3}}))
	require.NoError(t, s.AppendColumn(&Column{Title: "B", Data: []any{1}}))
	assert.Equal(t, 3, s.Rows())
}

func TestDatasetSheetOrderAndLookup(t *testing.T) {
	d := New()
	_, err := d.AddSheet("First")
	require.NoError(t, err)
	_, err = d.AddSheet("Second")
	require.NoError(t, err)

	_, err = d.AddSheet("First")
	require.Error(t, err)

	names := make([]string, 0, 2)
	for _, s := range d.Sheets() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"First", "Second"}, names)

	s, ok := d.Sheet("Second")
	require.True(t, ok)
	assert.Equal(t, "Second", s.Name)
}
