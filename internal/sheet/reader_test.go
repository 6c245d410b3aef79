package sheet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheetName, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadOldURLs(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"id", "URL", "note"},
		{1, "  https://o.example/a  ", "keep"},
		{2, "", "blank cell is skipped"},
		{3, "https://o.example/b"},
		{4},
	})

	olds, err := ReadOldURLs(path, DefaultColumn)
	require.NoError(t, err)

	// The header match is case insensitive, blanks are dropped and row
	// indices stay dense.
	require.Len(t, olds, 2)
	assert.Equal(t, 0, olds[0].Row)
	assert.Equal(t, "https://o.example/a", olds[0].Raw)
	assert.Equal(t, 1, olds[1].Row)
	assert.Equal(t, "https://o.example/b", olds[1].Raw)
	assert.Equal(t, []string{"b"}, olds[1].Segments)
}

func TestReadOldURLsFallsBackToFirstColumn(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"link", "note"},
		{"https://o.example/x", "no column is named url"},
	})

	olds, err := ReadOldURLs(path, DefaultColumn)
	require.NoError(t, err)

	require.Len(t, olds, 1)
	assert.Equal(t, "https://o.example/x", olds[0].Raw)
}

func TestReadOldURLsMissingFile(t *testing.T) {
	_, err := ReadOldURLs(filepath.Join(t.TempDir(), "absent.xlsx"), DefaultColumn)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open workbook")
}

func TestReadOldURLsEmptyWorkbook(t *testing.T) {
	path := writeWorkbook(t, nil)

	_, err := ReadOldURLs(path, DefaultColumn)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "has no rows")
}
