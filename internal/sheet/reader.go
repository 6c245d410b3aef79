package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aghaapesar/match-url-ai/internal/match"
)

// DefaultColumn is the header name the reader looks for in the input sheet.
const DefaultColumn = "url"

// ReadOldURLs loads the legacy URLs from the first sheet of an xlsx file.
// The first row is treated as a header; the column named like column (case
// insensitive) is used, falling back to the first column when no header
// matches. Blank cells are skipped, and row indices are assigned densely in
// sheet order.
func ReadOldURLs(path string, column string) ([]match.OldURL, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook '%s': %w", path, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet '%s': %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook '%s' has no rows", path)
	}

	colIdx := 0
	for i, h := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(h), column) {
			colIdx = i
			break
		}
	}

	var olds []match.OldURL
	for _, row := range rows[1:] {
		if colIdx >= len(row) {
			continue
		}
		raw := strings.TrimSpace(row[colIdx])
		if raw == "" {
			continue
		}
		olds = append(olds, match.NewOldURL(len(olds), raw))
	}
	return olds, nil
}
