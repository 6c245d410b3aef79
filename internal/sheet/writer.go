package sheet

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/aghaapesar/match-url-ai/internal/match"
)

var outputHeader = []string{
	"old_url", "old_segment", "best_new_url", "new_segment", "is_category_page",
	"confidence", "low_confidence", "rationale", "candidates",
	"source_dup_of", "dest_dup_of",
}

// Row fill colors, one per reportable condition.
const (
	fillSourceDup = "FFC7CE"
	fillDestDup   = "FFFFE0"
	fillLowConf   = "FFE5CC"
)

// Write renders the results into a styled workbook at path. Duplicate
// references are serialized as spreadsheet row numbers (data starts at row
// 2) so a reviewer can jump to the first occurrence directly. Whole rows
// are filled red for duplicate sources, yellow for duplicate destinations
// and orange for low-confidence matches.
func Write(path string, results []match.MatchResult) error {
	f := excelize.NewFile()
	defer f.Close()
	sheetName := f.GetSheetName(0)

	header := make([]interface{}, len(outputHeader))
	for i, h := range outputHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	styles, err := newRowStyles(f)
	if err != nil {
		return err
	}

	for i, r := range results {
		rowNum := i + 2
		first, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", rowNum, err)
		}
		values := []interface{}{
			r.OldURL,
			r.OldSegment,
			r.BestNewURL,
			r.NewSegment,
			r.IsCategory,
			r.Confidence,
			r.LowConfidence,
			r.Rationale,
			serializeCandidates(r.Candidates),
			dupRef(r.SourceDupOf),
			dupRef(r.DestDupOf),
		}
		if err := f.SetSheetRow(sheetName, first, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rowNum, err)
		}

		if styleID, ok := styles[r.Class()]; ok {
			last, err := excelize.CoordinatesToCellName(len(outputHeader), rowNum)
			if err != nil {
				return fmt.Errorf("failed to address row %d: %w", rowNum, err)
			}
			if err := f.SetCellStyle(sheetName, first, last, styleID); err != nil {
				return fmt.Errorf("failed to style row %d: %w", rowNum, err)
			}
		}
	}

	// Generous widths for the URL and rationale columns.
	_ = f.SetColWidth(sheetName, "A", "A", 50)
	_ = f.SetColWidth(sheetName, "C", "C", 50)
	_ = f.SetColWidth(sheetName, "H", "I", 60)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook '%s': %w", path, err)
	}
	return nil
}

func newRowStyles(f *excelize.File) (map[match.RowClass]int, error) {
	styles := make(map[match.RowClass]int)
	for class, color := range map[match.RowClass]string{
		match.ClassSourceDup:     fillSourceDup,
		match.ClassDestDup:       fillDestDup,
		match.ClassLowConfidence: fillLowConf,
	} {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build row style: %w", err)
		}
		styles[class] = id
	}
	return styles, nil
}

// dupRef serializes an internal row index as a spreadsheet row number, or
// an empty cell for rows without a duplicate reference.
func dupRef(idx int) interface{} {
	if idx < 0 {
		return ""
	}
	return strconv.Itoa(idx + 2)
}

func serializeCandidates(candidates []string) string {
	if candidates == nil {
		candidates = []string{}
	}
	data, err := json.Marshal(candidates)
	if err != nil {
		return "[]"
	}
	return string(data)
}
