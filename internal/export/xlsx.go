package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/docgrab/docgrab/internal/extract"
)

// XLSXFilename is the download name for the workbook export.
const XLSXFilename = "extracted_content.xlsx"

// XLSX builds a workbook with the extracted text on the first sheet and
// one sheet per table.
func XLSX(res extract.Result) ([]byte, error) {
	f := excelize.NewFile()

	const textSheet = "Text"
	if err := f.SetSheetName("Sheet1", textSheet); err != nil {
		return nil, err
	}
	for i, line := range strings.Split(res.Text, "\n") {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		_ = f.SetCellValue(textSheet, cell, line)
	}
	_ = f.SetColWidth(textSheet, "A", "A", 100)

	used := map[string]bool{textSheet: true}
	for i, t := range res.Tables {
		name := sheetName(t.Title, i, used)
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
		for rIdx, row := range t.Data {
			for cIdx, val := range row {
				cell, _ := excelize.CoordinatesToCellName(cIdx+1, rIdx+1)
				_ = f.SetCellValue(name, cell, val)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

var badSheetChars = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ")

// sheetName makes a table title safe for Excel's sheet-name rules
// (31 chars, restricted charset, unique within the workbook).
func sheetName(title string, idx int, used map[string]bool) string {
	name := strings.TrimSpace(badSheetChars.Replace(title))
	if name == "" {
		name = fmt.Sprintf("Table %d", idx+1)
	}
	if len(name) > 31 {
		name = name[:31]
	}
	if used[name] {
		name = fmt.Sprintf("Table %d", idx+1)
	}
	used[name] = true
	return name
}
