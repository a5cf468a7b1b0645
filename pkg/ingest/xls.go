package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
)

// maxSpreadsheetRows bounds how much of a workbook is read; bank exports
// are far smaller than this.
const maxSpreadsheetRows = 4000

// rowsFromXLS reads a legacy .xls statement into rows and a reconstructed
// semicolon-delimited text. Banks ship these workbooks in cp1252. The text
// rendering only exists so the file content hash covers the same data the
// parser sees; the rows skip the tokenizer entirely. Blank rows are
// dropped with the same rule the tokenizer applies, keeping row numbering
// consistent across both intake paths.
func rowsFromXLS(data []byte) ([][]string, string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, "", fmt.Errorf("error opening workbook: %w", err)
	}

	cells := workbook.ReadAllCells(maxSpreadsheetRows)

	var rows [][]string
	var lines []string
	for _, row := range cells {
		blank := true
		for _, value := range row {
			if value != "" {
				blank = false
				break
			}
		}
		if blank {
			continue
		}
		rows = append(rows, row)
		lines = append(lines, strings.Join(row, ";"))
	}

	return rows, strings.Join(lines, "\n"), nil
}
