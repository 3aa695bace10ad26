package intake

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// WorkbookOptions configures the batch intake reader.
type WorkbookOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// ReadWorkbook reads an XLSX workbook of intake submissions: the first row
// holds field names (matched against the alias table as-is), every following
// row becomes one Record. Blank rows are skipped.
func ReadWorkbook(path string, opts WorkbookOptions) ([]Record, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "intake: open workbook")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	if len(sheet.Rows) < 2 {
		return nil, eris.New("intake: workbook needs a header row and at least one intake row")
	}

	header := rowToStrings(sheet.Rows[0])

	var records []Record
	for _, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		rec := make(Record, len(header))
		blank := true
		for i, key := range header {
			if key == "" || i >= len(cells) {
				continue
			}
			val := strings.TrimSpace(cells[i])
			if val == "" {
				continue
			}
			rec[key] = val
			blank = false
		}
		if !blank {
			records = append(records, rec)
		}
	}

	return records, nil
}

func getSheet(f *xlsx.File, opts WorkbookOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("intake: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("intake: sheet index %d out of range (workbook has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		cells[i] = strings.TrimSpace(c.String())
	}
	return cells
}
