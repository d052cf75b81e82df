package legacy

import (
	"fmt"
	"io"

	"github.com/dmitrijs2005/surveykeeper/internal/models"
	"github.com/dmitrijs2005/surveykeeper/internal/survey"
	"github.com/xuri/excelize/v2"
)

// SheetName is the sheet pandas writes by default.
const SheetName = "Sheet1"

// ReadResponses parses the first sheet of a results workbook against schema.
// The header row maps columns by name. Rows that cannot be parsed are
// returned as errors in bad and left out of rows.
func ReadResponses(path string, schema *survey.Schema) (rows []*models.Response, bad []error, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%s has no sheets", path)
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}

	header := all[0]
	for i, cells := range all[1:] {
		if emptyRow(cells) {
			continue
		}
		r, err := schema.ParseRow(header, cells)
		if err != nil {
			bad = append(bad, fmt.Errorf("line %d: %w", i+2, err))
			continue
		}
		rows = append(rows, r)
	}
	return rows, bad, nil
}

func emptyRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

// WriteResponses replaces path with a workbook holding t on SheetName.
func WriteResponses(path string, t *survey.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}

	return writeAtomic(path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
}
