package survey

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/surveykeeper/internal/models"
)

// Table is the results sheet: a header row and one row per response.
// Cells hold strings, except Age and slider scores which are ints.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Table lays the responses out under Columns.
func (s *Schema) Table(responses []models.Response) *Table {
	t := &Table{Columns: s.Columns(), Rows: make([][]any, 0, len(responses))}
	for _, r := range responses {
		row := []any{r.Name, r.Age, string(r.Sex)}
		for _, f := range s.Fields {
			v := r.Answers[f.Name]
			if f.Type == FieldSlider {
				if n, err := strconv.Atoi(v); err == nil {
					row = append(row, n)
					continue
				}
			}
			row = append(row, v)
		}
		row = append(row, r.Comment)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ParseRow turns one spreadsheet row back into a response. header gives the
// column of each cell, so column order in the file does not matter. The
// author's email is left for the caller to resolve.
func (s *Schema) ParseRow(header, cells []string) (*models.Response, error) {
	value := func(col string) string {
		for i, h := range header {
			if strings.TrimSpace(h) == col && i < len(cells) {
				return strings.TrimSpace(cells[i])
			}
		}
		return ""
	}

	r := &models.Response{
		Name:    value(ColumnName),
		Sex:     models.Sex(value(ColumnSex)),
		Variant: s.Variant,
		Answers: make(map[string]string, len(s.Fields)),
		Comment: value(s.Comment.Name),
	}
	if r.Name == "" {
		return nil, fmt.Errorf("row without %s", ColumnName)
	}

	age, err := parseNumber(value(ColumnAge))
	if err != nil {
		return nil, fmt.Errorf("row %s: bad %s: %w", r.Name, ColumnAge, err)
	}
	r.Age = age

	for _, f := range s.Fields {
		v := value(f.Name)
		if f.Type == FieldSlider && v != "" {
			n, err := parseNumber(v)
			if err != nil {
				return nil, fmt.Errorf("row %s: bad %s: %w", r.Name, f.Name, err)
			}
			v = strconv.Itoa(n)
		}
		r.Answers[f.Name] = v
	}
	return r, nil
}

// parseNumber accepts "30" as well as "30.0", which spreadsheets produce.
func parseNumber(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
