package survey

import (
	"math"
	"slices"
	"sort"
	"strconv"

	"github.com/dmitrijs2005/surveykeeper/internal/models"
)

// Count is one slice of the pie chart.
type Count struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Axis is one spoke of the radar chart. Mine is the current user's score,
// nil when the user has not answered.
type Axis struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Group   string   `json:"group"`
	Mine    *float64 `json:"mine,omitempty"`
	Average float64  `json:"average"`
}

// Summary is what the results page draws.
type Summary struct {
	Variant string    `json:"variant"`
	Title   string    `json:"title"`
	Chart   ChartKind `json:"chart"`
	Total   int       `json:"total"`
	Counts  []Count   `json:"counts,omitempty"`
	Axes    []Axis    `json:"axes,omitempty"`
}

// Summarize aggregates the responses of the schema's variant. Pie charts
// count the choice values, most frequent first with ties in option order,
// and omit values nobody picked. Radar charts average each slider and pick
// out the row of the user identified by email.
func Summarize(s *Schema, rows []models.Response, email string) *Summary {
	sum := &Summary{Variant: s.Variant, Title: s.Title, Chart: s.Chart}

	own := make([]models.Response, 0, len(rows))
	for _, r := range rows {
		if r.Variant == s.Variant {
			own = append(own, r)
		}
	}
	sum.Total = len(own)

	switch s.Chart {
	case ChartPie:
		sum.Counts = countChoices(s.pieField(), own)
	case ChartRadar:
		sum.Axes = averageSliders(s, own, email)
	}
	return sum
}

func countChoices(f *Field, rows []models.Response) []Count {
	counts := map[string]int{}
	order := slices.Clone(f.Options)
	total := 0
	for _, r := range rows {
		v, ok := r.Answers[f.Name]
		if !ok || v == "" {
			continue
		}
		if _, known := counts[v]; !known && !slices.Contains(order, v) {
			order = append(order, v)
		}
		counts[v]++
		total++
	}

	result := make([]Count, 0, len(counts))
	for _, label := range order {
		n := counts[label]
		if n == 0 {
			continue
		}
		result = append(result, Count{Label: label, Count: n, Percent: round2(100 * float64(n) / float64(total))})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	return result
}

func averageSliders(s *Schema, rows []models.Response, email string) []Axis {
	var mine *models.Response
	for i := range rows {
		if rows[i].UserEmail == email && email != "" {
			mine = &rows[i]
			break
		}
	}

	axes := make([]Axis, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Type != FieldSlider {
			continue
		}
		axis := Axis{Name: f.Name, Label: f.Label, Group: f.Group}

		var total float64
		var n int
		for _, r := range rows {
			if v, err := strconv.ParseFloat(r.Answers[f.Name], 64); err == nil {
				total += v
				n++
			}
		}
		if n > 0 {
			axis.Average = round2(total / float64(n))
		}
		if mine != nil {
			if v, err := strconv.ParseFloat(mine.Answers[f.Name], 64); err == nil {
				axis.Mine = &v
			}
		}
		axes = append(axes, axis)
	}
	return axes
}

// CountsMap flattens the pie counts, e.g. {"Bon": 1}.
func (s *Summary) CountsMap() map[string]int {
	m := make(map[string]int, len(s.Counts))
	for _, c := range s.Counts {
		m[c.Label] = c.Count
	}
	return m
}

// AveragesMap flattens the radar averages by axis name.
func (s *Summary) AveragesMap() map[string]float64 {
	m := make(map[string]float64, len(s.Axes))
	for _, a := range s.Axes {
		m[a.Name] = a.Average
	}
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
