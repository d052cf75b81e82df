// Package survey describes questionnaires declaratively. A Schema lists the
// fields a respondent fills in; it validates submissions, lays out the
// legacy results table and summarises responses for the charts.
package survey

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.yaml
var schemaFS embed.FS

type FieldType string

const (
	FieldChoice FieldType = "choice"
	FieldSlider FieldType = "slider"
)

type ChartKind string

const (
	ChartPie   ChartKind = "pie"
	ChartRadar ChartKind = "radar"
)

// Profile columns that precede the survey fields in the results table.
const (
	ColumnName = "Nom"
	ColumnAge  = "Age"
	ColumnSex  = "Sexe"
)

type Field struct {
	Name     string    `yaml:"name"`
	Label    string    `yaml:"label"`
	Type     FieldType `yaml:"type"`
	Group    string    `yaml:"group"`
	Options  []string  `yaml:"options"`
	Min      int       `yaml:"min"`
	Max      int       `yaml:"max"`
	Default  int       `yaml:"default"`
	Required bool      `yaml:"required"`
}

// Comment is the free-text field that closes every survey. It is always required.
type Comment struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
}

type Schema struct {
	Variant string    `yaml:"variant"`
	Title   string    `yaml:"title"`
	Chart   ChartKind `yaml:"chart"`
	Fields  []Field   `yaml:"fields"`
	Comment Comment   `yaml:"comment"`
}

// Group is a run of consecutive fields sharing a group heading.
type Group struct {
	Title  string
	Fields []Field
}

// Parse decodes a YAML schema and checks it is usable.
func Parse(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("error decoding schema: %w", err)
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load returns one of the built-in schemas by variant name.
func Load(variant string) (*Schema, error) {
	data, err := schemaFS.ReadFile(path.Join("schemas", variant+".yaml"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("unknown survey variant %q", variant)
		}
		return nil, err
	}
	return Parse(data)
}

// Variants lists the built-in schema names.
func Variants() []string {
	entries, _ := fs.ReadDir(schemaFS, "schemas")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

func (s *Schema) check() error {
	if s.Variant == "" {
		return errors.New("schema: variant is required")
	}
	if s.Chart != ChartPie && s.Chart != ChartRadar {
		return fmt.Errorf("schema %s: unknown chart %q", s.Variant, s.Chart)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema %s: no fields", s.Variant)
	}
	if s.Comment.Name == "" {
		return fmt.Errorf("schema %s: comment name is required", s.Variant)
	}

	seen := map[string]bool{ColumnName: true, ColumnAge: true, ColumnSex: true, s.Comment.Name: true}
	for _, f := range s.Fields {
		if f.Name == "" || seen[f.Name] {
			return fmt.Errorf("schema %s: empty or duplicate field name %q", s.Variant, f.Name)
		}
		seen[f.Name] = true

		switch f.Type {
		case FieldChoice:
			if len(f.Options) == 0 {
				return fmt.Errorf("schema %s: choice %s has no options", s.Variant, f.Name)
			}
		case FieldSlider:
			if f.Min >= f.Max || f.Default < f.Min || f.Default > f.Max {
				return fmt.Errorf("schema %s: slider %s has an invalid range", s.Variant, f.Name)
			}
		default:
			return fmt.Errorf("schema %s: field %s has unknown type %q", s.Variant, f.Name, f.Type)
		}
	}
	if s.Chart == ChartPie && s.pieField() == nil {
		return fmt.Errorf("schema %s: pie chart needs a choice field", s.Variant)
	}
	return nil
}

// Columns is the header of the results table: profile columns, the fields
// in declaration order, then the comment.
func (s *Schema) Columns() []string {
	cols := []string{ColumnName, ColumnAge, ColumnSex}
	for _, f := range s.Fields {
		cols = append(cols, f.Name)
	}
	return append(cols, s.Comment.Name)
}

// Groups splits the fields by consecutive group headings for rendering.
func (s *Schema) Groups() []Group {
	var groups []Group
	for _, f := range s.Fields {
		if len(groups) == 0 || groups[len(groups)-1].Title != f.Group {
			groups = append(groups, Group{Title: f.Group})
		}
		last := &groups[len(groups)-1]
		last.Fields = append(last.Fields, f)
	}
	return groups
}

// Field looks a field up by name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// pieField is the choice field counted by the pie chart.
func (s *Schema) pieField() *Field {
	for i := range s.Fields {
		if s.Fields[i].Type == FieldChoice {
			return &s.Fields[i]
		}
	}
	return nil
}
