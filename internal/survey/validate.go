package survey

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
)

// Answers maps field names to their normalised values.
type Answers map[string]string

// ValidationError names the field that was rejected. It matches
// common.ErrorValidation with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return common.ErrorValidation
}

// Validate checks raw form values keyed by field name and returns the
// normalised answers and the comment. Values are trimmed first, so blank
// input counts as missing.
func (s *Schema) Validate(raw map[string]string) (Answers, string, error) {
	answers := make(Answers, len(s.Fields))

	for _, f := range s.Fields {
		v := strings.TrimSpace(raw[f.Name])
		if v == "" {
			if f.Required {
				return nil, "", &ValidationError{Field: f.Label, Reason: "is required"}
			}
			continue
		}

		switch f.Type {
		case FieldChoice:
			if !slices.Contains(f.Options, v) {
				return nil, "", &ValidationError{Field: f.Label, Reason: fmt.Sprintf("%q is not an option", v)}
			}
		case FieldSlider:
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, "", &ValidationError{Field: f.Label, Reason: "must be a whole number"}
			}
			if n < f.Min || n > f.Max {
				return nil, "", &ValidationError{Field: f.Label, Reason: fmt.Sprintf("must be between %d and %d", f.Min, f.Max)}
			}
			v = strconv.Itoa(n)
		}
		answers[f.Name] = v
	}

	comment := strings.TrimSpace(raw[s.Comment.Name])
	if comment == "" {
		return nil, "", &ValidationError{Field: s.Comment.Label, Reason: "is required"}
	}

	return answers, comment, nil
}

// Defaults returns the initial form values: slider defaults, blanks elsewhere.
func (s *Schema) Defaults() map[string]string {
	values := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		if f.Type == FieldSlider {
			values[f.Name] = strconv.Itoa(f.Default)
		}
	}
	return values
}
