package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"deref": func(v *float64) float64 {
		if v == nil {
			return 0
		}
		return *v
	},
}

// PageRenderer renders web pages through a set of templates sharing one layout.
type PageRenderer struct {
	templates map[string]*template.Template
}

// NewPageRenderer parses every page of fsys together with layout.html.
func NewPageRenderer(fsys fs.FS, pages ...string) (*PageRenderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		t, err := template.New(p).Funcs(templateFuncs).ParseFS(fsys, "templates/layout.html", "templates/"+p)
		if err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", p, err)
		}
		templates[p] = t
	}
	return &PageRenderer{templates: templates}, nil
}

// RenderTemplate executes the layout of page name.
func (pr *PageRenderer) RenderTemplate(wr io.Writer, name string, data any) error {
	if t, ok := pr.templates[name]; ok {
		return t.ExecuteTemplate(wr, "layout", data)
	}
	return fmt.Errorf("template is missing {%s}", name)
}
