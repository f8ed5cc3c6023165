package handler

import (
	"fmt"
	"html/template"
	"io/fs"
)

const baseTemplate = "base.html"

func humanSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// ParseTemplates parses every page of fsys together with the base layout, keyed by file name.
func ParseTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	pages, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, err
	}

	templates := make(map[string]*template.Template)
	for _, page := range pages {
		if page == baseTemplate {
			continue
		}
		tmpl, err := template.New(baseTemplate).Funcs(template.FuncMap{
			"humanSize": humanSize,
		}).ParseFS(fsys, baseTemplate, page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		templates[page] = tmpl
	}
	return templates, nil
}
