package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"path"
	"sync"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "layout.html"

// TemplateCache holds parsed templates
type TemplateCache struct {
	cache map[string]*template.Template
	mu    sync.RWMutex
	funcs template.FuncMap
}

// NewTemplateCache returns a cache with the helpers every page may use.
func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		cache: make(map[string]*template.Template),
		funcs: template.FuncMap{
			"prevPage": func(currentPage int) int {
				return currentPage - 1
			},
			"nextPage": func(currentPage int) int {
				return currentPage + 1
			},
			"money": func(v float64) string {
				return fmt.Sprintf("$%.2f", v)
			},
		},
	}
}

// LoadEmbedded parses the templates compiled into the binary.
func (tc *TemplateCache) LoadEmbedded() error {
	return tc.Load(templateFS, "templates")
}

// Load parses every page in dir together with the shared layout.
func (tc *TemplateCache) Load(fsys fs.FS, dir string) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	files, err := fs.Glob(fsys, path.Join(dir, "*.html"))
	if err != nil {
		return err
	}
	layout := path.Join(dir, layoutFile)
	for _, file := range files {
		name := path.Base(file)
		if name == layoutFile {
			continue
		}
		tmpl, err := template.New(name).Funcs(tc.funcs).ParseFS(fsys, layout, file)
		if err != nil {
			slog.Error("Failed to parse template", "file", file, "error", err)
			return err
		}
		tc.cache[name] = tmpl
		slog.Debug("Cached template", "name", name)
	}
	return nil
}

func (tc *TemplateCache) Get(name string) *template.Template {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.cache[name]
}
