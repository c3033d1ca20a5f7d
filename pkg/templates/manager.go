package templates

import (
	"fmt"
	"io"
	"io/fs"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/selivandex/newslens/pkg/logger"
)

// Renderer interface for template rendering (for dependency injection)
type Renderer interface {
	Render(w io.Writer, name string, data any) error
	TemplateExists(name string) bool
}

// Manager holds a parsed set of text templates
type Manager struct {
	templates *template.Template
}

// GetDefaultFuncMap returns common template helper functions
func GetDefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"float": func(val interface{}) float64 {
			switch v := val.(type) {
			case float64:
				return v
			case int:
				return float64(v)
			default:
				if dec, ok := val.(interface{ InexactFloat64() float64 }); ok {
					return dec.InexactFloat64()
				}
				return 0
			}
		},
		"mul": func(a, b float64) float64 {
			return a * b
		},
		"pct": func(part, total int) float64 {
			if total == 0 {
				return 0
			}
			return float64(part) * 100 / float64(total)
		},
		"add": func(a, b int) int {
			return a + b
		},
		"printf": fmt.Sprintf,
		"join":   strings.Join,
	}
}

// NewManager parses every template in fsys matching the patterns
func NewManager(fsys fs.FS, patterns ...string) (*Manager, error) {
	tmpl, err := template.New("root").Funcs(GetDefaultFuncMap()).ParseFS(fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	logger.Debug("templates loaded", zap.Int("count", len(tmpl.Templates())-1))

	return &Manager{templates: tmpl}, nil
}

// Render executes the named template into w
func (m *Manager) Render(w io.Writer, name string, data any) error {
	tmpl := m.templates.Lookup(name)
	if tmpl == nil {
		return fmt.Errorf("template %s not found", name)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return nil
}

// TemplateExists checks if template exists
func (m *Manager) TemplateExists(name string) bool {
	return m.templates.Lookup(name) != nil
}
