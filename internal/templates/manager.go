// Package templates renders the embeddable HTML cards the widget shows.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/theLastOfCats/ficbox/internal/model"
)

//go:embed cards/*.html
var cardFS embed.FS

var funcs = template.FuncMap{
	"ratingLabel": func(r model.Rating) string {
		return model.Ratings[r].Description
	},
	// meter draws a 0-5 score as filled and empty dots.
	"meter": func(n int) string {
		n = min(max(n, 0), model.MaxScore)
		return strings.Repeat("●", n) + strings.Repeat("○", model.MaxScore-n)
	},
}

// Manager parses card templates lazily and caches them.
type Manager struct {
	mu    sync.Mutex
	cache map[string]*template.Template
}

func NewManager() *Manager {
	return &Manager{cache: make(map[string]*template.Template)}
}

func (m *Manager) lookup(name string) (*template.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tmpl, ok := m.cache[name]; ok {
		return tmpl, nil
	}
	tmpl, err := template.New(name).Funcs(funcs).ParseFS(cardFS, "cards/"+name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	m.cache[name] = tmpl
	return tmpl, nil
}

func (m *Manager) Render(name string, data any) (string, error) {
	tmpl, err := m.lookup(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// CardData is what fic.html and empty.html expect.
type CardData struct {
	Fic    *model.Fic
	Status model.ReadingStatus
	Mood   model.Mood
}

// RenderCard renders the fic card, or the empty-box card when data.Fic is nil.
func (m *Manager) RenderCard(data CardData) (string, error) {
	if data.Fic == nil {
		return m.Render("empty.html", data)
	}
	return m.Render("fic.html", data)
}
