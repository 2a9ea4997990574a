package navigation

import (
	"sync"

	"github.com/rs/zerolog"
)

// Theme attribute values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Document holds the document-wide theme attribute a renderer reads.
type Document struct {
	log zerolog.Logger

	mu    sync.RWMutex
	theme string
}

func NewDocument(log zerolog.Logger) *Document {
	return &Document{
		log:   log.With().Str("component", "document").Logger(),
		theme: ThemeLight,
	}
}

func (d *Document) ApplyTheme(dark bool) {
	theme := ThemeLight
	if dark {
		theme = ThemeDark
	}
	d.mu.Lock()
	d.theme = theme
	d.mu.Unlock()
	d.log.Debug().Str("theme", theme).Msg("theme applied")
}

// Theme returns the current attribute value.
func (d *Document) Theme() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.theme
}
