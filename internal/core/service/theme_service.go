package service

import (
	"context"
	"sync"

	"github.com/aishop/storefront/internal/core/ports"
)

// ThemeService holds the dark-mode preference and pushes it to the renderer.
type ThemeService struct {
	store   ports.ThemeStore
	applier ports.ThemeApplier

	mu   sync.Mutex
	dark bool
}

func NewThemeService(store ports.ThemeStore, applier ports.ThemeApplier) *ThemeService {
	return &ThemeService{store: store, applier: applier}
}

// Reload reads the stored preference and applies it.
func (t *ThemeService) Reload(ctx context.Context) {
	dark := t.store.DarkMode(ctx)
	t.mu.Lock()
	t.dark = dark
	t.mu.Unlock()
	t.applier.ApplyTheme(dark)
}

func (t *ThemeService) Set(ctx context.Context, dark bool) {
	t.mu.Lock()
	t.dark = dark
	t.mu.Unlock()
	t.store.SaveDarkMode(ctx, dark)
	t.applier.ApplyTheme(dark)
}

// Toggle flips the preference and returns the new value.
func (t *ThemeService) Toggle(ctx context.Context) bool {
	t.mu.Lock()
	dark := !t.dark
	t.mu.Unlock()
	t.Set(ctx, dark)
	return dark
}

func (t *ThemeService) Dark() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dark
}
