// Package navigation tracks the view the UI should be showing. Hosts
// subscribe to route changes and render accordingly.
package navigation

import (
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aishop/storefront/internal/core/domain"
)

// Navigator records the current route and notifies listeners on change.
type Navigator struct {
	log zerolog.Logger

	mu        sync.RWMutex
	current   domain.Route
	history   []domain.Route
	listeners []func(domain.Route)
}

func New(log zerolog.Logger) *Navigator {
	return &Navigator{
		log:     log.With().Str("component", "navigator").Logger(),
		current: domain.RouteHome,
	}
}

// Navigate moves to route. Listeners run outside the lock, in registration order.
func (n *Navigator) Navigate(route domain.Route) {
	n.mu.Lock()
	n.history = append(n.history, route)
	n.current = route
	listeners := slices.Clone(n.listeners)
	n.mu.Unlock()

	n.log.Debug().Str("route", string(route)).Msg("navigate")
	for _, fn := range listeners {
		fn(route)
	}
}

// Current returns the route last navigated to.
func (n *Navigator) Current() domain.Route {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// History returns every route navigated to, oldest first.
func (n *Navigator) History() []domain.Route {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]domain.Route(nil), n.history...)
}

// Subscribe registers fn for future navigations.
func (n *Navigator) Subscribe(fn func(domain.Route)) {
	n.mu.Lock()
	n.listeners = append(n.listeners, fn)
	n.mu.Unlock()
}
