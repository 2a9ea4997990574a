package ports

import "github.com/aishop/storefront/internal/core/domain"

// Navigator moves the UI to a route.
type Navigator interface {
	Navigate(route domain.Route)
}

// ThemeApplier applies the dark/light flag document-wide.
type ThemeApplier interface {
	ApplyTheme(dark bool)
}
