package dashboard

import (
	core "github.com/kovon-io/go-insights/components/dashboard"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Preferences re-export for embedding applications.
type Preferences = core.Preferences

// ViewerContext re-export for embedding applications.
type ViewerContext = core.ViewerContext

// DateRange re-export for embedding applications.
type DateRange = core.DateRange

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// NewRegistry proxies to the internal constructor.
func NewRegistry() *core.Registry {
	return core.NewRegistry()
}
