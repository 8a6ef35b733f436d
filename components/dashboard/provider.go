package dashboard

import "context"

// Provider fetches the data required to render one card.
type Provider interface {
	Fetch(ctx context.Context, meta CardContext) (CardData, error)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(ctx context.Context, meta CardContext) (CardData, error)

// Fetch implements Provider.
func (f ProviderFunc) Fetch(ctx context.Context, meta CardContext) (CardData, error) {
	return f(ctx, meta)
}

// CardContext contains the metadata available to providers.
type CardContext struct {
	Card   CardDefinition
	Config map[string]any
	Range  APIDateRange
	Viewer ViewerContext
}

// CardData is an opaque payload handed to the rendering layer.
type CardData map[string]any
