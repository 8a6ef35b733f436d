package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var (
	errMissingRegistry = errors.New("dashboard: card registry not configured")
	errInvalidCardCode = errors.New("dashboard: card code is required")

	// ErrUnknownCard rejects operations naming a code no definition carries.
	ErrUnknownCard = errors.New("dashboard: unknown card code")
)

// Options configures the dashboard Service. Every collaborator is provided
// via interface so applications can swap implementations without importing
// the gateway packages.
type Options struct {
	Registry    CardRegistry
	Preferences *PreferenceService
	Validator   ConfigValidator
	Telemetry   Telemetry
	Logger      *slog.Logger
}

// Service composes the personalized card grid. A viewer's stored selection
// is resolved against the registry; unknown codes are skipped, duplicate
// codes collapse to their first occurrence, and a failing provider fills
// its slot with an error instead of breaking the page.
type Service struct {
	opts Options
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Preferences == nil {
		opts.Preferences = NewPreferenceService(nil, nil)
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{opts: opts}
}

// Preferences exposes the preference service used for edits.
func (s *Service) Preferences() *PreferenceService {
	return s.opts.Preferences
}

// Registry exposes the card registry.
func (s *Service) Registry() CardRegistry {
	return s.opts.Registry
}

// ComposeRequest selects what to compose and for whom.
type ComposeRequest struct {
	Viewer ViewerContext
	Range  APIDateRange
	// Cards overrides the stored selection when non-nil. Used by previews.
	Cards []string
	// Config carries optional per-card configuration keyed by card code.
	Config map[string]map[string]any
}

// Compose resolves the viewer's selection into rendered cards.
func (s *Service) Compose(ctx context.Context, req ComposeRequest) ([]ComposedCard, error) {
	if s.opts.Registry == nil {
		return nil, errMissingRegistry
	}

	codes := req.Cards
	if codes == nil {
		codes = s.opts.Preferences.Load(ctx, req.Viewer.UserID).SelectedCards
	}

	seen := make(map[string]bool, len(codes))
	cards := make([]ComposedCard, 0, len(codes))
	for _, code := range codes {
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true

		def, ok := s.opts.Registry.Definition(code)
		if !ok {
			s.opts.Logger.Debug("skipping unknown card code", "code", code)
			continue
		}
		cards = append(cards, s.composeCard(ctx, def, req))
	}
	return cards, nil
}

func (s *Service) composeCard(ctx context.Context, def CardDefinition, req ComposeRequest) ComposedCard {
	card := ComposedCard{
		Code:     def.Code,
		Name:     def.Name,
		Category: def.Category,
	}

	provider, ok := s.opts.Registry.Provider(def.Code)
	if !ok {
		card.Err = "no provider registered"
		return card
	}

	cfg := req.Config[def.Code]
	if err := s.validateConfig(def, cfg); err != nil {
		card.Err = err.Error()
		return card
	}

	data, err := provider.Fetch(ctx, CardContext{
		Card:   def,
		Config: cfg,
		Range:  req.Range,
		Viewer: req.Viewer,
	})
	if err != nil {
		s.opts.Logger.Error("card provider failed",
			"code", def.Code, "error", err)
		s.opts.Telemetry.Record(ctx, "card.fetch_failed", map[string]any{
			"code": def.Code,
		})
		card.Err = err.Error()
		return card
	}
	card.Data = data
	return card
}

func (s *Service) validateConfig(def CardDefinition, cfg map[string]any) error {
	if s.opts.Validator == nil || def.Schema == nil {
		return nil
	}
	if err := s.opts.Validator.Validate(def, cfg); err != nil {
		return fmt.Errorf("card config invalid: %w", err)
	}
	return nil
}

// ToggleCard flips a card in the viewer's stored selection and persists the
// result. Unknown codes are rejected before the write.
func (s *Service) ToggleCard(ctx context.Context, viewer ViewerContext, code string) (Preferences, error) {
	if code == "" {
		return Preferences{}, errInvalidCardCode
	}
	if _, ok := s.opts.Registry.Definition(code); !ok {
		return Preferences{}, fmt.Errorf("%w %q", ErrUnknownCard, code)
	}
	prefs := ToggleCard(s.opts.Preferences.Load(ctx, viewer.UserID), code)
	if err := s.opts.Preferences.Save(ctx, viewer.UserID, prefs); err != nil {
		return Preferences{}, err
	}
	return prefs, nil
}
