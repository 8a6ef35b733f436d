package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

const fallbackKeyPrefix = "dashboardPrefs_"

var errMissingUserID = errors.New("dashboard: preference operation requires a user id")

// FallbackKey derives the local-store key for a user's preferences.
func FallbackKey(userID string) string {
	return fallbackKeyPrefix + userID
}

// PreferenceService resolves and persists per-user card selections. Loads
// try the remote gateway first, then the local fallback store, then default
// to an empty selection. Saves that cannot reach the gateway are mirrored to
// the fallback and still reported as successful so the editing flow never
// surfaces a persistence error to the viewer.
type PreferenceService struct {
	gateway   PreferenceGateway
	fallback  PreferenceFallback
	telemetry Telemetry
	logger    *slog.Logger
}

// PreferenceServiceOption customizes the service.
type PreferenceServiceOption func(*PreferenceService)

// WithPreferenceTelemetry attaches a telemetry sink.
func WithPreferenceTelemetry(t Telemetry) PreferenceServiceOption {
	return func(s *PreferenceService) {
		s.telemetry = t
	}
}

// WithPreferenceLogger attaches a structured logger.
func WithPreferenceLogger(logger *slog.Logger) PreferenceServiceOption {
	return func(s *PreferenceService) {
		s.logger = logger
	}
}

// NewPreferenceService builds a service over the given gateway and fallback.
// Either may be nil; a nil gateway makes every load hit the fallback, a nil
// fallback drops the mirroring step.
func NewPreferenceService(gateway PreferenceGateway, fallback PreferenceFallback, options ...PreferenceServiceOption) *PreferenceService {
	s := &PreferenceService{
		gateway:  gateway,
		fallback: fallback,
		logger:   slog.Default(),
	}
	for _, opt := range options {
		opt(s)
	}
	s.telemetry = normalizeTelemetry(s.telemetry)
	return s
}

// Load resolves the user's preferences through the gateway/fallback chain.
// It never fails: any error along the chain degrades to the next source and
// ultimately to an empty selection.
func (s *PreferenceService) Load(ctx context.Context, userID string) Preferences {
	if userID == "" {
		return Preferences{SelectedCards: []string{}}
	}
	if s.gateway != nil {
		prefs, err := s.gateway.FetchPreferences(ctx, userID)
		if err == nil {
			return normalizePreferences(prefs)
		}
		s.logger.Warn("preference gateway load failed, trying fallback",
			"user_id", userID, "error", err)
	}
	if s.fallback != nil {
		prefs, ok, err := s.fallback.Preferences(ctx, FallbackKey(userID))
		if err != nil {
			s.logger.Warn("preference fallback load failed",
				"user_id", userID, "error", err)
		} else if ok {
			return normalizePreferences(prefs)
		}
	}
	return Preferences{SelectedCards: []string{}}
}

// Save persists the selection. Gateway failures (errors or a false ack) are
// absorbed: the selection is mirrored to the fallback store and the call
// still returns nil, with a telemetry event marking the degraded write.
func (s *PreferenceService) Save(ctx context.Context, userID string, prefs Preferences) error {
	if userID == "" {
		return errMissingUserID
	}
	prefs = normalizePreferences(prefs)

	if s.gateway != nil {
		ack, err := s.gateway.SavePreferences(ctx, userID, prefs)
		if err == nil && ack {
			s.telemetry.Record(ctx, EventPreferencesSaved, map[string]any{
				"user_id": userID,
				"cards":   len(prefs.SelectedCards),
			})
			s.mirror(ctx, userID, prefs)
			return nil
		}
		if err != nil {
			s.logger.Warn("preference gateway save failed, using fallback",
				"user_id", userID, "error", err)
		} else {
			s.logger.Warn("preference gateway rejected save, using fallback",
				"user_id", userID)
		}
	}

	s.mirror(ctx, userID, prefs)
	s.telemetry.Record(ctx, EventPreferencesSaveFellBack, map[string]any{
		"user_id": userID,
		"cards":   len(prefs.SelectedCards),
	})
	return nil
}

func (s *PreferenceService) mirror(ctx context.Context, userID string, prefs Preferences) {
	if s.fallback == nil {
		return
	}
	if err := s.fallback.SavePreferences(ctx, FallbackKey(userID), prefs); err != nil {
		s.logger.Warn("preference fallback save failed",
			"user_id", userID, "error", err)
	}
}

func normalizePreferences(prefs Preferences) Preferences {
	if prefs.SelectedCards == nil {
		prefs.SelectedCards = []string{}
	}
	return prefs
}

// ToggleCard flips a card's membership in the selection: present cards are
// filtered out, absent cards are appended at the end.
func ToggleCard(prefs Preferences, code string) Preferences {
	out := make([]string, 0, len(prefs.SelectedCards)+1)
	found := false
	for _, c := range prefs.SelectedCards {
		if c == code {
			found = true
			continue
		}
		out = append(out, c)
	}
	if !found {
		out = append(out, code)
	}
	return Preferences{SelectedCards: out}
}

// EditSession is a pending, uncommitted edit of a user's selection. Toggles
// accumulate in memory; Commit persists them through the service, Cancel
// discards them and leaves the stored selection untouched.
type EditSession struct {
	service *PreferenceService
	userID  string

	mu      sync.Mutex
	pending Preferences
}

// BeginEdit opens an edit session seeded from the stored selection.
func (s *PreferenceService) BeginEdit(ctx context.Context, userID string) *EditSession {
	return &EditSession{
		service: s,
		userID:  userID,
		pending: s.Load(ctx, userID),
	}
}

// Toggle flips a card in the pending selection.
func (e *EditSession) Toggle(code string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = ToggleCard(e.pending, code)
}

// Selected returns a copy of the pending selection.
func (e *EditSession) Selected() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.pending.SelectedCards...)
}

// Commit persists the pending selection.
func (e *EditSession) Commit(ctx context.Context) error {
	e.mu.Lock()
	prefs := normalizePreferences(e.pending)
	e.mu.Unlock()
	return e.service.Save(ctx, e.userID, prefs)
}

// Cancel reloads the stored selection, discarding pending toggles.
func (e *EditSession) Cancel(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = e.service.Load(ctx, e.userID)
}

// InMemoryPreferenceFallback is a concurrency-safe fallback store used in
// tests and single-process deployments.
type InMemoryPreferenceFallback struct {
	mu   sync.RWMutex
	data map[string]Preferences
}

// NewInMemoryPreferenceFallback creates an empty fallback store.
func NewInMemoryPreferenceFallback() *InMemoryPreferenceFallback {
	return &InMemoryPreferenceFallback{data: make(map[string]Preferences)}
}

// Preferences returns the stored selection for a key, if any.
func (s *InMemoryPreferenceFallback) Preferences(_ context.Context, key string) (Preferences, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefs, ok := s.data[key]
	return prefs, ok, nil
}

// SavePreferences stores the selection under a key.
func (s *InMemoryPreferenceFallback) SavePreferences(_ context.Context, key string, prefs Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = normalizePreferences(prefs)
	return nil
}
