package dashboard

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type fakePreferenceGateway struct {
	stored   map[string]Preferences
	fetchErr error
	saveErr  error
	saveAck  bool
}

func newFakePreferenceGateway() *fakePreferenceGateway {
	return &fakePreferenceGateway{stored: map[string]Preferences{}, saveAck: true}
}

func (g *fakePreferenceGateway) FetchPreferences(_ context.Context, userID string) (Preferences, error) {
	if g.fetchErr != nil {
		return Preferences{}, g.fetchErr
	}
	return g.stored[userID], nil
}

func (g *fakePreferenceGateway) SavePreferences(_ context.Context, userID string, prefs Preferences) (bool, error) {
	if g.saveErr != nil {
		return false, g.saveErr
	}
	if g.saveAck {
		g.stored[userID] = prefs
	}
	return g.saveAck, nil
}

func TestFallbackKey(t *testing.T) {
	if got := FallbackKey("user-1"); got != "dashboardPrefs_user-1" {
		t.Fatalf("unexpected fallback key %q", got)
	}
}

func TestToggleCardAddsAndRemoves(t *testing.T) {
	prefs := Preferences{SelectedCards: []string{CardTotalJobs, CardTopCountries}}

	prefs = ToggleCard(prefs, CardUsersTrend)
	want := []string{CardTotalJobs, CardTopCountries, CardUsersTrend}
	if !reflect.DeepEqual(prefs.SelectedCards, want) {
		t.Fatalf("expected append at end, got %v", prefs.SelectedCards)
	}

	prefs = ToggleCard(prefs, CardTotalJobs)
	want = []string{CardTopCountries, CardUsersTrend}
	if !reflect.DeepEqual(prefs.SelectedCards, want) {
		t.Fatalf("expected removal preserving order, got %v", prefs.SelectedCards)
	}
}

func TestLoadPrefersGateway(t *testing.T) {
	gateway := newFakePreferenceGateway()
	gateway.stored["user-1"] = Preferences{SelectedCards: []string{CardTotalJobs}}
	fallback := NewInMemoryPreferenceFallback()
	_ = fallback.SavePreferences(context.Background(), FallbackKey("user-1"), Preferences{SelectedCards: []string{CardTotalTickets}})

	svc := NewPreferenceService(gateway, fallback, WithPreferenceLogger(discardLogger()))
	prefs := svc.Load(context.Background(), "user-1")
	if !reflect.DeepEqual(prefs.SelectedCards, []string{CardTotalJobs}) {
		t.Fatalf("expected gateway preferences, got %v", prefs.SelectedCards)
	}
}

func TestLoadFallsBackToLocalStore(t *testing.T) {
	gateway := newFakePreferenceGateway()
	gateway.fetchErr = errors.New("gateway unreachable")
	fallback := NewInMemoryPreferenceFallback()
	_ = fallback.SavePreferences(context.Background(), FallbackKey("user-1"), Preferences{SelectedCards: []string{CardTotalTickets}})

	svc := NewPreferenceService(gateway, fallback, WithPreferenceLogger(discardLogger()))
	prefs := svc.Load(context.Background(), "user-1")
	if !reflect.DeepEqual(prefs.SelectedCards, []string{CardTotalTickets}) {
		t.Fatalf("expected fallback preferences, got %v", prefs.SelectedCards)
	}
}

func TestLoadDefaultsToEmptySelection(t *testing.T) {
	gateway := newFakePreferenceGateway()
	gateway.fetchErr = errors.New("gateway unreachable")

	svc := NewPreferenceService(gateway, NewInMemoryPreferenceFallback(), WithPreferenceLogger(discardLogger()))
	prefs := svc.Load(context.Background(), "user-unknown")
	if prefs.SelectedCards == nil || len(prefs.SelectedCards) != 0 {
		t.Fatalf("expected empty non-nil selection, got %#v", prefs.SelectedCards)
	}
}

func TestSaveAbsorbsGatewayFailure(t *testing.T) {
	gateway := newFakePreferenceGateway()
	gateway.saveErr = errors.New("gateway unreachable")
	fallback := NewInMemoryPreferenceFallback()

	svc := NewPreferenceService(gateway, fallback, WithPreferenceLogger(discardLogger()))
	prefs := Preferences{SelectedCards: []string{CardTopCountries}}
	if err := svc.Save(context.Background(), "user-1", prefs); err != nil {
		t.Fatalf("expected silent fallback, got %v", err)
	}

	// A later load, with the gateway still down, sees the mirrored copy.
	gateway.fetchErr = errors.New("gateway unreachable")
	loaded := svc.Load(context.Background(), "user-1")
	if !reflect.DeepEqual(loaded.SelectedCards, []string{CardTopCountries}) {
		t.Fatalf("expected mirrored selection, got %v", loaded.SelectedCards)
	}
}

func TestSaveTreatsFalseAckAsFailure(t *testing.T) {
	gateway := newFakePreferenceGateway()
	gateway.saveAck = false
	fallback := NewInMemoryPreferenceFallback()

	svc := NewPreferenceService(gateway, fallback, WithPreferenceLogger(discardLogger()))
	if err := svc.Save(context.Background(), "user-1", Preferences{SelectedCards: []string{CardTotalJobs}}); err != nil {
		t.Fatalf("expected silent fallback on rejected save, got %v", err)
	}
	stored, ok, _ := fallback.Preferences(context.Background(), FallbackKey("user-1"))
	if !ok || !reflect.DeepEqual(stored.SelectedCards, []string{CardTotalJobs}) {
		t.Fatalf("expected fallback mirror, got %#v ok=%v", stored, ok)
	}
}

func TestSaveRequiresUserID(t *testing.T) {
	svc := NewPreferenceService(nil, nil, WithPreferenceLogger(discardLogger()))
	if err := svc.Save(context.Background(), "", Preferences{}); !errors.Is(err, errMissingUserID) {
		t.Fatalf("expected errMissingUserID, got %v", err)
	}
}

func TestEditSessionCommitAndCancel(t *testing.T) {
	gateway := newFakePreferenceGateway()
	gateway.stored["user-1"] = Preferences{SelectedCards: []string{CardTotalJobs}}
	svc := NewPreferenceService(gateway, nil, WithPreferenceLogger(discardLogger()))

	edit := svc.BeginEdit(context.Background(), "user-1")
	edit.Toggle(CardUsersTrend)
	edit.Toggle(CardTotalJobs)
	if got := edit.Selected(); !reflect.DeepEqual(got, []string{CardUsersTrend}) {
		t.Fatalf("unexpected pending selection %v", got)
	}

	// Stored selection is untouched until commit.
	if !reflect.DeepEqual(gateway.stored["user-1"].SelectedCards, []string{CardTotalJobs}) {
		t.Fatalf("stored selection mutated before commit: %v", gateway.stored["user-1"].SelectedCards)
	}

	edit.Cancel(context.Background())
	if got := edit.Selected(); !reflect.DeepEqual(got, []string{CardTotalJobs}) {
		t.Fatalf("expected cancel to reload stored selection, got %v", got)
	}

	edit.Toggle(CardTopCountries)
	if err := edit.Commit(context.Background()); err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	want := []string{CardTotalJobs, CardTopCountries}
	if !reflect.DeepEqual(gateway.stored["user-1"].SelectedCards, want) {
		t.Fatalf("expected committed selection %v, got %v", want, gateway.stored["user-1"].SelectedCards)
	}
}
