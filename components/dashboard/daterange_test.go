package dashboard

import "testing"

func TestNormalizeAppendsEndOfDaySuffix(t *testing.T) {
	r := DateRange{Start: "2025-01-01", End: "2025-01-31"}
	api := r.Normalize()
	if api.Start != "2025-01-01" {
		t.Fatalf("start changed: %q", api.Start)
	}
	if api.End != "2025-01-31T23:59:59" {
		t.Fatalf("expected end-of-day suffix, got %q", api.End)
	}
}

func TestNormalizeLeavesEmptyEndUnbounded(t *testing.T) {
	api := DateRange{Start: "2025-01-01"}.Normalize()
	if api.End != "" {
		t.Fatalf("expected empty end, got %q", api.End)
	}
}

func TestNormalizeZeroRange(t *testing.T) {
	r := DateRange{}
	if !r.IsZero() {
		t.Fatal("expected zero range")
	}
	if got := r.Normalize(); got != (APIDateRange{}) {
		t.Fatalf("expected zero api range, got %#v", got)
	}
}
