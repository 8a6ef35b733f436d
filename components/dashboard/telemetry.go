package dashboard

import (
	"context"
	"log/slog"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// SlogTelemetry writes telemetry events to a structured logger.
type SlogTelemetry struct {
	logger *slog.Logger
}

// NewSlogTelemetry builds a telemetry sink over the given logger. A nil
// logger uses slog.Default.
func NewSlogTelemetry(logger *slog.Logger) *SlogTelemetry {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogTelemetry{logger: logger}
}

// Record emits the event at info level with its payload as attributes.
func (t *SlogTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	attrs := make([]any, 0, len(payload)*2+2)
	attrs = append(attrs, "event", event)
	for k, v := range payload {
		attrs = append(attrs, k, v)
	}
	t.logger.InfoContext(ctx, "dashboard event", attrs...)
}

// Telemetry event names.
const (
	EventPreferencesSaved        = "preferences.saved"
	EventPreferencesSaveFellBack = "preferences.save_fallback"
	EventSnapshotRefreshed       = "snapshot.refreshed"
	EventSnapshotFailed          = "snapshot.failed"
)
