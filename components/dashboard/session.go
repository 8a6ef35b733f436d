package dashboard

import (
	"context"
	"log/slog"
	"sync"
)

// genericFetchError is the only message surfaced to users on a batch
// failure; the underlying cause goes to the log.
const genericFetchError = "Failed to load insights"

// Session owns the presentation state of one active dashboard view: the
// last committed snapshot, the batch error flag, and the stat-header
// loading flag. Commits are tagged with a monotonic sequence so a slow
// batch started before a newer one can never overwrite its result, and
// nothing commits after Close.
type Session struct {
	mu       sync.Mutex
	agg      *Aggregator
	logger   *slog.Logger
	rawRange DateRange
	apiRange APIDateRange

	snapshot     AggregateSnapshot
	hasSnapshot  bool
	errMsg       string
	statsLoading bool

	seq       uint64
	committed uint64
	closed    bool
}

// NewSession creates a session around an aggregator. The stat header starts
// in the loading state until the first batch settles.
func NewSession(agg *Aggregator, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		agg:          agg,
		logger:       logger,
		statsLoading: true,
	}
}

// SetDateRange replaces the raw range and reports whether it actually
// changed. An unchanged range is a no-op so consumers keyed on the
// normalized value never refetch redundantly.
func (s *Session) SetDateRange(r DateRange) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r == s.rawRange {
		return false
	}
	s.rawRange = r
	s.apiRange = r.Normalize()
	return true
}

// DateRange returns the current normalized range.
func (s *Session) DateRange() APIDateRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiRange
}

// Refresh runs one aggregation batch against the current range. The
// loading flag clears whether the batch succeeds or fails; on failure the
// previous snapshot stays visible and only the error flag flips.
func (s *Session) Refresh(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq := s.seq
	dr := s.apiRange
	s.mu.Unlock()

	snapshot, err := s.agg.Refresh(ctx, dr)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq < s.committed {
		return
	}
	s.committed = seq
	s.statsLoading = false
	if err != nil {
		s.logger.Error("insights batch failed", "error", err, "start", dr.Start, "end", dr.End)
		s.errMsg = genericFetchError
		return
	}
	s.snapshot = snapshot
	s.hasSnapshot = true
	s.errMsg = ""
}

// Snapshot returns the last committed snapshot, if any batch has succeeded.
func (s *Session) Snapshot() (AggregateSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot, s.hasSnapshot
}

// Err returns the user-facing batch error message, empty when healthy.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// StatsLoading reports whether the stat header is still waiting for its
// first settled batch.
func (s *Session) StatsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsLoading
}

// Close tears the session down. In-flight batches are not aborted; their
// commits are discarded here instead.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
