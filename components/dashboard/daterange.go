package dashboard

// DateRange is a user-selected inclusive start/end pair of ISO date strings.
// An empty string leaves that side unbounded.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// APIDateRange is the query-parameter shape the insights gateway expects.
// End carries an end-of-day time suffix so the boundary day is included.
type APIDateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

const endOfDaySuffix = "T23:59:59"

// Normalize derives the gateway shape from the raw range. A non-empty end
// gets the end-of-day suffix appended verbatim; everything else passes
// through unchanged. Malformed date strings are the gateway's problem.
func (r DateRange) Normalize() APIDateRange {
	out := APIDateRange{Start: r.Start}
	if r.End != "" {
		out.End = r.End + endOfDaySuffix
	}
	return out
}

// IsZero reports whether both sides are unbounded.
func (r DateRange) IsZero() bool {
	return r.Start == "" && r.End == ""
}
