package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
)

// ResumeInput identifies one user's stored resume.
type ResumeInput struct {
	UserID string `json:"userId"`
}

// ResumeLink is the stored location of a generated resume, when one exists.
type ResumeLink struct {
	URL   string `json:"url,omitempty"`
	Found bool   `json:"found"`
}

type resumeLookup interface {
	Lookup(ctx context.Context, userID string) (string, bool, error)
}

// ResumeQuery reads the stored resume URL for a user.
type ResumeQuery struct {
	service resumeLookup
}

// NewResumeQuery builds the query.
func NewResumeQuery(service resumeLookup) *ResumeQuery {
	return &ResumeQuery{service: service}
}

var _ gocommand.Querier[ResumeInput, ResumeLink] = (*ResumeQuery)(nil)

// Query looks up the resume record.
func (q *ResumeQuery) Query(ctx context.Context, input ResumeInput) (ResumeLink, error) {
	url, ok, err := q.service.Lookup(ctx, input.UserID)
	if err != nil {
		return ResumeLink{}, err
	}
	return ResumeLink{URL: url, Found: ok}, nil
}
