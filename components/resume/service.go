// Package resume generates candidate resume PDFs and stores them: bytes go
// to object storage, metadata to the durable store.
package resume

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ErrDuplicate is returned by MetadataStore.Insert when the user already
// has stored metadata; the caller then updates instead.
var ErrDuplicate = errors.New("resume: metadata exists")

// ErrGenerationInProgress rejects concurrent generation for one user.
var ErrGenerationInProgress = errors.New("resume: generation already in progress")

// PDFSource renders a user's resume to PDF bytes.
type PDFSource interface {
	GeneratePDF(ctx context.Context, userID string) ([]byte, error)
}

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

// Metadata is the stored pointer to a user's uploaded resume.
type Metadata struct {
	UserID   string
	URL      string
	FileName string
}

// MetadataStore persists resume metadata. Insert must return ErrDuplicate
// (possibly wrapped) when a row for the user already exists.
type MetadataStore interface {
	Insert(ctx context.Context, meta Metadata) error
	Update(ctx context.Context, meta Metadata) error
	Lookup(ctx context.Context, userID string) (Metadata, bool, error)
}

// Service orchestrates the generate, upload, and record steps.
type Service struct {
	source   PDFSource
	uploader Uploader
	store    MetadataStore
	logger   *slog.Logger

	mu         sync.Mutex
	inProgress map[string]bool
}

// NewService wires the collaborators. A nil logger uses slog.Default.
func NewService(source PDFSource, uploader Uploader, store MetadataStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:     source,
		uploader:   uploader,
		store:      store,
		logger:     logger,
		inProgress: make(map[string]bool),
	}
}

// InProgress reports whether a generation is running for the user.
func (s *Service) InProgress(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inProgress[userID]
}

func (s *Service) begin(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inProgress[userID] {
		return ErrGenerationInProgress
	}
	s.inProgress[userID] = true
	return nil
}

func (s *Service) finish(userID string) {
	s.mu.Lock()
	delete(s.inProgress, userID)
	s.mu.Unlock()
}

// Generate renders the user's resume without storing it.
func (s *Service) Generate(ctx context.Context, userID string) ([]byte, error) {
	if userID == "" {
		return nil, fmt.Errorf("resume: user id is required")
	}
	data, err := s.source.GeneratePDF(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resume: generate for %s: %w", userID, err)
	}
	return data, nil
}

// GenerateAndStore renders, uploads, and records the user's resume,
// returning the public URL. The in-progress flag clears however the call
// settles. Metadata write failures after a successful upload are logged
// and the URL is still returned; the upload itself is the durable artifact.
func (s *Service) GenerateAndStore(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("resume: user id is required")
	}
	if err := s.begin(userID); err != nil {
		return "", err
	}
	defer s.finish(userID)

	data, err := s.source.GeneratePDF(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("resume: generate for %s: %w", userID, err)
	}

	fileName := uuid.NewString() + ".pdf"
	url, err := s.uploader.Upload(ctx, fileName, data)
	if err != nil {
		return "", fmt.Errorf("resume: upload for %s: %w", userID, err)
	}

	s.record(ctx, Metadata{UserID: userID, URL: url, FileName: fileName})
	return url, nil
}

// record upserts the metadata: insert first, update when the user already
// has a row. Failures are logged, never fatal.
func (s *Service) record(ctx context.Context, meta Metadata) {
	err := s.store.Insert(ctx, meta)
	if err == nil {
		return
	}
	if errors.Is(err, ErrDuplicate) {
		if err := s.store.Update(ctx, meta); err != nil {
			s.logger.Error("resume metadata update failed",
				"user_id", meta.UserID, "error", err)
		}
		return
	}
	s.logger.Error("resume metadata insert failed",
		"user_id", meta.UserID, "error", err)
}

// Lookup returns the stored resume URL for a user, if any.
func (s *Service) Lookup(ctx context.Context, userID string) (string, bool, error) {
	meta, ok, err := s.store.Lookup(ctx, userID)
	if err != nil {
		return "", false, fmt.Errorf("resume: lookup %s: %w", userID, err)
	}
	return meta.URL, ok, nil
}
