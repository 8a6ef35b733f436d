package resume

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPPDFSource fetches rendered resume PDFs from the resume service.
type HTTPPDFSource struct {
	baseURL string
	http    *http.Client
}

// NewHTTPPDFSource builds a source for the given service URL.
func NewHTTPPDFSource(baseURL string) *HTTPPDFSource {
	return &HTTPPDFSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// GeneratePDF implements PDFSource.
func (s *HTTPPDFSource) GeneratePDF(ctx context.Context, userID string) ([]byte, error) {
	endpoint := s.baseURL + "/resumes/" + url.PathEscape(userID) + "/pdf"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("resume: build pdf request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resume: fetch pdf: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("resume: fetch pdf: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("resume: read pdf: %w", err)
	}
	return data, nil
}

// HTTPUploader stores files through the storage service and returns the
// public URL from its response.
type HTTPUploader struct {
	baseURL string
	http    *http.Client
}

// NewHTTPUploader builds an uploader for the given storage URL.
func NewHTTPUploader(baseURL string) *HTTPUploader {
	return &HTTPUploader{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload implements Uploader.
func (u *HTTPUploader) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	endpoint := u.baseURL + "/files/" + url.PathEscape(fileName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("resume: build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/pdf")

	resp, err := u.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("resume: upload %s: %w", fileName, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("resume: upload %s: status %d", fileName, resp.StatusCode)
	}

	var payload uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("resume: decode upload response: %w", err)
	}
	if payload.URL == "" {
		return "", fmt.Errorf("resume: upload %s: response has no url", fileName)
	}
	return payload.URL, nil
}
