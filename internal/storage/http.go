package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nikbrunner/kiosk/internal/model"
)

// Paths served by the kiosk server.
const (
	ReadPath  = "/config/panels.json"
	WritePath = "/config/panels"
)

// ErrNoRemote means the http backend has no server URL configured.
var ErrNoRemote = errors.New("no remote kiosk URL configured")

// HTTPStorage implements Storage against a kiosk server.
type HTTPStorage struct {
	base       *url.URL
	httpClient *http.Client
}

// NewHTTPStorage creates an HTTPStorage for the server at baseURL. A nil
// client gets a 10 second timeout.
func NewHTTPStorage(baseURL string, client *http.Client) (*HTTPStorage, error) {
	if baseURL == "" {
		return nil, ErrNoRemote
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse remote url: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPStorage{base: u, httpClient: client}, nil
}

// URL returns the server base URL.
func (s *HTTPStorage) URL() string {
	return s.base.String()
}

func (s *HTTPStorage) endpoint(path string) string {
	return s.base.JoinPath(path).String()
}

// Load fetches the document. A 404 means nothing was saved yet.
func (s *HTTPStorage) Load(ctx context.Context) (*model.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint(ReadPath), nil)
	if err != nil {
		return nil, Unavailable("load", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, Unavailable("load", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Unavailable("load", fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode == http.StatusNotFound {
		return model.EmptyDocument(), nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, Unavailable("load", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var doc model.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, Unavailable("load", fmt.Errorf("unmarshal response: %w", err))
	}
	return &doc, nil
}

// Save posts the document to the server.
func (s *HTTPStorage) Save(ctx context.Context, doc *model.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return Unavailable("save", fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint(WritePath), bytes.NewReader(data))
	if err != nil {
		return Unavailable("save", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Unavailable("save", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Unavailable("save", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	return nil
}
