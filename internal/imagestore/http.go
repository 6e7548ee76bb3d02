package imagestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/httpclient"
)

// HTTPStore talks to a Cloudinary-style upload API.
type HTTPStore struct {
	baseURL   string
	apiKey    string
	apiSecret string
	client    *httpclient.CircuitBreakerClient
}

// NewHTTPStore creates an image store backed by the remote upload API.
func NewHTTPStore(baseURL, apiKey, apiSecret string, client *httpclient.CircuitBreakerClient) *HTTPStore {
	return &HTTPStore{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client:    client,
	}
}

type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the image to the provider's upload endpoint.
func (s *HTTPStore) Upload(ctx context.Context, data, folder string) (*Asset, error) {
	form := url.Values{}
	form.Set("file", data)
	form.Set("folder", folder)
	form.Set("api_key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/image/upload", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.apiKey, s.apiSecret)

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	var body uploadResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload image: provider returned %d: %s", resp.StatusCode, body.Error.Message)
	}

	return &Asset{PublicID: body.PublicID, URL: body.SecureURL}, nil
}

// Destroy removes an uploaded image by its public ID.
func (s *HTTPStore) Destroy(ctx context.Context, publicID string) error {
	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("api_key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/image/destroy", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build destroy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.apiKey, s.apiSecret)

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("destroy image: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("destroy image: provider returned %d", resp.StatusCode)
	}

	return nil
}
