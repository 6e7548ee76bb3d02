package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/imagestore"
)

// Store implements imagestore.Store with an in-memory map. It keeps
// metadata only and is intended for development and tests.
type Store struct {
	mu      sync.RWMutex
	assets  map[string]string
	baseURL string

	// FailAfter makes Upload fail once this many uploads have
	// succeeded; zero disables the behavior. Tests use it to exercise
	// mid-batch failure handling.
	FailAfter int
	uploads   int
}

// New creates a new in-memory image store.
func New(baseURL string) *Store {
	return &Store{
		assets:  make(map[string]string),
		baseURL: baseURL,
	}
}

// Upload records the image and returns a generated asset.
func (s *Store) Upload(_ context.Context, _, folder string) (*imagestore.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailAfter > 0 && s.uploads >= s.FailAfter {
		return nil, fmt.Errorf("upload rejected")
	}
	s.uploads++

	publicID := folder + "/" + uuid.New().String()
	url := fmt.Sprintf("%s/%s", s.baseURL, publicID)
	s.assets[publicID] = url

	return &imagestore.Asset{PublicID: publicID, URL: url}, nil
}

// Destroy removes a stored asset by its public ID.
func (s *Store) Destroy(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.assets[publicID]; !exists {
		return fmt.Errorf("asset not found: %s", publicID)
	}

	delete(s.assets, publicID)
	return nil
}

// Len reports how many assets are currently stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assets)
}
