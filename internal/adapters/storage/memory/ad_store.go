package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/saydali/saydali-api/internal/domain"
)

// AdStore is an in-memory implementation of domain.AdStore.
type AdStore struct {
	mu  sync.RWMutex
	ads []domain.Ad // newest first
	now func() time.Time
}

// NewAdStore creates an empty in-memory AdStore.
func NewAdStore() *AdStore {
	return &AdStore{now: time.Now}
}

// Seed replaces the stored ads, newest first. Test helper.
func (s *AdStore) Seed(ads []domain.Ad) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ads = append([]domain.Ad(nil), ads...)
}

func (s *AdStore) ListAds(ctx context.Context) ([]domain.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Ad, len(s.ads))
	copy(out, s.ads)
	return out, nil
}

func (s *AdStore) CreateAd(ctx context.Context, url, text string) (*domain.Ad, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	created := domain.Ad{
		ID:        domain.AdID(generateID(now)),
		URL:       url,
		Text:      text,
		CreatedAt: now,
	}

	s.ads = append([]domain.Ad{created}, s.ads...)
	return &created, nil
}

func (s *AdStore) DeleteAd(ctx context.Context, id domain.AdID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.ads {
		if s.ads[i].ID == id {
			s.ads = append(s.ads[:i], s.ads[i+1:]...)
			return nil
		}
	}
	return domain.NewStoreError(domain.KindNotFound, "ads", errors.New("ad not found"))
}
