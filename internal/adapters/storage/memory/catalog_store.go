package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/saydali/saydali-api/internal/domain"
)

// CatalogStore is an in-memory implementation of domain.CatalogStore.
// It is NOT persistent and is only suitable for development / local mode.
type CatalogStore struct {
	mu        sync.RWMutex
	medicines []domain.Medicine // newest first
	now       func() time.Time
}

// NewCatalogStore creates an empty in-memory CatalogStore.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{now: time.Now}
}

// Seed replaces the stored medicines, newest first. Test helper.
func (s *CatalogStore) Seed(meds []domain.Medicine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.medicines = append([]domain.Medicine(nil), meds...)
}

func (s *CatalogStore) ListMedicines(ctx context.Context) ([]domain.Medicine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Medicine, len(s.medicines))
	copy(out, s.medicines)
	return out, nil
}

func (s *CatalogStore) CreateMedicine(ctx context.Context, med domain.NewMedicine) (*domain.Medicine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	created := domain.Medicine{
		ID:          domain.MedicineID(generateID(now)),
		Name:        med.Name,
		Type:        med.Type,
		Price:       med.Price,
		IsAvailable: med.IsAvailable,
		CreatedAt:   now,
	}

	s.medicines = append([]domain.Medicine{created}, s.medicines...)
	return &created, nil
}

func (s *CatalogStore) UpdateMedicine(ctx context.Context, id domain.MedicineID, upd domain.MedicineUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.medicines {
		if s.medicines[i].ID == id {
			upd.ApplyTo(&s.medicines[i])
			return nil
		}
	}
	return domain.NewStoreError(domain.KindNotFound, "medicines", errors.New("medicine not found"))
}

func (s *CatalogStore) DeleteMedicine(ctx context.Context, id domain.MedicineID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.medicines {
		if s.medicines[i].ID == id {
			s.medicines = append(s.medicines[:i], s.medicines[i+1:]...)
			return nil
		}
	}
	return domain.NewStoreError(domain.KindNotFound, "medicines", errors.New("medicine not found"))
}

// generateID derives an id from creation time, same format the
// pharmacy service uses for chat messages.
func generateID(t time.Time) string {
	return t.Format("20060102150405.000000000")
}
