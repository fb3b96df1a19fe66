package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/saydali/saydali-api/internal/domain"
)

// Store is the remote data store adapter. It implements both
// domain.CatalogStore and domain.AdStore on top of two Firestore
// collections, "medicines" and "ads".
type Store struct {
	client *firestore.Client
	now    func() time.Time
}

// NewStore creates a Firestore store for the given project
// (SAYDALI_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client, now: time.Now}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) medicinesCol() *firestore.CollectionRef {
	return s.client.Collection("medicines")
}

func (s *Store) medicineDoc(id domain.MedicineID) *firestore.DocumentRef {
	return s.medicinesCol().Doc(string(id))
}

func (s *Store) adsCol() *firestore.CollectionRef {
	return s.client.Collection("ads")
}

func (s *Store) adDoc(id domain.AdID) *firestore.DocumentRef {
	return s.adsCol().Doc(string(id))
}

// ─────────────────────────────────────────
// Row types (snake_case, the remote shape)
// ─────────────────────────────────────────

type medicineRow struct {
	Name        string    `firestore:"name"`
	Type        string    `firestore:"type"`
	Price       float64   `firestore:"price"`
	IsAvailable bool      `firestore:"is_available"`
	ImageURL    string    `firestore:"image_url"`
	CreatedAt   time.Time `firestore:"created_at"`
}

type adRow struct {
	URL       string    `firestore:"url"`
	Text      string    `firestore:"text"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (r medicineRow) toEntity(id string) domain.Medicine {
	return domain.Medicine{
		ID:          domain.MedicineID(id),
		Name:        r.Name,
		Type:        domain.MedicineType(r.Type),
		Price:       r.Price,
		IsAvailable: r.IsAvailable,
		ImageURL:    r.ImageURL,
		CreatedAt:   r.CreatedAt,
	}
}

func (r adRow) toEntity(id string) domain.Ad {
	return domain.Ad{
		ID:        domain.AdID(id),
		URL:       r.URL,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}

// ─────────────────────────────────────────
// CatalogStore implementation
// ─────────────────────────────────────────

func (s *Store) ListMedicines(ctx context.Context) ([]domain.Medicine, error) {
	q := s.medicinesCol().OrderBy("created_at", firestore.Desc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []domain.Medicine
	for {
		snap, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, domain.NewStoreError(domain.KindFetch, "medicines", err)
		}

		var row medicineRow
		if err := snap.DataTo(&row); err != nil {
			return nil, domain.NewStoreError(domain.KindFetch, "medicines", fmt.Errorf("decode medicineRow: %w", err))
		}

		out = append(out, row.toEntity(snap.Ref.ID))
	}
	return out, nil
}

func (s *Store) CreateMedicine(ctx context.Context, med domain.NewMedicine) (*domain.Medicine, error) {
	now := s.now()

	// The image is deliberately absent from the create path; only the
	// four core fields are submitted.
	row := medicineRow{
		Name:        med.Name,
		Type:        string(med.Type),
		Price:       med.Price,
		IsAvailable: med.IsAvailable,
		CreatedAt:   now,
	}

	// NewDoc lets Firestore assign the id, like an insert-returning.
	doc := s.medicinesCol().NewDoc()
	if _, err := doc.Create(ctx, row); err != nil {
		return nil, domain.NewStoreError(domain.KindCreate, "medicines", err)
	}

	created := row.toEntity(doc.ID)
	return &created, nil
}

func (s *Store) UpdateMedicine(ctx context.Context, id domain.MedicineID, upd domain.MedicineUpdate) error {
	var updates []firestore.Update
	if upd.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *upd.Name})
	}
	if upd.Type != nil {
		updates = append(updates, firestore.Update{Path: "type", Value: string(*upd.Type)})
	}
	if upd.Price != nil {
		updates = append(updates, firestore.Update{Path: "price", Value: *upd.Price})
	}
	if upd.IsAvailable != nil {
		updates = append(updates, firestore.Update{Path: "is_available", Value: *upd.IsAvailable})
	}
	if len(updates) == 0 {
		return nil
	}

	if _, err := s.medicineDoc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.NewStoreError(domain.KindNotFound, "medicines", err)
		}
		return domain.NewStoreError(domain.KindUpdate, "medicines", err)
	}
	return nil
}

func (s *Store) DeleteMedicine(ctx context.Context, id domain.MedicineID) error {
	if _, err := s.medicineDoc(id).Delete(ctx); err != nil {
		return domain.NewStoreError(domain.KindDelete, "medicines", err)
	}
	return nil
}

// ─────────────────────────────────────────
// AdStore implementation
// ─────────────────────────────────────────

func (s *Store) ListAds(ctx context.Context) ([]domain.Ad, error) {
	q := s.adsCol().OrderBy("created_at", firestore.Desc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []domain.Ad
	for {
		snap, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, domain.NewStoreError(domain.KindFetch, "ads", err)
		}

		var row adRow
		if err := snap.DataTo(&row); err != nil {
			return nil, domain.NewStoreError(domain.KindFetch, "ads", fmt.Errorf("decode adRow: %w", err))
		}

		out = append(out, row.toEntity(snap.Ref.ID))
	}
	return out, nil
}

func (s *Store) CreateAd(ctx context.Context, url, text string) (*domain.Ad, error) {
	now := s.now()

	row := adRow{
		URL:       url,
		Text:      text,
		CreatedAt: now,
	}

	doc := s.adsCol().NewDoc()
	if _, err := doc.Create(ctx, row); err != nil {
		return nil, domain.NewStoreError(domain.KindCreate, "ads", err)
	}

	created := row.toEntity(doc.ID)
	return &created, nil
}

func (s *Store) DeleteAd(ctx context.Context, id domain.AdID) error {
	if _, err := s.adDoc(id).Delete(ctx); err != nil {
		return domain.NewStoreError(domain.KindDelete, "ads", err)
	}
	return nil
}
