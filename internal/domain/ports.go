package domain

import "context"

// CatalogStore defines the remote persistence of medicines.
// Lists are newest-first (created_at descending).
type CatalogStore interface {
	ListMedicines(ctx context.Context) ([]Medicine, error)
	CreateMedicine(ctx context.Context, med NewMedicine) (*Medicine, error)
	UpdateMedicine(ctx context.Context, id MedicineID, upd MedicineUpdate) error
	DeleteMedicine(ctx context.Context, id MedicineID) error
}

// AdStore defines the remote persistence of promotional ads.
type AdStore interface {
	ListAds(ctx context.Context) ([]Ad, error)
	CreateAd(ctx context.Context, url, text string) (*Ad, error)
	DeleteAd(ctx context.Context, id AdID) error
}

// Assistant defines how the application talks to the hosted model.
// Each call is a single independent turn; no history is sent.
type Assistant interface {
	Reply(ctx context.Context, userMessage string) (string, error)
}
