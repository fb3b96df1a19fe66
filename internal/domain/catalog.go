package domain

// Medicine is a catalog entry as the application sees it.
// The remote store keeps its own row shape (snake_case fields);
// the storage adapter translates between the two.
type Medicine struct {
	ID          MedicineID
	Name        string
	Type        MedicineType
	Price       float64
	IsAvailable bool
	ImageURL    string // optional
	CreatedAt   Timestamp
}

// NewMedicine is the create payload: everything but the id, which the
// remote store assigns. The image is not part of the create path.
type NewMedicine struct {
	Name        string
	Type        MedicineType
	Price       float64
	IsAvailable bool
}

// MedicineUpdate is a partial update. Nil means "leave unchanged", so
// a price of exactly zero or an availability of false can still be set
// explicitly.
type MedicineUpdate struct {
	Name        *string
	Type        *MedicineType
	Price       *float64
	IsAvailable *bool
}

// IsZero reports whether the update carries no fields at all.
func (u MedicineUpdate) IsZero() bool {
	return u.Name == nil && u.Type == nil && u.Price == nil && u.IsAvailable == nil
}

// ApplyTo merges the present fields of u into m.
func (u MedicineUpdate) ApplyTo(m *Medicine) {
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.Type != nil {
		m.Type = *u.Type
	}
	if u.Price != nil {
		m.Price = *u.Price
	}
	if u.IsAvailable != nil {
		m.IsAvailable = *u.IsAvailable
	}
}

// Ad is a promotional carousel slot. Either the image URL or the text
// (or both) is expected to be meaningful; neither is enforced.
type Ad struct {
	ID        AdID
	URL       string
	Text      string
	CreatedAt Timestamp
}
