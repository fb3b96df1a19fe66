package pharmacy

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/saydali/saydali-api/internal/domain"
	"github.com/saydali/saydali-api/internal/observability"
)

// Service is the shared application state: the single mutable root the
// views read from and write through. It mirrors the remote medicines
// and ads collections in memory, and owns the purely local favorites
// set and chat history.
//
// Remote failures are logged and swallowed here so the views always
// see the last known good state; the typed error stays available at
// the store boundary.
type Service struct {
	catalog domain.CatalogStore
	ads     domain.AdStore
	now     func() time.Time

	mu        sync.RWMutex
	medicines []domain.Medicine // newest first
	adList    []domain.Ad       // newest first
	favorites map[domain.MedicineID]struct{}
	chat      []domain.ChatMessage
	lastChat  time.Time
	loading   bool
}

func NewService(catalog domain.CatalogStore, ads domain.AdStore) *Service {
	return &Service{
		catalog:   catalog,
		ads:       ads,
		now:       time.Now,
		favorites: make(map[domain.MedicineID]struct{}),
		loading:   true,
	}
}

// Refresh loads both remote collections. It is called exactly once at
// startup; the loading flag goes false when the call settles and never
// returns to true. On any failure the whole fetch is aborted and both
// mirrors keep their previous contents (empty on first load) — no
// partial success is merged.
func (s *Service) Refresh(ctx context.Context) {
	log := observability.LoggerFromContext(ctx)

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	meds, err := s.catalog.ListMedicines(ctx)
	if err != nil {
		log.Error("failed to fetch medicines", "error", err)
		return
	}

	ads, err := s.ads.ListAds(ctx)
	if err != nil {
		log.Error("failed to fetch ads", "error", err)
		return
	}

	s.mu.Lock()
	s.medicines = meds
	s.adList = ads
	s.mu.Unlock()

	log.Info("catalog loaded", "medicines", len(meds), "ads", len(ads))
}

// Loading reports whether the initial fetch is still outstanding.
func (s *Service) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// ─────────────────────────────────────────────
// Read surface (snapshots)
// ─────────────────────────────────────────────

// Medicines returns a snapshot of the mirrored catalog, newest first.
func (s *Service) Medicines() []domain.Medicine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Medicine, len(s.medicines))
	copy(out, s.medicines)
	return out
}

// Ads returns a snapshot of the mirrored ads, newest first.
func (s *Service) Ads() []domain.Ad {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Ad, len(s.adList))
	copy(out, s.adList)
	return out
}

// ChatHistory returns the session's chat thread in append order.
func (s *Service) ChatHistory() []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ChatMessage, len(s.chat))
	copy(out, s.chat)
	return out
}

// Favorites returns the set of favorited medicine ids.
func (s *Service) Favorites() []domain.MedicineID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.MedicineID, 0, len(s.favorites))
	for id := range s.favorites {
		out = append(out, id)
	}
	return out
}

// IsFavorite reports favorite membership for one id.
func (s *Service) IsFavorite(id domain.MedicineID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.favorites[id]
	return ok
}

// FavoriteMedicines joins the favorites set against the live medicine
// mirror, keeping catalog order. A favorite whose medicine was deleted
// is simply skipped.
func (s *Service) FavoriteMedicines() []domain.Medicine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Medicine
	for _, m := range s.medicines {
		if _, ok := s.favorites[m.ID]; ok {
			out = append(out, m)
		}
	}
	return out
}

// SearchMedicines returns the medicines whose name contains the query,
// case-insensitively. An empty query returns the full collection.
func (s *Service) SearchMedicines(query string) []domain.Medicine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))

	var out []domain.Medicine
	for _, m := range s.medicines {
		if q == "" || strings.Contains(strings.ToLower(m.Name), q) {
			out = append(out, m)
		}
	}
	return out
}

// FilterMedicinesByType returns the medicines of one type, in catalog
// order.
func (s *Service) FilterMedicinesByType(t domain.MedicineType) []domain.Medicine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Medicine
	for _, m := range s.medicines {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

// ─────────────────────────────────────────────
// Medicine mutations (remote first, mirror on success)
// ─────────────────────────────────────────────

// AddMedicine submits med for remote id assignment and, on success,
// prepends the returned entity to the mirror so it shows first.
// Returns nil when the remote call failed; the mirror is untouched.
func (s *Service) AddMedicine(ctx context.Context, med domain.NewMedicine) *domain.Medicine {
	log := observability.LoggerFromContext(ctx)

	created, err := s.catalog.CreateMedicine(ctx, med)
	if err != nil {
		log.Error("failed to add medicine", "name", med.Name, "error", err)
		return nil
	}

	s.mu.Lock()
	s.medicines = append([]domain.Medicine{*created}, s.medicines...)
	s.mu.Unlock()

	log.Info("medicine added", "id", created.ID, "name", created.Name)
	return created
}

// UpdateMedicine forwards the present fields of upd and, on success,
// merges them into the mirrored entity. Returns the updated entity, or
// nil when the remote call failed or the id is not mirrored.
func (s *Service) UpdateMedicine(ctx context.Context, id domain.MedicineID, upd domain.MedicineUpdate) *domain.Medicine {
	log := observability.LoggerFromContext(ctx)

	if upd.IsZero() {
		return s.findMedicine(id)
	}

	if err := s.catalog.UpdateMedicine(ctx, id, upd); err != nil {
		log.Error("failed to update medicine", "id", id, "error", err)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.medicines {
		if s.medicines[i].ID == id {
			upd.ApplyTo(&s.medicines[i])
			updated := s.medicines[i]
			log.Info("medicine updated", "id", id)
			return &updated
		}
	}
	return nil
}

// RemoveMedicine deletes remotely and, on success, drops the entity
// from the mirror by id equality. The favorites set is left alone:
// an orphaned favorite id has no visible effect since reads join
// against the live mirror.
func (s *Service) RemoveMedicine(ctx context.Context, id domain.MedicineID) {
	log := observability.LoggerFromContext(ctx)

	if err := s.catalog.DeleteMedicine(ctx, id); err != nil {
		log.Error("failed to delete medicine", "id", id, "error", err)
		return
	}

	s.mu.Lock()
	for i := range s.medicines {
		if s.medicines[i].ID == id {
			s.medicines = append(s.medicines[:i], s.medicines[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	log.Info("medicine removed", "id", id)
}

func (s *Service) findMedicine(id domain.MedicineID) *domain.Medicine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.medicines {
		if s.medicines[i].ID == id {
			m := s.medicines[i]
			return &m
		}
	}
	return nil
}

// ─────────────────────────────────────────────
// Ad mutations
// ─────────────────────────────────────────────

// AddAd creates an ad remotely and prepends it to the mirror. Returns
// nil when the remote call failed.
func (s *Service) AddAd(ctx context.Context, url, text string) *domain.Ad {
	log := observability.LoggerFromContext(ctx)

	created, err := s.ads.CreateAd(ctx, url, text)
	if err != nil {
		log.Error("failed to add ad", "error", err)
		return nil
	}

	s.mu.Lock()
	s.adList = append([]domain.Ad{*created}, s.adList...)
	s.mu.Unlock()

	log.Info("ad added", "id", created.ID)
	return created
}

// RemoveAd deletes remotely and drops the ad from the mirror.
func (s *Service) RemoveAd(ctx context.Context, id domain.AdID) {
	log := observability.LoggerFromContext(ctx)

	if err := s.ads.DeleteAd(ctx, id); err != nil {
		log.Error("failed to delete ad", "id", id, "error", err)
		return
	}

	s.mu.Lock()
	for i := range s.adList {
		if s.adList[i].ID == id {
			s.adList = append(s.adList[:i], s.adList[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	log.Info("ad removed", "id", id)
}

// ─────────────────────────────────────────────
// Local-only state
// ─────────────────────────────────────────────

// ToggleFavorite flips membership of id in the favorites set. Pure,
// synchronous, local-only; two toggles restore the original state.
func (s *Service) ToggleFavorite(id domain.MedicineID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.favorites[id]; ok {
		delete(s.favorites, id)
	} else {
		s.favorites[id] = struct{}{}
	}
}

// AddToChat appends a message to the session thread, assigning a
// time-derived id and the current timestamp. Append-only, never
// reordered, grows unbounded within the session.
func (s *Service) AddToChat(text string, sender domain.Sender) domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	// Ids derive from creation time; nudge forward if the clock has
	// not advanced since the previous message.
	if !now.After(s.lastChat) {
		now = s.lastChat.Add(time.Nanosecond)
	}
	s.lastChat = now

	msg := domain.ChatMessage{
		ID:        domain.MessageID(generateID(now)),
		Text:      text,
		Sender:    sender,
		CreatedAt: now,
	}

	s.chat = append(s.chat, msg)
	return msg
}

// generateID derives a message id from its creation time.
func generateID(t time.Time) string {
	return t.Format("20060102150405.000000000")
}
