package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/saydali/saydali-api/internal/app/admin"
	"github.com/saydali/saydali-api/internal/app/assistant"
	"github.com/saydali/saydali-api/internal/app/pharmacy"
	"github.com/saydali/saydali-api/internal/domain"
)

// passcodeHeader carries the shared admin passcode on admin routes.
const passcodeHeader = "X-Admin-Passcode"

type Server struct {
	pharmacy  *pharmacy.Service
	assistant *assistant.Service
	gate      *admin.Gate

	// chatBusy blocks re-submission while an assistant call is
	// outstanding. A guard, not a queue.
	chatBusy atomic.Bool
}

func NewServer(
	pharmacySvc *pharmacy.Service,
	assistantSvc *assistant.Service,
	gate *admin.Gate,
) http.Handler {
	s := &Server{
		pharmacy:  pharmacySvc,
		assistant: assistantSvc,
		gate:      gate,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// Storefront views
	mux.HandleFunc("/medicines", s.handleMedicines)
	mux.HandleFunc("/ads", s.handleAds)
	mux.HandleFunc("/favorites", s.handleFavorites)
	mux.HandleFunc("/favorites/", s.handleFavoriteWithID)
	mux.HandleFunc("/chat", s.handleChat)

	// Admin panel
	mux.HandleFunc("/admin/login", s.handleAdminLogin)
	mux.HandleFunc("/admin/medicines", s.withPasscode(s.handleAdminMedicines))
	mux.HandleFunc("/admin/medicines/", s.withPasscode(s.handleAdminMedicineWithID))
	mux.HandleFunc("/admin/ads", s.withPasscode(s.handleAdminAds))
	mux.HandleFunc("/admin/ads/", s.withPasscode(s.handleAdminAdWithID))

	return chainMiddlewares(mux, withLogging, withCORS, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type medicineResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Price       float64   `json:"price"`
	IsAvailable bool      `json:"is_available"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type medicinesResponse struct {
	Loading   bool               `json:"loading"`
	Medicines []medicineResponse `json:"medicines"`
}

type adResponse struct {
	ID        string    `json:"id"`
	URL       string    `json:"url,omitempty"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type adsResponse struct {
	Ads []adResponse `json:"ads"`
}

type favoritesResponse struct {
	Favorites []medicineResponse `json:"favorites"`
}

type toggleFavoriteResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

type chatMessageResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

type chatHistoryResponse struct {
	Messages []chatMessageResponse `json:"messages"`
}

type askRequest struct {
	Text string `json:"text"`
}

type askResponse struct {
	UserMessage      chatMessageResponse `json:"user_message"`
	AssistantMessage chatMessageResponse `json:"assistant_message"`
}

type loginRequest struct {
	Passcode string `json:"passcode"`
}

type loginResponse struct {
	Authenticated bool `json:"authenticated"`
}

type createMedicineRequest struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Price       *float64 `json:"price"`
	IsAvailable *bool    `json:"is_available"`
}

type updateMedicineRequest struct {
	Name        *string  `json:"name"`
	Type        *string  `json:"type"`
	Price       *float64 `json:"price"`
	IsAvailable *bool    `json:"is_available"`
}

type createAdRequest struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// ─────────────────────────────────────────────
// Storefront handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /medicines?q=&type=
func (s *Server) handleMedicines(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	query := r.URL.Query().Get("q")
	meds := s.pharmacy.SearchMedicines(query)

	if typeParam := r.URL.Query().Get("type"); typeParam != "" {
		t, ok := parseMedicineType(typeParam)
		if !ok {
			badRequest(w, "unknown medicine type")
			return
		}
		filtered := meds[:0]
		for _, m := range meds {
			if m.Type == t {
				filtered = append(filtered, m)
			}
		}
		meds = filtered
	}

	writeJSON(w, http.StatusOK, medicinesResponse{
		Loading:   s.pharmacy.Loading(),
		Medicines: toMedicinesResponse(meds),
	})
}

// GET /ads
func (s *Server) handleAds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	writeJSON(w, http.StatusOK, adsResponse{Ads: toAdsResponse(s.pharmacy.Ads())})
}

// GET /favorites
func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	writeJSON(w, http.StatusOK, favoritesResponse{
		Favorites: toMedicinesResponse(s.pharmacy.FavoriteMedicines()),
	})
}

// POST /favorites/{id}/toggle
func (s *Server) handleFavoriteWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/favorites/")
	parts := strings.Split(path, "/")

	if len(parts) != 2 || parts[0] == "" || parts[1] != "toggle" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	id := domain.MedicineID(parts[0])
	s.pharmacy.ToggleFavorite(id)

	writeJSON(w, http.StatusOK, toggleFavoriteResponse{
		ID:       parts[0],
		Favorite: s.pharmacy.IsFavorite(id),
	})
}

// GET /chat, POST /chat
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleChatHistory(w, r)
	case http.MethodPost:
		s.handleAsk(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, chatHistoryResponse{
		Messages: toChatResponse(s.pharmacy.ChatHistory()),
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	if !s.chatBusy.CompareAndSwap(false, true) {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{
			"error": "assistant call already in progress",
		})
		return
	}
	defer s.chatBusy.Store(false)

	userMsg := s.pharmacy.AddToChat(req.Text, domain.SenderUser)

	// Ask never fails; faults come back as the canned reply.
	replyText := s.assistant.Ask(r.Context(), req.Text)
	assistantMsg := s.pharmacy.AddToChat(replyText, domain.SenderAssistant)

	writeJSON(w, http.StatusOK, askResponse{
		UserMessage:      toChatMessageResponse(userMsg),
		AssistantMessage: toChatMessageResponse(assistantMsg),
	})
}

// ─────────────────────────────────────────────
// Admin handlers
// ─────────────────────────────────────────────

// withPasscode rejects admin requests whose passcode header does not
// match exactly.
func (s *Server) withPasscode(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.gate.Verify(r.Header.Get(passcodeHeader)) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": admin.ErrWrongPasscode.Error(),
			})
			return
		}
		next(w, r)
	}
}

// POST /admin/login
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if err := s.gate.Login(req.Passcode); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Authenticated: true})
}

// POST /admin/medicines
func (s *Server) handleAdminMedicines(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req createMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	// Presence checks only, mirroring the admin form.
	if strings.TrimSpace(req.Name) == "" {
		badRequest(w, "name is required")
		return
	}
	if req.Price == nil {
		badRequest(w, "price is required")
		return
	}

	medType, ok := parseMedicineType(req.Type)
	if !ok {
		badRequest(w, "unknown medicine type")
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	created := s.pharmacy.AddMedicine(r.Context(), domain.NewMedicine{
		Name:        req.Name,
		Type:        medType,
		Price:       *req.Price,
		IsAvailable: available,
	})
	if created == nil {
		// Remote failure degrades to "state did not change".
		s.writeMedicinesSnapshot(w, http.StatusOK)
		return
	}

	writeJSON(w, http.StatusCreated, toMedicineResponse(*created))
}

// PATCH /admin/medicines/{id}, DELETE /admin/medicines/{id}
func (s *Server) handleAdminMedicineWithID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/admin/medicines/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		s.handleUpdateMedicine(w, r, domain.MedicineID(id))
	case http.MethodDelete:
		s.pharmacy.RemoveMedicine(r.Context(), domain.MedicineID(id))
		s.writeMedicinesSnapshot(w, http.StatusOK)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleUpdateMedicine(w http.ResponseWriter, r *http.Request, id domain.MedicineID) {
	var req updateMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	upd := domain.MedicineUpdate{
		Name:        req.Name,
		Price:       req.Price,
		IsAvailable: req.IsAvailable,
	}
	if req.Type != nil {
		t, ok := parseMedicineType(*req.Type)
		if !ok {
			badRequest(w, "unknown medicine type")
			return
		}
		upd.Type = &t
	}

	updated := s.pharmacy.UpdateMedicine(r.Context(), id, upd)
	if updated == nil {
		s.writeMedicinesSnapshot(w, http.StatusOK)
		return
	}

	writeJSON(w, http.StatusOK, toMedicineResponse(*updated))
}

// POST /admin/ads
func (s *Server) handleAdminAds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req createAdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.URL == "" && req.Text == "" {
		badRequest(w, "url or text is required")
		return
	}

	created := s.pharmacy.AddAd(r.Context(), req.URL, req.Text)
	if created == nil {
		writeJSON(w, http.StatusOK, adsResponse{Ads: toAdsResponse(s.pharmacy.Ads())})
		return
	}

	writeJSON(w, http.StatusCreated, toAdResponse(*created))
}

// DELETE /admin/ads/{id}
func (s *Server) handleAdminAdWithID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/admin/ads/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}

	s.pharmacy.RemoveAd(r.Context(), domain.AdID(id))
	writeJSON(w, http.StatusOK, adsResponse{Ads: toAdsResponse(s.pharmacy.Ads())})
}

func (s *Server) writeMedicinesSnapshot(w http.ResponseWriter, status int) {
	writeJSON(w, status, medicinesResponse{
		Loading:   s.pharmacy.Loading(),
		Medicines: toMedicinesResponse(s.pharmacy.Medicines()),
	})
}

// ─────────────────────────────────────────────
// Mapping helpers
// ─────────────────────────────────────────────

func toMedicineResponse(m domain.Medicine) medicineResponse {
	return medicineResponse{
		ID:          string(m.ID),
		Name:        m.Name,
		Type:        string(m.Type),
		Price:       m.Price,
		IsAvailable: m.IsAvailable,
		ImageURL:    m.ImageURL,
		CreatedAt:   m.CreatedAt,
	}
}

func toMedicinesResponse(meds []domain.Medicine) []medicineResponse {
	out := make([]medicineResponse, 0, len(meds))
	for _, m := range meds {
		out = append(out, toMedicineResponse(m))
	}
	return out
}

func toAdResponse(a domain.Ad) adResponse {
	return adResponse{
		ID:        string(a.ID),
		URL:       a.URL,
		Text:      a.Text,
		CreatedAt: a.CreatedAt,
	}
}

func toAdsResponse(ads []domain.Ad) []adResponse {
	out := make([]adResponse, 0, len(ads))
	for _, a := range ads {
		out = append(out, toAdResponse(a))
	}
	return out
}

func toChatMessageResponse(m domain.ChatMessage) chatMessageResponse {
	return chatMessageResponse{
		ID:        string(m.ID),
		Text:      m.Text,
		Sender:    string(m.Sender),
		CreatedAt: m.CreatedAt,
	}
}

func toChatResponse(msgs []domain.ChatMessage) []chatMessageResponse {
	out := make([]chatMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toChatMessageResponse(m))
	}
	return out
}

// parseMedicineType accepts both the stored Arabic label and an ASCII
// alias for each type.
func parseMedicineType(s string) (domain.MedicineType, bool) {
	t := domain.MedicineType(s)
	if domain.ValidMedicineType(t) {
		return t, true
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tablet":
		return domain.TypeTablet, true
	case "syrup":
		return domain.TypeSyrup, true
	case "injection":
		return domain.TypeInjection, true
	case "suppository":
		return domain.TypeSuppository, true
	case "supplies", "medical_supplies":
		return domain.TypeSupplies, true
	}
	return "", false
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
