package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "github.com/saydali/saydali-api/internal/adapters/http"
	"github.com/saydali/saydali-api/internal/adapters/llm"
	"github.com/saydali/saydali-api/internal/adapters/storage/memory"
	"github.com/saydali/saydali-api/internal/app/admin"
	"github.com/saydali/saydali-api/internal/app/assistant"
	"github.com/saydali/saydali-api/internal/app/pharmacy"
	"github.com/saydali/saydali-api/internal/domain"
)

const testPasscode = "011"

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	return newTestServerWith(t, llm.NewMockAssistant())
}

func newTestServerWith(t *testing.T, llmClient domain.Assistant) http.Handler {
	t.Helper()

	catalogStore := memory.NewCatalogStore()
	adStore := memory.NewAdStore()

	pharmacySvc := pharmacy.NewService(catalogStore, adStore)
	pharmacySvc.Refresh(context.Background())

	assistantSvc := assistant.NewService(llmClient)
	gate := admin.NewGate(testPasscode)

	return httpadapter.NewServer(pharmacySvc, assistantSvc, gate)
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body any, passcode string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if passcode != "" {
		req.Header.Set("X-Admin-Passcode", passcode)
	}

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return v
}

type medicineJSON struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Price       float64 `json:"price"`
	IsAvailable bool    `json:"is_available"`
}

type medicinesJSON struct {
	Loading   bool           `json:"loading"`
	Medicines []medicineJSON `json:"medicines"`
}

type messageJSON struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/healthz", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAdminCreateThenBrowse(t *testing.T) {
	srv := newTestServer(t)

	price := 10.0
	w := doJSON(t, srv, http.MethodPost, "/admin/medicines", map[string]any{
		"name": "Panadol", "type": "tablet", "price": price, "is_available": true,
	}, testPasscode)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	created := decode[medicineJSON](t, w)
	if created.ID == "" {
		t.Fatal("expected remote-assigned id")
	}
	if created.Type != "برشام" {
		t.Fatalf("expected the stored Arabic label, got %q", created.Type)
	}

	w = doJSON(t, srv, http.MethodGet, "/medicines", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	list := decode[medicinesJSON](t, w)
	if list.Loading {
		t.Fatal("expected loading false after startup fetch")
	}
	if len(list.Medicines) != 1 || list.Medicines[0].ID != created.ID {
		t.Fatalf("expected the created medicine in the catalog, got %+v", list.Medicines)
	}
}

func TestSearchQuery(t *testing.T) {
	srv := newTestServer(t)

	for _, name := range []string{"Panadol Extra", "Brufen"} {
		w := doJSON(t, srv, http.MethodPost, "/admin/medicines", map[string]any{
			"name": name, "type": "tablet", "price": 10,
		}, testPasscode)
		if w.Code != http.StatusCreated {
			t.Fatalf("create %q: expected 201, got %d", name, w.Code)
		}
	}

	w := doJSON(t, srv, http.MethodGet, "/medicines?q=panadol", nil, "")
	list := decode[medicinesJSON](t, w)
	if len(list.Medicines) != 1 || list.Medicines[0].Name != "Panadol Extra" {
		t.Fatalf("expected only the panadol match, got %+v", list.Medicines)
	}
}

func TestAdminRejectsWrongPasscode(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/admin/medicines", map[string]any{
		"name": "Panadol", "type": "tablet", "price": 10,
	}, "000")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	resp := decode[map[string]string](t, w)
	if resp["error"] == "" {
		t.Fatal("expected a visible error message")
	}

	// The catalog stayed empty.
	list := decode[medicinesJSON](t, doJSON(t, srv, http.MethodGet, "/medicines", nil, ""))
	if len(list.Medicines) != 0 {
		t.Fatalf("expected empty catalog, got %+v", list.Medicines)
	}
}

func TestAdminLogin(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/admin/login", map[string]string{"passcode": "999"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong passcode, got %d", w.Code)
	}
	resp := decode[map[string]string](t, w)
	if resp["error"] != "كلمة المرور غير صحيحة" {
		t.Fatalf("expected the inline Arabic error, got %q", resp["error"])
	}

	w = doJSON(t, srv, http.MethodPost, "/admin/login", map[string]string{"passcode": testPasscode}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestUpdateAndDeleteMedicine(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/admin/medicines", map[string]any{
		"name": "Panadol", "type": "tablet", "price": 10, "is_available": true,
	}, testPasscode)
	created := decode[medicineJSON](t, w)

	w = doJSON(t, srv, http.MethodPatch, "/admin/medicines/"+created.ID, map[string]any{
		"price": 12,
	}, testPasscode)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	updated := decode[medicineJSON](t, w)
	if updated.Price != 12 || updated.Name != "Panadol" || !updated.IsAvailable {
		t.Fatalf("expected only price to change, got %+v", updated)
	}

	w = doJSON(t, srv, http.MethodDelete, "/admin/medicines/"+created.ID, nil, testPasscode)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	list := decode[medicinesJSON](t, doJSON(t, srv, http.MethodGet, "/medicines", nil, ""))
	if len(list.Medicines) != 0 {
		t.Fatalf("expected empty catalog after delete, got %+v", list.Medicines)
	}
}

func TestFavoritesToggleAndJoin(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/admin/medicines", map[string]any{
		"name": "Panadol", "type": "tablet", "price": 10,
	}, testPasscode)
	created := decode[medicineJSON](t, w)

	w = doJSON(t, srv, http.MethodPost, "/favorites/"+created.ID+"/toggle", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	favs := decode[struct {
		Favorites []medicineJSON `json:"favorites"`
	}](t, doJSON(t, srv, http.MethodGet, "/favorites", nil, ""))
	if len(favs.Favorites) != 1 || favs.Favorites[0].ID != created.ID {
		t.Fatalf("expected the toggled medicine in favorites, got %+v", favs.Favorites)
	}

	// Second toggle restores the original membership.
	doJSON(t, srv, http.MethodPost, "/favorites/"+created.ID+"/toggle", nil, "")
	favs = decode[struct {
		Favorites []medicineJSON `json:"favorites"`
	}](t, doJSON(t, srv, http.MethodGet, "/favorites", nil, ""))
	if len(favs.Favorites) != 0 {
		t.Fatalf("expected empty favorites after second toggle, got %+v", favs.Favorites)
	}
}

func TestChatRecordsBothSides(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/chat", map[string]string{"text": "هل عندكم بنادول؟"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	resp := decode[struct {
		UserMessage      messageJSON `json:"user_message"`
		AssistantMessage messageJSON `json:"assistant_message"`
	}](t, w)

	if resp.UserMessage.Sender != "user" || resp.UserMessage.Text != "هل عندكم بنادول؟" {
		t.Fatalf("unexpected user message %+v", resp.UserMessage)
	}
	if resp.AssistantMessage.Sender != "assistant" || resp.AssistantMessage.Text == "" {
		t.Fatalf("unexpected assistant message %+v", resp.AssistantMessage)
	}

	history := decode[struct {
		Messages []messageJSON `json:"messages"`
	}](t, doJSON(t, srv, http.MethodGet, "/chat", nil, ""))
	if len(history.Messages) != 2 {
		t.Fatalf("expected 2 messages in history, got %d", len(history.Messages))
	}
	if history.Messages[0].Sender != "user" || history.Messages[1].Sender != "assistant" {
		t.Fatalf("expected user then assistant, got %+v", history.Messages)
	}
}

// gatedAssistant blocks inside Reply until released, so a test can
// hold one chat call outstanding while it issues another.
type gatedAssistant struct {
	entered chan struct{}
	release chan struct{}
}

func (a *gatedAssistant) Reply(ctx context.Context, userMessage string) (string, error) {
	a.entered <- struct{}{}
	<-a.release
	return "نعم، متوفر.", nil
}

func TestChatRejectsOverlappingAsk(t *testing.T) {
	gated := &gatedAssistant{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	srv := newTestServerWith(t, gated)

	firstDone := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		body := bytes.NewBufferString(`{"text":"هل عندكم بنادول؟"}`)
		req := httptest.NewRequest(http.MethodPost, "/chat", body)
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		firstDone <- w
	}()

	// Wait until the first call is inside the assistant, then ask again
	// while it is still outstanding.
	<-gated.entered

	w := doJSON(t, srv, http.MethodPost, "/chat", map[string]string{"text": "وسعره؟"}, "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 while a call is outstanding, got %d, body=%s", w.Code, w.Body.String())
	}
	resp := decode[map[string]string](t, w)
	if resp["error"] == "" {
		t.Fatal("expected an error body on the rejected call")
	}

	close(gated.release)
	first := <-firstDone
	if first.Code != http.StatusOK {
		t.Fatalf("expected the outstanding call to finish with 200, got %d", first.Code)
	}

	// Only the first exchange landed; the rejected call recorded nothing.
	history := decode[struct {
		Messages []messageJSON `json:"messages"`
	}](t, doJSON(t, srv, http.MethodGet, "/chat", nil, ""))
	if len(history.Messages) != 2 {
		t.Fatalf("expected exactly the first exchange in history, got %d messages", len(history.Messages))
	}
	if history.Messages[0].Text != "هل عندكم بنادول؟" || history.Messages[1].Sender != "assistant" {
		t.Fatalf("unexpected history %+v", history.Messages)
	}
}

func TestCreateAndDeleteAd(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/admin/ads", map[string]string{
		"text": "خصم ٢٠٪ هذا الأسبوع",
	}, testPasscode)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	created := decode[struct {
		ID string `json:"id"`
	}](t, w)

	w = doJSON(t, srv, http.MethodDelete, "/admin/ads/"+created.ID, nil, testPasscode)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	ads := decode[struct {
		Ads []struct {
			ID string `json:"id"`
		} `json:"ads"`
	}](t, doJSON(t, srv, http.MethodGet, "/ads", nil, ""))
	if len(ads.Ads) != 0 {
		t.Fatalf("expected no ads left, got %+v", ads.Ads)
	}
}

func TestCreateAdRequiresContent(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/admin/ads", map[string]string{}, testPasscode)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an empty ad, got %d", w.Code)
	}
}
