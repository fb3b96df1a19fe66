package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "github.com/saydali/saydali-api/internal/adapters/http"
	"github.com/saydali/saydali-api/internal/adapters/llm"
	firestorestore "github.com/saydali/saydali-api/internal/adapters/storage/firestore"
	memstore "github.com/saydali/saydali-api/internal/adapters/storage/memory"
	"github.com/saydali/saydali-api/internal/app/admin"
	"github.com/saydali/saydali-api/internal/app/assistant"
	"github.com/saydali/saydali-api/internal/app/pharmacy"
	"github.com/saydali/saydali-api/internal/config"
	"github.com/saydali/saydali-api/internal/domain"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// Assistant: Gemini or mock (useful for dev and tests)
	var (
		llmClient domain.Assistant
		err       error
	)

	if cfg.UseMockLLM {
		log.Println("[LLM] Using MOCK assistant")
		llmClient = llm.NewMockAssistant()
	} else {
		log.Println("[LLM] Using Gemini assistant", "model:", cfg.ModelName)
		llmClient, err = llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.ModelName)
		if err != nil {
			log.Fatalf("error initializing Gemini client: %v", err)
		}
	}

	// Remote data store: Firestore or memory
	var catalogStore domain.CatalogStore
	var adStore domain.AdStore

	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}

		// 1 store, implements 2 interfaces
		catalogStore = fsStore
		adStore = fsStore

	default:
		log.Println("[STORE] Using in-memory storage")
		catalogStore = memstore.NewCatalogStore()
		adStore = memstore.NewAdStore()
	}

	// Shared application state: load both collections once at startup.
	pharmacySvc := pharmacy.NewService(catalogStore, adStore)
	pharmacySvc.Refresh(ctx)

	assistantSvc := assistant.NewService(llmClient)
	gate := admin.NewGate(cfg.AdminPasscode)

	handler := httpadapter.NewServer(pharmacySvc, assistantSvc, gate)

	port := ":" + cfg.Port
	log.Println("Saydali API listening on port:", port)
	if err := http.ListenAndServe(port, handler); err != nil {
		log.Fatal(err)
	}
}
