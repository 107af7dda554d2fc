package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/moonmap/refcomb/app/store"
)

type stubUpdater struct {
	err    error
	called int
}

func (s *stubUpdater) Run(ctx context.Context) error {
	s.called++
	return s.err
}

func testStore(t *testing.T) *store.Store {
	t.Helper()

	content := "Platform Name,Category,Referral Link,status,currentDeals\n" +
		"Kraken,CEX,https://kraken.example/ref,Active,Professional trading platform\n" +
		"Uniswap,DEX,https://uniswap.example/ref,Unknown,Check platform for current offers\n" +
		"Aave,DeFi,,Unknown,Check platform for offers\n"

	path := filepath.Join(t.TempDir(), "ref_links.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write store file: %v", err)
	}
	return store.New(path)
}

func serveRequest(handler http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	return body
}

func TestGetPlatforms(t *testing.T) {
	server := NewServer(NewHandler(testStore(t), &stubUpdater{}), "")

	w := serveRequest(server, "GET", "/api/platforms", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["success"] != true {
		t.Error("Expected success true")
	}
	if body["lastUpdated"] == nil || body["lastUpdated"] == "" {
		t.Error("Expected a lastUpdated timestamp")
	}

	data, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("Expected data array, got %T", body["data"])
	}
	if len(data) != 3 {
		t.Fatalf("Expected 3 platforms, got %d", len(data))
	}

	first, _ := data[0].(map[string]any)
	if first["Platform Name"] != "Kraken" {
		t.Errorf("Expected first platform Kraken, got %v", first["Platform Name"])
	}
	if first["currentDeals"] != "Professional trading platform" {
		t.Errorf("Unexpected deals for first platform: %v", first["currentDeals"])
	}
}

func TestGetPlatforms_StoreMissing(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "missing.csv"))
	server := NewServer(NewHandler(st, &stubUpdater{}), "")

	w := serveRequest(server, "GET", "/api/platforms", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["success"] != false {
		t.Error("Expected success false")
	}
}

func TestGetPlatformsByCategory(t *testing.T) {
	server := NewServer(NewHandler(testStore(t), &stubUpdater{}), "")

	// Category match is case-insensitive.
	w := serveRequest(server, "GET", "/api/platforms/dex", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["category"] != "dex" {
		t.Errorf("Expected echoed category 'dex', got %v", body["category"])
	}

	data, _ := body["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("Expected 1 DEX platform, got %d", len(data))
	}
	record, _ := data[0].(map[string]any)
	if record["Platform Name"] != "Uniswap" {
		t.Errorf("Expected Uniswap, got %v", record["Platform Name"])
	}
}

func TestGetPlatformsByCategory_NoMatches(t *testing.T) {
	server := NewServer(NewHandler(testStore(t), &stubUpdater{}), "")

	w := serveRequest(server, "GET", "/api/platforms/wallet", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Unknown category must still be a 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["success"] != true {
		t.Error("Expected success true for an empty category")
	}
	data, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("Expected an empty array, got %T", body["data"])
	}
	if len(data) != 0 {
		t.Errorf("Expected no platforms, got %d", len(data))
	}
}

func TestGetPlatformByName(t *testing.T) {
	server := NewServer(NewHandler(testStore(t), &stubUpdater{}), "")

	w := serveRequest(server, "GET", "/api/platform/kraken", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	record, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("Expected a single record object, got %T", body["data"])
	}
	if record["Platform Name"] != "Kraken" {
		t.Errorf("Expected Kraken, got %v", record["Platform Name"])
	}
	if record["Referral Link"] != "https://kraken.example/ref" {
		t.Errorf("Unexpected referral link: %v", record["Referral Link"])
	}
}

func TestGetPlatformByName_NotFound(t *testing.T) {
	server := NewServer(NewHandler(testStore(t), &stubUpdater{}), "")

	w := serveRequest(server, "GET", "/api/platform/binance", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["error"] != "Platform not found" {
		t.Errorf("Unexpected error message: %v", body["error"])
	}
}

func TestTriggerUpdate(t *testing.T) {
	updater := &stubUpdater{}
	server := NewServer(NewHandler(testStore(t), updater), "")

	w := serveRequest(server, "POST", "/api/update", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if updater.called != 1 {
		t.Errorf("Expected one update run, got %d", updater.called)
	}

	body := decodeBody(t, w)
	if body["message"] != "Data updated successfully" {
		t.Errorf("Unexpected message: %v", body["message"])
	}
}

func TestTriggerUpdate_Failure(t *testing.T) {
	updater := &stubUpdater{err: fmt.Errorf("failed to load record store: boom")}
	server := NewServer(NewHandler(testStore(t), updater), "")

	w := serveRequest(server, "POST", "/api/update", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["success"] != false {
		t.Error("Expected success false")
	}
}

func TestTriggerUpdate_Auth(t *testing.T) {
	updater := &stubUpdater{}
	server := NewServer(NewHandler(testStore(t), updater), "secret-key")

	// No key at all.
	w := serveRequest(server, "POST", "/api/update", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without a key, got %d", w.Code)
	}

	// Wrong key.
	w = serveRequest(server, "POST", "/api/update", map[string]string{"X-API-Key": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 with a wrong key, got %d", w.Code)
	}

	if updater.called != 0 {
		t.Fatalf("Rejected requests must not run the update, got %d runs", updater.called)
	}

	// Correct key via X-API-Key.
	w = serveRequest(server, "POST", "/api/update", map[string]string{"X-API-Key": "secret-key"})
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 with the right key, got %d", w.Code)
	}

	// Correct key via Authorization: Bearer.
	w = serveRequest(server, "POST", "/api/update", map[string]string{"Authorization": "Bearer secret-key"})
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 with a bearer key, got %d", w.Code)
	}

	if updater.called != 2 {
		t.Errorf("Expected 2 update runs, got %d", updater.called)
	}
}

func TestGetHealth(t *testing.T) {
	server := NewServer(NewHandler(testStore(t), &stubUpdater{}), "")

	w := serveRequest(server, "GET", "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", body["status"])
	}
	if body["timestamp"] == nil {
		t.Error("Expected a timestamp")
	}
	if _, ok := body["uptime"].(float64); !ok {
		t.Errorf("Expected a numeric uptime, got %T", body["uptime"])
	}
}

func TestCORSPreflight(t *testing.T) {
	server := NewServer(NewHandler(testStore(t), &stubUpdater{}), "")

	w := serveRequest(server, "OPTIONS", "/api/platforms", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected a wildcard CORS origin header")
	}
}
