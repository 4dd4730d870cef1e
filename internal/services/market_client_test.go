package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMarketClientDisabled(t *testing.T) {
	client := NewMarketClient("", "", 2)
	if client.IsEnabled() {
		t.Error("Client with no base URL should be disabled")
	}
	if _, err := client.GetPrice(context.Background(), "Pikachu", "Base Set"); err == nil {
		t.Error("Disabled client should return an error")
	}
}

func TestMarketClientGetPrice(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/v1/prices" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("name"); got != "Pikachu" {
			t.Errorf("Expected name=Pikachu, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Expected bearer auth header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Pikachu","set_name":"Base Set","market_price":23.5}`))
	}))
	defer server.Close()

	client := NewMarketClient(server.URL, "test-key", 100)

	price, err := client.GetPrice(context.Background(), "Pikachu", "Base Set")
	if err != nil {
		t.Fatalf("GetPrice failed: %v", err)
	}
	if price == nil || *price != 23.5 {
		t.Fatalf("Expected price 23.5, got %v", price)
	}

	// Second lookup should be served from cache.
	if _, err := client.GetPrice(context.Background(), "Pikachu", "Base Set"); err != nil {
		t.Fatalf("Cached GetPrice failed: %v", err)
	}
	if requests != 1 {
		t.Errorf("Expected 1 backend request, got %d", requests)
	}
}

func TestMarketClientNullPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Obscure Promo","set_name":"","market_price":null}`))
	}))
	defer server.Close()

	client := NewMarketClient(server.URL, "", 100)

	price, err := client.GetPrice(context.Background(), "Obscure Promo", "")
	if err != nil {
		t.Fatalf("GetPrice failed: %v", err)
	}
	if price != nil {
		t.Errorf("Expected nil price for null market data, got %v", *price)
	}
}

func TestMarketClientNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewMarketClient(server.URL, "", 100)

	price, err := client.GetPrice(context.Background(), "No Such Card", "")
	if err != nil {
		t.Fatalf("404 should not be an error: %v", err)
	}
	if price != nil {
		t.Errorf("Expected nil price for unknown card, got %v", *price)
	}
}

func TestMarketClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewMarketClient(server.URL, "", 100)

	if _, err := client.GetPrice(context.Background(), "Pikachu", "Base Set"); err == nil {
		t.Error("Expected an error for a 500 response")
	}
}
