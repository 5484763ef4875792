package simplybook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"strizh/config"
)

func testServer(t *testing.T, handler func(method string, w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad rpc request: %v", err)
		}
		handler(req.Method, w, r)
	}))
}

func newTestClient(baseURL string) *Client {
	return NewClient(config.SimplyBookConfig{
		BaseURL: baseURL,
		Company: "strizh",
		APIKey:  "secret",
		Timeout: 5 * time.Second,
	}, zap.NewNop())
}

func writeResult(w http.ResponseWriter, result interface{}) {
	raw, _ := json.Marshal(result)
	json.NewEncoder(w).Encode(rpcResponse{Result: raw})
}

func TestGetUnitList(t *testing.T) {
	var tokenRequests int
	srv := testServer(t, func(method string, w http.ResponseWriter, r *http.Request) {
		switch method {
		case "getToken":
			tokenRequests++
			writeResult(w, "token-123")
		case "getUnitList":
			if r.Header.Get("X-Token") != "token-123" {
				t.Errorf("expected X-Token header, got %q", r.Header.Get("X-Token"))
			}
			if r.Header.Get("X-Company-Login") != "strizh" {
				t.Errorf("expected X-Company-Login header, got %q", r.Header.Get("X-Company-Login"))
			}
			writeResult(w, map[string]Unit{
				"1": {ID: 1, Name: "Иван", IsVisible: true},
				"2": {ID: 2, Name: "Петр", IsVisible: true},
			})
		default:
			t.Errorf("unexpected method %q", method)
		}
	})
	defer srv.Close()

	c := newTestClient(srv.URL)

	units, err := c.GetUnitList(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}

	// токен кешируется между вызовами
	if _, err := c.GetUnitList(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokenRequests != 1 {
		t.Fatalf("expected a single token request, got %d", tokenRequests)
	}
}

func TestGetEventList_RPCError(t *testing.T) {
	srv := testServer(t, func(method string, w http.ResponseWriter, r *http.Request) {
		switch method {
		case "getToken":
			writeResult(w, "token-123")
		case "getEventList":
			json.NewEncoder(w).Encode(rpcResponse{Error: &rpcError{Code: -32001, Message: "access denied"}})
		}
	})
	defer srv.Close()

	c := newTestClient(srv.URL)

	if _, err := c.GetEventList(context.Background()); err == nil {
		t.Fatalf("expected rpc error")
	}
}

func TestBook(t *testing.T) {
	srv := testServer(t, func(method string, w http.ResponseWriter, r *http.Request) {
		switch method {
		case "getToken":
			writeResult(w, "token-123")
		case "book":
			writeResult(w, map[string]string{"code": "ABC123"})
		}
	})
	defer srv.Close()

	c := newTestClient(srv.URL)

	code, err := c.Book(context.Background(), BookingRequest{
		EventID:     5,
		UnitID:      2,
		Date:        "2025-09-06",
		Time:        "10:00",
		ClientName:  "Сергей",
		ClientPhone: "+79990001122",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "ABC123" {
		t.Fatalf("expected booking code ABC123, got %q", code)
	}
}

func TestNotConfigured(t *testing.T) {
	c := NewClient(config.SimplyBookConfig{BaseURL: "http://localhost"}, zap.NewNop())

	if c.Configured() {
		t.Fatalf("client without credentials must not be configured")
	}
	if _, err := c.GetUnitList(context.Background()); err == nil {
		t.Fatalf("unconfigured client must return an error")
	}
}
