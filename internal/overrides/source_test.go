package overrides

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/overrides/description" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"5": "five"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/overrides/", nil)
	m, err := c.Fetch(context.Background(), KindDescription)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if m["5"].Value != "five" {
		t.Fatalf("map = %+v", m)
	}
}

func TestClientFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, nil).Fetch(context.Background(), KindCategory); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestClientSave(t *testing.T) {
	var got saveRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/category" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"status":"ok","updated_at":"2024-03-01T10:00:00Z"}`))
	}))
	defer srv.Close()

	o, err := NewClient(srv.URL, srv.Client()).Save(context.Background(), KindCategory, "12", "twists")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got.Key != "12" || got.Value != "twists" {
		t.Fatalf("request body = %+v", got)
	}
	if o.Value != "twists" || !o.UpdatedAt.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("override = %+v", o)
	}
}

func TestClientSaveRejected(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"status not ok", http.StatusOK, `{"status":"error","error":"read only"}`, "read only"},
		{"http failure", http.StatusBadGateway, `not json`, "status 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, nil).Save(context.Background(), KindDescription, "1", "x")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestClientSaveBlankCategory(t *testing.T) {
	if _, err := NewClient("http://127.0.0.1:1", nil).Save(context.Background(), KindCategory, "1", " "); err == nil {
		t.Fatal("expected error for blank category")
	}
}

func TestClientDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Query().Get("key") != "9a" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.String())
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := NewClient(srv.URL, nil).Delete(context.Background(), KindDescription, "9a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
