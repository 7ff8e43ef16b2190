package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWherePlatform(t *testing.T) {
	tests := []struct {
		name     string
		baseBody string
		want     string
	}{
		{
			name:     "merges into existing where clause",
			baseBody: "fields name, cover.image_id; where total_rating_count > 10;",
			want:     "fields name, cover.image_id; where platforms = (7) & total_rating_count > 10;",
		},
		{
			name:     "appends when no where clause",
			baseBody: "fields name, cover.image_id;",
			want:     "fields name, cover.image_id; where platforms = (7);",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WherePlatform(tt.baseBody, "7"); got != tt.want {
				t.Errorf("WherePlatform() = %q, want %q", got, tt.want)
			}
		})
	}
}

type staticHeaders map[string]string

func (h staticHeaders) AuthHeaders() map[string]string { return h }

func TestQuerySetsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Client-ID"); got != "test-id" {
			t.Errorf("Client-ID = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "text/plain" {
			t.Errorf("Content-Type = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "fields name; limit 1;" {
			t.Errorf("body = %q", body)
		}
		_, _ = w.Write([]byte(`[{"id": 1, "name": "Super Metroid"}]`))
	}))
	defer srv.Close()

	client := NewClient(staticHeaders{"Client-ID": "test-id", "Authorization": "Bearer tok"})
	records, err := client.Query(context.Background(), srv.URL, "fields name; limit 1;")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(records) != 1 || records[0]["name"] != "Super Metroid" {
		t.Errorf("records = %v", records)
	}
}

func TestQueryErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`[{"title": "Syntax Error"}]`))
	}))
	defer srv.Close()

	client := NewClient(staticHeaders{})
	_, err := client.Query(context.Background(), srv.URL, "nonsense;")

	apiErr, ok := err.(APIError)
	if !ok {
		t.Fatalf("Query() error = %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
	if apiErr.Body == "" {
		t.Error("Body is empty, want remote body")
	}
}

func TestQueryAllBatches(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))

		// first page full, second page short => early stop
		count := UpperBatchLimit
		if len(bodies) > 1 {
			count = 10
		}
		records := make([]Record, count)
		for i := range records {
			records[i] = Record{"id": float64(i)}
		}
		_ = json.NewEncoder(w).Encode(records)
	}))
	defer srv.Close()

	client := NewClient(staticHeaders{})
	records, err := client.QueryAll(context.Background(), srv.URL, "fields id;", 500)
	if err != nil {
		t.Fatalf("QueryAll() error = %v", err)
	}

	if len(bodies) != 2 {
		t.Fatalf("requests = %d, want 2 (short page stops paging)", len(bodies))
	}
	wantFirst := fmt.Sprintf("fields id; limit %d; offset 0;", UpperBatchLimit)
	if bodies[0] != wantFirst {
		t.Errorf("first body = %q, want %q", bodies[0], wantFirst)
	}
	wantSecond := fmt.Sprintf("fields id; limit %d; offset %d;", UpperBatchLimit, UpperBatchLimit)
	if bodies[1] != wantSecond {
		t.Errorf("second body = %q, want %q", bodies[1], wantSecond)
	}
	if len(records) != UpperBatchLimit+10 {
		t.Errorf("records = %d, want %d", len(records), UpperBatchLimit+10)
	}
}

func TestQueryAllSingleRequestUnderLimit(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(staticHeaders{})
	if _, err := client.QueryAll(context.Background(), srv.URL, "fields id;", 25); err != nil {
		t.Fatalf("QueryAll() error = %v", err)
	}
	if len(bodies) != 1 || bodies[0] != "fields id; limit 25;" {
		t.Errorf("bodies = %v, want single request with limit 25", bodies)
	}
}
