package prospectsavant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prospectlab/rule5-board/internal/domain/prospect"
	"github.com/prospectlab/rule5-board/internal/platform/logging"
	"github.com/prospectlab/rule5-board/internal/platform/resilience"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL,
		Logger:         logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})
}

func TestClientFetchHitters_ScalesScoreAndMapsFields(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/leaders/hitters/AAA/2025/0/16/28" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("user-agent"); got != defaultUserAgent {
			t.Fatalf("unexpected user agent: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"name":"jon singleton ","age":27.2,"Position":"1B/DH","score_p":0.82,"xba":0.261,"xslg":0.47,"ev":91.5,"barrelpa":9.8,"chaserate":24.1,"krate":26.4,"bbrate":13.9,"xwoba":0.36,"spd":3.1,"pa":412},
			{"name":"No Score","age":24,"Position":"OF"}
		]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv)

	records, err := client.FetchHitters(context.Background(), 2025)
	if err != nil {
		t.Fatalf("fetch hitters failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got=%d", len(records))
	}

	first := records[0]
	if first.Name != "jon singleton" {
		t.Fatalf("expected trimmed provider name, got=%q", first.Name)
	}
	if first.Position != "1B" {
		t.Fatalf("expected primary position 1B, got=%q", first.Position)
	}
	if first.ProspectScore == nil || *first.ProspectScore != 82 {
		t.Fatalf("expected score scaled to 82, got=%v", first.ProspectScore)
	}
	if first.PlayerType != prospect.PlayerTypeHitter {
		t.Fatalf("expected hitter type, got=%s", first.PlayerType)
	}
	if first.SprintSpeed == nil || *first.SprintSpeed != 3.1 {
		t.Fatalf("unexpected sprint speed: %v", first.SprintSpeed)
	}

	second := records[1]
	if second.ProspectScore != nil {
		t.Fatalf("expected missing score to stay nil, got=%v", second.ProspectScore)
	}
}

func TestClientFetchPitchers_DefaultsPosition(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/leaders/pitchers/AAA/2024/0/16/28" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"name":"Arm Guy","age":23.5,"score_p":0.91,"max_velo":99.1,"xba":0.204,"xwoba":0.276,"krate":31.2,"bbrate":7.7,"chaserate":30.5,"whiffrate":33.4,"ip":58.1},
			{"name":"Listed Starter","age":24,"Position":"SP","score_p":0.66}
		]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv)

	records, err := client.FetchPitchers(context.Background(), 2024)
	if err != nil {
		t.Fatalf("fetch pitchers failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got=%d", len(records))
	}

	first := records[0]
	if first.Position != "P" {
		t.Fatalf("expected defaulted position P, got=%q", first.Position)
	}
	if first.PlayerType != prospect.PlayerTypePitcher {
		t.Fatalf("expected pitcher type, got=%s", first.PlayerType)
	}
	if first.MaxVelo == nil || *first.MaxVelo != 99.1 {
		t.Fatalf("unexpected max velo: %v", first.MaxVelo)
	}
	if first.ProspectScore == nil || *first.ProspectScore != 91 {
		t.Fatalf("expected score scaled to 91, got=%v", first.ProspectScore)
	}

	if records[1].Position != "SP" {
		t.Fatalf("expected listed position kept, got=%q", records[1].Position)
	}
}

func TestClientFetch_MissingDataKeyYieldsNoRows(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"rebuilding"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv)

	records, err := client.FetchHitters(context.Background(), 2025)
	if err != nil {
		t.Fatalf("missing data key should not error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got=%d", len(records))
	}
}

func TestClientFetch_ValidatesSeason(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})

	if _, err := client.FetchHitters(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero season")
	}
	if _, err := client.FetchPitchers(context.Background(), -1); err == nil {
		t.Fatal("expected error for negative season")
	}
}

func TestClientFetch_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"blocked"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv)

	if _, err := client.FetchPitchers(context.Background(), 2025); err == nil {
		t.Fatal("expected error for 403 response")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt for a non-retryable status, got=%d", calls.Load())
	}
}
