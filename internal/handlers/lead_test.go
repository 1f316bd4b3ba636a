package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ggorockee/leadmaps/internal/search"
	"github.com/ggorockee/leadmaps/internal/services"
	"github.com/gofiber/fiber/v2"
)

type stubStore struct {
	rows  []search.LeadRow
	err   error
	preds []search.Predicate
}

func (s *stubStore) FindLeads(_ context.Context, preds []search.Predicate, _ int) ([]search.LeadRow, error) {
	s.preds = preds
	return s.rows, s.err
}

func newLeadApp(store services.LeadStore) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	SetupLeadRoutes(app.Group("/v1/leads"), services.NewLeadService(store, nil))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestSearchReturnsLiveResults(t *testing.T) {
	rating := 4.7
	store := &stubStore{rows: []search.LeadRow{{BusinessID: 5, Name: "Live Bakery", Category: "베이커리", Source: "seed", Rating: &rating}}}
	app := newLeadApp(store)

	status, body := doJSON(t, app, "POST", "/v1/leads/search", `{"category":"베이커리","minRating":"4"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	var resp SearchResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != 5 || *resp.Results[0].Signals.Rating != 4.7 {
		t.Errorf("unexpected results: %+v", resp.Results)
	}
	if len(store.preds) != 2 {
		t.Errorf("expected 2 predicates, got %d", len(store.preds))
	}
}

func TestSearchEmptyStoreUsesFallback(t *testing.T) {
	status, body := doJSON(t, newLeadApp(&stubStore{}), "POST", "/v1/leads/search", ``)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if !strings.Contains(body, `"source":"mock"`) {
		t.Errorf("expected mock rows, got %s", body)
	}
}

func TestSearchRejectsInvalidFilter(t *testing.T) {
	app := newLeadApp(&stubStore{})

	for _, body := range []string{`{"limit":0}`, `{"minRating":5.1}`, `{"limit":201}`, `{not json`, `{"hiring":"<svg onload=x>"}`} {
		status, resp := doJSON(t, app, "POST", "/v1/leads/search", body)
		if status != fiber.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, status)
		}
		if !strings.Contains(resp, msgInvalidFilter) {
			t.Errorf("%s: expected the generic message, got %s", body, resp)
		}
		if strings.Contains(resp, "svg") {
			t.Errorf("raw value echoed back: %s", resp)
		}
	}
}

func TestSearchHidesDriverErrors(t *testing.T) {
	store := &stubStore{err: errors.New(`FATAL: password authentication failed for user "leadmaps"`)}
	status, body := doJSON(t, newLeadApp(store), "POST", "/v1/leads/search", `{}`)

	if status != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if strings.Contains(body, "password") || !strings.Contains(body, msgSearchFailed) {
		t.Errorf("expected the generic error only, got %s", body)
	}
}

func TestSearchQueryString(t *testing.T) {
	store := &stubStore{}
	status, body := doJSON(t, newLeadApp(store), "GET", "/v1/leads/search?hiring=false&keywords=%20%20&limit=3", "")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if len(store.preds) != 1 || store.preds[0].Field != search.FieldHiring || store.preds[0].Bool {
		t.Errorf("expected a single hiring=false predicate, got %+v", store.preds)
	}
}

func TestExportCSV(t *testing.T) {
	app := newLeadApp(&stubStore{})
	req := httptest.NewRequest("POST", "/v1/leads/export",
		strings.NewReader(`{"rows":[{"id":1,"name":"Jane, \"JJ\" Doe","signals":{"hiring":true}}]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "leads.csv") {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if !strings.Contains(string(body), `"Jane, ""JJ"" Doe"`) || !strings.Contains(string(body), "예") {
		t.Errorf("unexpected CSV body:\n%s", body)
	}
}

func TestExportRejectsMalformedBody(t *testing.T) {
	status, _ := doJSON(t, newLeadApp(&stubStore{}), "POST", "/v1/leads/export", `{"rows": "nope"}`)
	if status != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
}

func TestNewLeadHandlerHoldsLogger(t *testing.T) {
	h := NewLeadHandler(services.NewLeadService(&stubStore{}, nil))
	if h.log == nil {
		t.Fatal("handler should keep its named logger")
	}
}
