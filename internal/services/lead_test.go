package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ggorockee/leadmaps/internal/database"
	"github.com/ggorockee/leadmaps/internal/search"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeStore struct {
	rows  []search.LeadRow
	err   error
	calls int
	preds []search.Predicate
	limit int
}

func (f *fakeStore) FindLeads(_ context.Context, preds []search.Predicate, limit int) ([]search.LeadRow, error) {
	f.calls++
	f.preds = preds
	f.limit = limit
	return f.rows, f.err
}

func parse(t *testing.T, raw map[string]any) search.Filter {
	t.Helper()
	f, err := search.ParseFilter(raw)
	if err != nil {
		t.Fatalf("ParseFilter failed: %v", err)
	}
	return f
}

func TestLeadSearchLiveRows(t *testing.T) {
	score := 90.0
	store := &fakeStore{rows: []search.LeadRow{{BusinessID: 1, Name: "Live", Source: "seed", Score: &score}}}
	svc := NewLeadService(store, nil)

	results, err := svc.Search(context.Background(), parse(t, map[string]any{"hiring": true, "limit": 10.0}))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 1 || results[0].Source != "seed" || results[0].Score != 90 {
		t.Errorf("expected the projected live row, got %+v", results)
	}
	if store.limit != 10 || len(store.preds) != 1 {
		t.Errorf("store got limit=%d preds=%d", store.limit, len(store.preds))
	}
}

func TestLeadSearchFallsBackOnEmpty(t *testing.T) {
	store := &fakeStore{}
	fb := search.NewFallback(
		search.ResultRow{ID: 1, Name: "A", Category: "Café"},
		search.ResultRow{ID: 2, Name: "B", Category: "Dentist"},
	)
	svc := NewLeadService(store, fb)

	results, err := svc.Search(context.Background(), parse(t, map[string]any{"category": "Café"}))
	if err != nil {
		t.Fatalf("empty live result must not be an error: %v", err)
	}
	if len(results) != 1 || results[0].ID != 1 {
		t.Fatalf("expected only row A, got %+v", results)
	}
	if results[0].Source != search.SourceMock {
		t.Errorf("expected mock provenance, got %q", results[0].Source)
	}
}

func TestLeadSearchStoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New(`pq: relation "leads" does not exist`)}
	svc := NewLeadService(store, nil)

	results, err := svc.Search(context.Background(), parse(t, map[string]any{}))
	if !errors.Is(err, ErrQueryExecution) {
		t.Fatalf("expected ErrQueryExecution, got %v", err)
	}
	if results != nil {
		t.Errorf("a failed query must not fall back, got %d rows", len(results))
	}
	if store.calls != 1 {
		t.Errorf("expected a single attempt, got %d", store.calls)
	}
}

func dryRunStore(t *testing.T) *GormLeadStore {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=leadmaps dbname=leadmaps sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               gormlogger.Discard,
	})
	if err != nil {
		t.Fatalf("gorm.Open failed: %v", err)
	}
	return NewGormLeadStore(&database.DB{DB: db})
}

func TestGormLeadStoreSQL(t *testing.T) {
	store := dryRunStore(t)
	f := parse(t, map[string]any{
		"category":  "카페",
		"keywords":  "'; DROP TABLE leads; --",
		"hiring":    false,
		"minRating": 4.0,
		"limit":     20.0,
	})

	var rows []search.LeadRow
	stmt := store.query(context.Background(), search.Compose(f), f.Limit).Find(&rows).Statement
	sql := stmt.SQL.String()

	for _, want := range []string{
		"LEFT JOIN leads ON leads.business_id = businesses.id",
		"businesses.category ILIKE $1",
		"businesses.name ILIKE $2 OR businesses.city ILIKE $3 OR businesses.website ILIKE $4",
		"COALESCE(leads.hiring, false) = $5",
		"leads.rating >= $6",
		"ORDER BY COALESCE(leads.score, 0) DESC,businesses.id ASC",
		"LIMIT",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("expected %q in SQL:\n%s", want, sql)
		}
	}
	if strings.Contains(sql, "DROP TABLE") || strings.Contains(sql, "카페") {
		t.Errorf("user input must only be bound, got SQL:\n%s", sql)
	}
	if len(stmt.Vars) < 6 || stmt.Vars[0] != "%카페%" || stmt.Vars[4] != false {
		t.Errorf("unexpected bound vars: %v", stmt.Vars)
	}
}

func TestGormLeadStoreNoPredicates(t *testing.T) {
	store := dryRunStore(t)

	var rows []search.LeadRow
	tx := store.query(context.Background(), nil, search.DefaultLimit).Find(&rows)
	if tx.Error != nil {
		t.Fatalf("dry run failed: %v", tx.Error)
	}
	if strings.Contains(tx.Statement.SQL.String(), "WHERE") {
		t.Errorf("no filters should produce no WHERE clause:\n%s", tx.Statement.SQL.String())
	}
}
