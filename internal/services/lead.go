package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ggorockee/leadmaps/internal/database"
	"github.com/ggorockee/leadmaps/internal/logger"
	"github.com/ggorockee/leadmaps/internal/search"
	"github.com/ggorockee/leadmaps/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrQueryExecution marks a failure of the live store (unreachable, rejected query)
var ErrQueryExecution = errors.New("lead query failed")

// 검색 결과 출처별 카운트 (live / mock / error)
var leadSearchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "leadmaps_lead_search_total",
		Help: "Lead searches by result source",
	},
	[]string{"source"},
)

// LeadStore runs composed predicates against persisted leads
type LeadStore interface {
	FindLeads(ctx context.Context, preds []search.Predicate, limit int) ([]search.LeadRow, error)
}

// leadColumns selects the flat business + lead row scanned into search.LeadRow
const leadColumns = `businesses.id AS business_id, businesses.name, businesses.category,
	businesses.website, businesses.city, businesses.postal_code, businesses.phone,
	businesses.email, businesses.source, leads.rating, leads.reviews, leads.hiring,
	leads.ads, leads.is_new, leads.score`

// GormLeadStore is the Postgres-backed LeadStore
type GormLeadStore struct {
	db *gorm.DB
}

func NewGormLeadStore(db *database.DB) *GormLeadStore {
	return &GormLeadStore{db: db.DB}
}

// query builds the SELECT for preds without executing it
func (s *GormLeadStore) query(ctx context.Context, preds []search.Predicate, limit int) *gorm.DB {
	q := s.db.WithContext(ctx).
		Table("businesses").
		Select(leadColumns).
		Joins("LEFT JOIN leads ON leads.business_id = businesses.id")

	for _, p := range preds {
		sql, args := p.SQL()
		q = q.Where(sql, args...)
	}

	return q.Order("COALESCE(leads.score, 0) DESC").
		Order("businesses.id ASC").
		Limit(limit)
}

// FindLeads returns at most limit rows ordered by score descending.
// An empty slice is a valid answer.
func (s *GormLeadStore) FindLeads(ctx context.Context, preds []search.Predicate, limit int) ([]search.LeadRow, error) {
	var rows []search.LeadRow
	if err := s.query(ctx, preds, limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LeadService answers lead searches from the live store, falling back to
// the sample dataset when the store has no matching rows.
type LeadService struct {
	store    LeadStore
	fallback *search.Fallback
	log      *zap.SugaredLogger
}

func NewLeadService(store LeadStore, fallback *search.Fallback) *LeadService {
	if fallback == nil {
		fallback = search.NewFallback()
	}
	return &LeadService{
		store:    store,
		fallback: fallback,
		log:      logger.GetLogger("services.lead"),
	}
}

// Search runs one attempt against the store; failures are not retried.
func (s *LeadService) Search(ctx context.Context, filter search.Filter) ([]search.ResultRow, error) {
	ctx, span := telemetry.StartSpan(ctx, "LeadService.Search")
	if span != nil {
		defer span.End()
	}

	preds := search.Compose(filter)
	if filter.Location != nil || filter.RadiusKm != nil {
		s.log.Debug("location/radiusKm accepted but not applied to lead search")
	}

	rows, err := s.store.FindLeads(ctx, preds, filter.Limit)
	if err != nil {
		leadSearchTotal.WithLabelValues("error").Inc()
		s.log.Errorw("lead query failed",
			"error", err.Error(),
			"sqlstate", database.ErrorCode(err),
			"predicates", len(preds),
		)
		if span != nil {
			span.RecordError(err)
		}
		return nil, fmt.Errorf("%w: %v", ErrQueryExecution, err)
	}

	source := "live"
	var results []search.ResultRow
	if len(rows) == 0 {
		source = search.SourceMock
		results = s.fallback.Filter(preds, filter.Limit)
	} else {
		results = search.ProjectAll(rows)
	}

	leadSearchTotal.WithLabelValues(source).Inc()
	if span != nil {
		span.SetAttributes(
			attribute.String("lead.source", source),
			attribute.Int("lead.results", len(results)),
		)
	}
	return results, nil
}
