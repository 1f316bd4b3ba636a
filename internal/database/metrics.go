package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

const startTimeKey = "metrics:start_time"

var (
	// DB 쿼리 실행 시간
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadmaps_db_query_duration_seconds",
			Help:    "Database query execution time in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"operation", "table", "status"},
	)

	// DB 에러 횟수 (SQLSTATE 기준)
	dbErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadmaps_db_errors_total",
			Help: "Total number of database errors by SQLSTATE code",
		},
		[]string{"operation", "table", "code"},
	)

	// 느린 쿼리 횟수 (>1초)
	dbSlowQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadmaps_db_slow_queries_total",
			Help: "Total number of slow queries (>1 second)",
		},
		[]string{"operation", "table"},
	)

	dbConnectionPool = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "leadmaps_db_connection_pool",
			Help: "Database connection pool state (max_open, idle, in_use)",
		},
		[]string{"state"},
	)
)

// MetricsPlugin GORM metrics plugin
type MetricsPlugin struct{}

func (p *MetricsPlugin) Name() string {
	return "leadmapsMetrics"
}

// Initialize registers timing callbacks around every GORM processor
func (p *MetricsPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Query().Before("gorm:query").Register("metrics:before_query", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("metrics:after_query", after("SELECT")); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("metrics:before_row", before); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("metrics:after_row", after("SELECT")); err != nil {
		return err
	}
	if err := cb.Create().Before("gorm:create").Register("metrics:before_create", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("metrics:after_create", after("INSERT")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("metrics:before_update", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("metrics:after_update", after("UPDATE")); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("metrics:before_raw", before); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("metrics:after_raw", after(""))
}

func before(db *gorm.DB) {
	db.InstanceSet(startTimeKey, time.Now())
}

// after records duration and outcome; an empty operation is derived from the SQL text
func after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		start, ok := db.InstanceGet(startTimeKey)
		if !ok {
			return
		}
		duration := time.Since(start.(time.Time)).Seconds()

		op := operation
		if op == "" {
			op = sqlOperation(db.Statement.SQL.String())
		}
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}

		status := "success"
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			status = "error"
			dbErrorsTotal.WithLabelValues(op, table, ErrorCode(db.Error)).Inc()
		}

		dbQueryDuration.WithLabelValues(op, table, status).Observe(duration)
		if duration > 1.0 {
			dbSlowQueriesTotal.WithLabelValues(op, table).Inc()
		}
	}
}

// sqlOperation 쿼리 첫 키워드로 operation 추출
func sqlOperation(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "RAW"
	}
	switch op := strings.ToUpper(fields[0]); op {
	case "SELECT", "INSERT", "UPDATE", "DELETE":
		return op
	}
	return "RAW"
}

// ErrorCode returns the SQLSTATE of a Postgres error, or "unknown"
func ErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return "unknown"
}

// UpdateConnectionPoolMetrics connection pool 메트릭 업데이트
func UpdateConnectionPoolMetrics(db *DB) {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return
	}

	stats := sqlDB.Stats()
	dbConnectionPool.WithLabelValues("max_open").Set(float64(stats.MaxOpenConnections))
	dbConnectionPool.WithLabelValues("idle").Set(float64(stats.Idle))
	dbConnectionPool.WithLabelValues("in_use").Set(float64(stats.InUse))
}

// StartConnectionPoolMetricsCollector connection pool 메트릭 수집 (ctx 종료 시 반환)
func StartConnectionPoolMetricsCollector(ctx context.Context, db *DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			UpdateConnectionPoolMetrics(db)
		}
	}
}
