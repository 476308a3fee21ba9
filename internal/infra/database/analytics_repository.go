package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/prospectplus-agent/internal/entity"
)

type AnalyticsRepository struct {
	DB *DB
}

func NewAnalyticsRepository(db *DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

// rangeClause renders the created_at bounds plus any extra conditions.
func (r *AnalyticsRepository) rangeClause(tr entity.TimeRange, extra ...string) (string, []any) {
	conds := append([]string{}, extra...)
	var args []any
	if !tr.Start.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, r.DB.Dialect.Time(tr.Start))
	}
	if !tr.End.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, r.DB.Dialect.Time(tr.End))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *AnalyticsRepository) groupCount(ctx context.Context, column string, tr entity.TimeRange) (map[string]int, error) {
	where, args := r.rangeClause(tr)
	query := r.DB.Dialect.Rebind(`SELECT ` + column + `, COUNT(*) FROM prospects` + where + ` GROUP BY ` + column)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count by %s: %w", column, err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan %s count: %w", column, err)
		}
		out[key] = n
	}
	return out, rows.Err()
}

func (r *AnalyticsRepository) CountByStatus(ctx context.Context, tr entity.TimeRange) (map[entity.Status]int, error) {
	raw, err := r.groupCount(ctx, "status", tr)
	if err != nil {
		return nil, err
	}
	out := make(map[entity.Status]int, len(raw))
	for k, v := range raw {
		out[entity.Status(k)] = v
	}
	return out, nil
}

func (r *AnalyticsRepository) CountByPriority(ctx context.Context, tr entity.TimeRange) (map[entity.Priority]int, error) {
	raw, err := r.groupCount(ctx, "priority", tr)
	if err != nil {
		return nil, err
	}
	out := make(map[entity.Priority]int, len(raw))
	for k, v := range raw {
		out[entity.Priority(k)] = v
	}
	return out, nil
}

// AverageScore returns nil when no prospect in range has a score.
func (r *AnalyticsRepository) AverageScore(ctx context.Context, tr entity.TimeRange) (*float64, error) {
	where, args := r.rangeClause(tr, "score IS NOT NULL")
	var avg sql.NullFloat64
	if err := r.DB.QueryRowContext(ctx, r.DB.Dialect.Rebind(`SELECT AVG(score) FROM prospects`+where), args...).Scan(&avg); err != nil {
		return nil, fmt.Errorf("average score: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	v := avg.Float64
	return &v, nil
}

func (r *AnalyticsRepository) CreatedTimes(ctx context.Context, tr entity.TimeRange) ([]time.Time, error) {
	where, args := r.rangeClause(tr)
	rows, err := r.DB.QueryContext(ctx, r.DB.Dialect.Rebind(`SELECT created_at FROM prospects`+where+` ORDER BY created_at`), args...)
	if err != nil {
		return nil, fmt.Errorf("created times: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var t dbTime
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan created_at: %w", err)
		}
		out = append(out, t.Time)
	}
	return out, rows.Err()
}

// TopIndustries orders by count desc then name asc; empty industries are skipped.
func (r *AnalyticsRepository) TopIndustries(ctx context.Context, limit int) ([]entity.IndustryCount, error) {
	query := r.DB.Dialect.Rebind(`SELECT industry, COUNT(*) AS n FROM prospects
		WHERE industry IS NOT NULL AND industry <> ''
		GROUP BY industry ORDER BY n DESC, industry ASC LIMIT ?`)

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("top industries: %w", err)
	}
	defer rows.Close()

	out := []entity.IndustryCount{}
	for rows.Next() {
		var ic entity.IndustryCount
		if err := rows.Scan(&ic.Name, &ic.Count); err != nil {
			return nil, fmt.Errorf("scan industry: %w", err)
		}
		out = append(out, ic)
	}
	return out, rows.Err()
}
