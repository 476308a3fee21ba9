package entity

import (
	"context"
	"time"
)

// TimeRange bounds a query on created_at. Zero values mean unbounded; both ends are inclusive.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

type IndustryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type AnalyticsRepositoryInterface interface {
	CountByStatus(ctx context.Context, r TimeRange) (map[Status]int, error)
	CountByPriority(ctx context.Context, r TimeRange) (map[Priority]int, error)
	AverageScore(ctx context.Context, r TimeRange) (*float64, error)
	CreatedTimes(ctx context.Context, r TimeRange) ([]time.Time, error)
	TopIndustries(ctx context.Context, limit int) ([]IndustryCount, error)
}
