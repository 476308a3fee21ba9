package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/prospectplus-agent/internal/entity"
)

const (
	defaultTrendDays     = 30
	maxTrendDays         = 365
	defaultIndustryLimit = 10
	maxIndustryLimit     = 50
	dayLayout            = "2006-01-02"
)

type AnalyticsService struct {
	Repo entity.AnalyticsRepositoryInterface
	Now  func() time.Time
}

func NewAnalyticsService(repo entity.AnalyticsRepositoryInterface) *AnalyticsService {
	return &AnalyticsService{Repo: repo, Now: time.Now}
}

// Overview aggregates prospects created inside the optional, inclusive date range.
func (s *AnalyticsService) Overview(ctx context.Context, in OverviewInput) (*OverviewOutput, error) {
	tr, err := parseRange(in)
	if err != nil {
		return nil, err
	}

	var (
		byStatus   map[entity.Status]int
		byPriority map[entity.Priority]int
		avg        *float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byStatus, err = s.Repo.CountByStatus(gctx, tr)
		return err
	})
	g.Go(func() error {
		var err error
		byPriority, err = s.Repo.CountByPriority(gctx, tr)
		return err
	})
	g.Go(func() error {
		var err error
		avg, err = s.Repo.AverageScore(gctx, tr)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "analytics overview", Err: err}
	}

	out := &OverviewOutput{
		ByStatus:   make(map[entity.Status]int, len(entity.Statuses)),
		ByPriority: make(map[entity.Priority]int, len(entity.Priorities)),
		AvgScore:   avg,
	}
	for _, st := range entity.Statuses {
		out.ByStatus[st] = byStatus[st]
		out.TotalProspects += byStatus[st]
	}
	for _, pr := range entity.Priorities {
		out.ByPriority[pr] = byPriority[pr]
	}

	won, lost := out.ByStatus[entity.StatusClosedWon], out.ByStatus[entity.StatusClosedLost]
	if won+lost > 0 {
		out.ConversionRate = float64(won) / float64(won+lost)
	}
	return out, nil
}

// Trends buckets creations over the last days*24h by UTC calendar date.
func (s *AnalyticsService) Trends(ctx context.Context, days int) (*TrendsOutput, error) {
	if days == 0 {
		days = defaultTrendDays
	}
	if days < 1 || days > maxTrendDays {
		return nil, NewValidationError([]ValidationError{{"days", fmt.Sprintf("must be between 1 and %d", maxTrendDays)}})
	}

	end := s.Now().UTC()
	start := end.Add(-time.Duration(days) * 24 * time.Hour)

	times, err := s.Repo.CreatedTimes(ctx, entity.TimeRange{Start: start, End: end})
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "analytics trends", Err: err}
	}

	counts := map[string]int{}
	for _, t := range times {
		counts[t.UTC().Format(dayLayout)]++
	}

	return &TrendsOutput{
		Period:      fmt.Sprintf("last_%d_days", days),
		StartDate:   start,
		EndDate:     end,
		DailyCounts: counts,
		Total:       len(times),
	}, nil
}

func (s *AnalyticsService) TopIndustries(ctx context.Context, limit int) (*TopIndustriesOutput, error) {
	if limit == 0 {
		limit = defaultIndustryLimit
	}
	if limit < 1 || limit > maxIndustryLimit {
		return nil, NewValidationError([]ValidationError{{"limit", fmt.Sprintf("must be between 1 and %d", maxIndustryLimit)}})
	}

	top, err := s.Repo.TopIndustries(ctx, limit)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "top industries", Err: err}
	}
	if top == nil {
		top = []entity.IndustryCount{}
	}
	return &TopIndustriesOutput{Industries: top}, nil
}

func parseRange(in OverviewInput) (entity.TimeRange, error) {
	var (
		tr   entity.TimeRange
		errs []ValidationError
	)
	if in.StartDate != "" {
		t, err := parseBound(in.StartDate, false)
		if err != nil {
			errs = append(errs, ValidationError{"start_date", err.Error()})
		}
		tr.Start = t
	}
	if in.EndDate != "" {
		t, err := parseBound(in.EndDate, true)
		if err != nil {
			errs = append(errs, ValidationError{"end_date", err.Error()})
		}
		tr.End = t
	}
	if len(errs) == 0 && !tr.Start.IsZero() && !tr.End.IsZero() && tr.Start.After(tr.End) {
		errs = append(errs, ValidationError{"start_date", "must not be after end_date"})
	}
	if len(errs) > 0 {
		return entity.TimeRange{}, NewValidationError(errs)
	}
	return tr, nil
}

// parseBound accepts RFC3339 or YYYY-MM-DD. A date-only end bound covers the whole day.
func parseBound(s string, end bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.UTC(), nil
	}
	d, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("must be an RFC3339 timestamp or a YYYY-MM-DD date")
	}
	if end {
		return d.Add(24*time.Hour - time.Microsecond), nil
	}
	return d, nil
}
