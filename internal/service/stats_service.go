package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"simlab/internal/dto"
	"simlab/internal/rbac"
	"simlab/internal/repository"
)

// StatsCache short-lived JSON cache for dashboard payloads
type StatsCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// StatsService dashboard counters
type StatsService interface {
	Dashboard(ctx context.Context, caller Caller) (*dto.DashboardStats, error)
}

type statsService struct {
	repo    *repository.Repository
	checker *rbac.Checker
	cache   StatsCache
	ttl     time.Duration
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

// NewStatsService creates a StatsService. cache may be nil.
func NewStatsService(
	repo *repository.Repository,
	checker *rbac.Checker,
	cache StatsCache,
	ttl time.Duration,
	loc *time.Location,
	logger *zap.Logger,
) StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &statsService{
		repo:    repo,
		checker: checker,
		cache:   cache,
		ttl:     ttl,
		loc:     loc,
		now:     time.Now,
		logger:  logger,
	}
}

func (s *statsService) Dashboard(ctx context.Context, caller Caller) (*dto.DashboardStats, error) {
	dosenID := ""
	if isOwnOnly(s.checker, caller) {
		dosenID = caller.UserID
	}
	key := "stats:dashboard:all"
	if dosenID != "" {
		key = "stats:dashboard:" + dosenID
	}

	if s.cache != nil && s.ttl > 0 {
		var cached dto.DashboardStats
		found, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("read stats cache failed", zap.Error(err))
		} else if found {
			return &cached, nil
		}
	}

	var out dto.DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c, err := s.repo.LabRoom.Counts(gctx)
		if err != nil {
			return storeErr(err)
		}
		out.LabRooms = dto.LabRoomStats{
			Total:         c.Total,
			Active:        c.Active,
			Inactive:      c.Inactive,
			TotalCapacity: c.TotalCapacity,
		}
		return nil
	})
	g.Go(func() error {
		c, err := s.repo.Course.Counts(gctx)
		if err != nil {
			return storeErr(err)
		}
		bySemester := c.BySemester
		if bySemester == nil {
			bySemester = map[int]int64{}
		}
		out.Courses = dto.CourseStats{
			Total:      c.Total,
			Active:     c.Active,
			Inactive:   c.Inactive,
			TotalSKS:   c.TotalSKS,
			BySemester: bySemester,
		}
		return nil
	})
	g.Go(func() error {
		st, err := scheduleStats(gctx, s.repo, dosenID, s.now().In(s.loc))
		if err != nil {
			return err
		}
		out.Schedule = *st
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("collect dashboard stats failed", zap.Error(err))
		return nil, err
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.SetJSON(ctx, key, &out, s.ttl); err != nil {
			s.logger.Warn("write stats cache failed", zap.Error(err))
		}
	}
	return &out, nil
}
