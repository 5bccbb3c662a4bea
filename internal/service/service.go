package service

import (
	"time"

	"go.uber.org/zap"

	"simlab/config"
	"simlab/internal/rbac"
	"simlab/internal/repository"
	"simlab/internal/validation"
	"simlab/pkg/jwt"
)

// Service aggregates every service
type Service struct {
	Auth     AuthService
	User     UserService
	LabRoom  LabRoomService
	Course   CourseService
	Schedule ScheduleService
	Stats    StatsService
	Export   ExportService
}

// Deps optional infrastructure; nil members fall back to in-process behaviour.
type Deps struct {
	Locker    SlotLocker
	Cache     StatsCache
	Blacklist TokenBlacklist
}

// NewService creates the Service aggregate
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	checker *rbac.Checker,
	v *validation.Validator,
	deps Deps,
	loc *time.Location,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(repo, jwtMgr, checker, deps.Blacklist, logger),
		User:     NewUserService(repo, v, logger),
		LabRoom:  NewLabRoomService(repo, logger),
		Course:   NewCourseService(repo, logger),
		Schedule: NewScheduleService(repo, checker, deps.Locker, loc, logger),
		Stats:    NewStatsService(repo, checker, deps.Cache, cfg.Server.StatsCacheTTL, loc, logger),
		Export:   NewExportService(repo, checker, loc, logger),
	}
}
