package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"simlab/config"
	"simlab/internal/api/handler"
	"simlab/internal/api/router"
	"simlab/internal/jobs"
	"simlab/internal/rbac"
	"simlab/internal/repository"
	"simlab/internal/service"
	"simlab/internal/validation"
	"simlab/pkg/database"
	"simlab/pkg/jwt"
	applogger "simlab/pkg/logger"
	"simlab/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	// 1. config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting simlab",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	loc, err := time.LoadLocation(cfg.Jobs.Timezone)
	if err != nil {
		logger.Fatal("load timezone", zap.String("timezone", cfg.Jobs.Timezone), zap.Error(err))
	}

	// 3. database + migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	// 4. redis is optional; without it there is no token blacklist, login
	// rate limit, slot lock or stats cache
	var deps service.Deps
	routerDeps := router.Deps{}
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without it", zap.Error(err))
		rdb = nil
	} else {
		deps = service.Deps{Locker: rdb, Cache: rdb, Blacklist: rdb}
		routerDeps.Blacklist = rdb
		routerDeps.Limiter = rdb
	}

	// 5. permission table
	table, err := rbac.LoadTable(cfg.RBAC.TablePath)
	if err != nil {
		logger.Fatal("load rbac table", zap.Error(err))
	}
	checker := rbac.NewChecker(table)

	// 6. repository → service → handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	v := validation.New(&cfg.Validation)
	svc := service.NewService(cfg, repo, jwtMgr, checker, v, deps, loc, logger)
	h := handler.NewHandler(svc, v)

	routerDeps.JWT = jwtMgr
	routerDeps.Checker = checker
	engine := router.Setup(cfg, h, routerDeps, logger)

	// 7. background jobs
	scheduler, err := jobs.NewScheduler(&cfg.Jobs, svc.Schedule, loc, logger)
	if err != nil {
		logger.Fatal("init job scheduler", zap.Error(err))
	}
	scheduler.Start()

	// 8. http server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown", zap.Error(err))
	}
	scheduler.Stop(ctx)

	if err := sqlDB.Close(); err != nil {
		logger.Error("close database", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
