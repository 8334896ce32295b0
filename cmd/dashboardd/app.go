package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"equipment-dashboard/config"
	"equipment-dashboard/internal/api"
	"equipment-dashboard/internal/backend"
	"equipment-dashboard/internal/db"
	"equipment-dashboard/internal/mw"
	"equipment-dashboard/internal/page"
	"equipment-dashboard/internal/probe"
	"equipment-dashboard/internal/session"
	"equipment-dashboard/internal/storage"
)

// app is the wired dashboard.
type app struct {
	router  *gin.Engine
	probe   *probe.Service
	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	store, err := a.openStorage(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	client, err := backend.New(backend.Options{
		BaseURL:   cfg.Backend.BaseURL,
		Timeout:   cfg.Backend.Timeout,
		HTTPProxy: cfg.Backend.HTTPProxy,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.probe = probe.NewService(client, cfg.Backend.HealthInterval)
	sessions := session.NewManager(store, cfg.Session.KeyPrefix, time.Duration(cfg.Session.IdleMinutes)*time.Minute)
	pages := page.NewCache(time.Duration(cfg.Server.PageTTLMinutes) * time.Minute)

	router, err := api.NewRouter(api.NewHandler(client, sessions, pages), api.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Cookie: mw.CookieOptions{
			Name:   cfg.Session.CookieName,
			MaxAge: cfg.Session.CookieMaxAgeHours * 3600,
			Secure: cfg.Session.CookieSecure,
		},
		LoginLimiter: mw.NewKeyedLimiter(rate.Limit(cfg.Server.LoginRatePerMin/60), cfg.Server.LoginBurst, 0),
		Probe:        a.probe,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.router = router
	return a, nil
}

// openStorage connects the session storage selected by cfg.Session.Driver.
func (a *app) openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Session.Driver {
	case config.DriverMemory:
		log.Println("Warning: sessions are kept in memory and will not survive a restart")
		return storage.NewMemoryStorage(), nil

	case config.DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, rdb.Close)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return storage.NewRedisStorage(rdb, cfg.Redis.Prefix), nil

	default:
		gormDB, err := db.Init(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		sqlDB, err := gormDB.DB()
		if err == nil {
			a.closers = append(a.closers, sqlDB.Close)
		}
		return storage.NewGormStorage(gormDB), nil
	}
}

// Close releases storage connections.
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Printf("Warning: close failed: %v", err)
		}
	}
	a.closers = nil
}
