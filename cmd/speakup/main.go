package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"speakup/internal/config"
	"speakup/internal/database"
	"speakup/internal/logger"
	"speakup/internal/mongo"
	"speakup/internal/routing"
	"speakup/pkg/middleware"
	"speakup/pkg/practice"
	"speakup/pkg/profile"
	"speakup/pkg/session"
	"speakup/pkg/vendor"
)

func main() {
	cfg, err := config.Load() // env vars, .env if present
	if err != nil {
		log.Fatal("config: ", err)
	}
	logger := logger.Load(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.LoadDB(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal("database: ", err)
	}
	defer db.Close()
	profiles := profile.NewService(profile.NewSQLRepo(db, cfg.DBDriver))

	var history practice.Repository = practice.Discard{}
	if cfg.HistoryEnabled() {
		mongoDB, err := mongo.LoadDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatal("mongo: ", err)
		}
		defer mongoDB.Client().Disconnect(context.Background())

		repo := practice.NewMongoRepo(mongoDB)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Fatal("mongo indexes: ", err)
		}
		history = repo
	} else {
		logger.Warn("MONGO_URI not set, practice history disabled")
	}

	sessions, err := session.NewSupabaseStore(session.Options{
		URL:           cfg.SupabaseURL,
		AnonKey:       cfg.SupabaseAnonKey,
		JWTSecret:     cfg.SupabaseJWTSecret,
		SecureCookies: cfg.SecureCookies,
	})
	if err != nil {
		log.Fatal("session store: ", err)
	}

	upstream := &http.Client{Timeout: cfg.UpstreamTimeout}
	openAI := vendor.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIBaseURL, upstream, logger)
	heyGen := vendor.NewHeyGen(cfg.HeyGenKey, cfg.HeyGenBaseURL, upstream, logger)
	if cfg.OpenAIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, chat and speech endpoints will answer 503")
	}
	if cfg.HeyGenKey == "" {
		logger.Warn("HEYGEN_API_KEY not set, avatar endpoint will answer 503")
	}

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.ProxyRateLimit), cfg.ProxyRateBurst)
	limiter.TrustProxyHeaders = cfg.TrustProxyHeaders
	defer limiter.Close()

	handler, err := routing.NewHandler(routing.Deps{
		Sessions: sessions,
		Profiles: profiles,
		History:  practice.NewService(history),
		Tutor:    openAI,
		Avatars:  heyGen,
		Limiter:  limiter,
		Gate: middleware.GateConfig{
			MaxCookieBytes:  cfg.CookieMaxBytes,
			EvictValueBytes: cfg.CookieEvictValueBytes,
			MaxWriteBytes:   cfg.CookieMaxWriteBytes,
		},
		SecureCookies: cfg.SecureCookies,
		Logger:        logger,
	})
	if err != nil {
		log.Fatal("routes: ", err)
	}

	if err := routing.StartServer(ctx, cfg.HTTPAddr, handler, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
