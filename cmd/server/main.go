package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/veladapass/ticketops/internal/config"
	"github.com/veladapass/ticketops/internal/database"
	"github.com/veladapass/ticketops/internal/handler"
	"github.com/veladapass/ticketops/internal/middleware"
	"github.com/veladapass/ticketops/internal/queue"
	"github.com/veladapass/ticketops/internal/repository"
	"github.com/veladapass/ticketops/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis is optional: without it the cache and rate limiter become no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	groups := repository.NewGroupRepo(db)
	inventory := repository.NewInventoryRepo(db)
	eventCfg := repository.NewConfigRepo(db)
	logs := repository.NewLogRepo(db)
	convs := repository.NewConversationRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	clientH := handler.NewClientHandler(cfg, db, users, groups, inventory, eventCfg, logs)
	adminH := handler.NewAdminHandler(cfg, db, users, tokens, groups, inventory, eventCfg, logs, convs)
	chatH := handler.NewChatHandler(convs, logs)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e, clientH)
	router.RegisterAuth(e, authH, cfg.JWTSecret, limitMW)
	router.RegisterClient(e, clientH, chatH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, chatH, cfg.JWTSecret, cacheMW)

	// Background consumer mirrors reconciliation events into logs/activity.log.
	go func() {
		if err := queue.StartReconciliationConsumer(); err != nil {
			log.Printf("reconciliation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
