package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/naruebet/account-portal/internal/auth"
	"github.com/naruebet/account-portal/internal/config"
	"github.com/naruebet/account-portal/internal/database"
	"github.com/naruebet/account-portal/internal/handler"
	"github.com/naruebet/account-portal/internal/queue"
	"github.com/naruebet/account-portal/internal/repository"
	"github.com/naruebet/account-portal/internal/router"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	sessions := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies)
	hasher := auth.NewHasher(cfg.HashScheme, cfg.BcryptCost)
	users := repository.NewUserRepo(db)

	e := echo.New()
	router.RegisterPages(e, sessions, cfg.Routes)
	router.RegisterAPI(e,
		handler.NewAuthHandler(users, hasher, sessions),
		handler.NewUsersHandler(users, hasher, sessions),
		config.LoadRateLimitConfig(),
		config.NewRedisClient(),
	)

	// Audit trail consumer runs for the life of the process and reconnects
	// on broker failures.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
