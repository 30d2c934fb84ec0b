package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/iliyamo/concert-ticket-booking/internal/config"
	"github.com/iliyamo/concert-ticket-booking/internal/database"
	"github.com/iliyamo/concert-ticket-booking/internal/handler"
	"github.com/iliyamo/concert-ticket-booking/internal/limiter"
	"github.com/iliyamo/concert-ticket-booking/internal/ops"
	"github.com/iliyamo/concert-ticket-booking/internal/queue"
	"github.com/iliyamo/concert-ticket-booking/internal/repository"
	"github.com/iliyamo/concert-ticket-booking/internal/router"
	"github.com/iliyamo/concert-ticket-booking/internal/server"
	queue_publisher "github.com/iliyamo/concert-ticket-booking/internal/service"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	h := handler.New(
		repository.NewUserRepo(db),
		repository.NewEventRepo(db),
		repository.NewPurchaseRepo(db),
	)
	h.PublishPurchase = func(ctx context.Context, ev queue.TicketPurchasedEvent) {
		_ = queue_publisher.PublishTicketPurchased(ctx, ev)
	}
	go queue.StartPurchaseConsumer()

	if cfg.OpsPort != "" {
		ops.Start(cfg.OpsPort, db)
	}

	srv := server.New(router.Default(h))
	if lim := limiter.New(config.LoadRateLimitConfig(), config.NewRedisClient()); lim != nil {
		srv.Allow = lim.Allow
	} else {
		log.Printf("rate limiting disabled")
	}

	log.Printf("starting booking server on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := srv.ListenAndServe(ctx, ":"+cfg.Port); err != nil {
		log.Fatal(err)
	}
}
