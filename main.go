package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lakonic/mealping/api"
	"github.com/lakonic/mealping/config"
	"github.com/lakonic/mealping/datastore"
	"github.com/lakonic/mealping/delivery"
	rh "github.com/lakonic/mealping/route-handlers"
	"github.com/lakonic/mealping/scheduler"
)

const (
	shutdownTimeout = 15 * time.Second

	// One tick per minute: scheduled times match on exact minute equality,
	// so a coarser cadence would miss reminders.
	tickInterval = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration load failed: %v", err)
	}

	if cfg.VAPID.PublicKey == "" || cfg.VAPID.PrivateKey == "" {
		log.Println("WARNING: VAPID_PUBLIC_KEY / VAPID_PRIVATE_KEY not set. Push delivery will fail at runtime.")
	}

	registry := datastore.NewSubscriptionRegistry()
	scheduleStore := datastore.NewScheduleStore()

	provider := delivery.NewWebPushProvider(
		cfg.VAPID.PublicKey,
		cfg.VAPID.PrivateKey,
		cfg.VAPID.Subject,
		cfg.Push.TTL,
		cfg.Push.Timeout,
	)
	deliveryService := delivery.NewDeliveryService(registry, provider)

	pushHandler := rh.NewPushHandler(registry, scheduleStore, deliveryService, cfg.VAPID.PublicKey)
	reminderScheduler := scheduler.New(registry, scheduleStore, deliveryService)

	router := api.SetupRoutes(pushHandler, reminderScheduler, cfg.AllowedOrigins(), cfg.CronSecret)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.LocalTicker {
		go reminderScheduler.Run(ctx, tickInterval)
		log.Println("Local tick loop started (checks every minute)")
	} else {
		log.Println("Local tick loop disabled; expecting an external scheduler to call /api/cron")
	}

	startServer(cfg.Port, router)
}

func startServer(port string, router http.Handler) {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownSignal // Block until signal received
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server gracefully stopped")
}
