package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/M7HZ/bright-clinic/cache"
	"github.com/M7HZ/bright-clinic/config"
	"github.com/M7HZ/bright-clinic/database"
	"github.com/M7HZ/bright-clinic/messaging"
	"github.com/M7HZ/bright-clinic/routes"
	"github.com/M7HZ/bright-clinic/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.InitDB(context.Background(), cfg.DBURL)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if err := database.InitializeRedis(cfg.RedisAddress); err != nil {
		log.Fatalf("failed to initialize Redis client: %v", err)
	}

	appCache, err := cache.NewCache()
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}

	// The booking event broker is optional; without AMQP_URL bookings
	// are still accepted, just not announced.
	var broker services.BookedPublisher
	if cfg.AMQPURL != "" {
		mq, err := messaging.NewRabbitMQBroker(cfg.AMQPURL, "appointment.booked")
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer mq.Close()
		broker = mq
	}

	handler := routes.SetupRoutes(appCache, cfg, db, broker)

	srv := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        handler,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
		IdleTimeout:    30 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		log.Printf("Starting server on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listenAndServe(): %v", err)
		}
	}()

	// Graceful shutdown handling
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	log.Println("Shutting down server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown failed: %+v", err)
	}

	wg.Wait()
	log.Println("Server exited gracefully")
}
