package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/hardwoodgm/hardwood/go/internal/gateway"
	"github.com/hardwoodgm/hardwood/go/internal/outbox"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	config, err := loadConfig(getEnv("CONFIG_PATH", "league.yaml"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database, err := setupDatabase()
	if err != nil {
		log.Fatalf("Failed to setup database: %v", err)
	}
	defer database.Close()

	services := setupServices(database, config)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.Default()

	// Outbox relay: state changes committed by the apps flow to NATS.
	natsCfg := outbox.DefaultNATSConfig()
	if config.NATS.URL != "" {
		natsCfg.URL = config.NATS.URL
	}
	if config.NATS.SubjectPrefix != "" {
		natsCfg.SubjectPrefix = config.NATS.SubjectPrefix
	}
	publisher, err := outbox.NewNATSPublisher(natsCfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect outbox publisher: %v", err)
	}
	defer publisher.Close()

	worker := outbox.NewWorker(services.Outbox, publisher, outbox.DefaultConfig(), clockwork.NewRealClock(), logger)
	if err := worker.Start(ctx); err != nil {
		log.Fatalf("Failed to start outbox worker: %v", err)
	}
	defer worker.Stop()

	// Gateway: NATS back out to websocket clients.
	manager := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	go manager.Start(ctx)

	consumerCfg := gateway.DefaultConsumerConfig()
	if config.NATS.URL != "" {
		consumerCfg.URL = config.NATS.URL
	}
	consumer, err := gateway.NewEventConsumer(manager, consumerCfg)
	if err != nil {
		log.Fatalf("Failed to connect gateway consumer: %v", err)
	}
	defer consumer.Close()
	if err := consumer.Start(); err != nil {
		log.Fatalf("Failed to start gateway consumer: %v", err)
	}

	server := setupServer(services, gateway.NewHandler(manager))

	go func() {
		log.Printf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
