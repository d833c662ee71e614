package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/titilda/supersanta/internal/api"
	"github.com/titilda/supersanta/internal/auth"
	"github.com/titilda/supersanta/internal/config"
	"github.com/titilda/supersanta/internal/notify"
	"github.com/titilda/supersanta/internal/service"
	"github.com/titilda/supersanta/internal/storage/sqlite"
	"github.com/titilda/supersanta/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	notifier := notify.NewWebhookNotifier(cfg.WebhookURL, cfg.WebhookToken)

	campaigns := service.NewCampaignService(store, notifier)
	campaigns.SetNotifyDelay(cfg.NotifyDelay)
	messages := service.NewMessageService(store, notifier)

	jwtManager := auth.NewJWTManager(cfg.GatewaySecret, cfg.TokenDuration)
	handler := api.NewHandler(campaigns, messages, cfg.ProfileURLTemplate)
	router := api.NewRouter(handler, jwtManager)

	// Wrap with h2c so the gateway can speak HTTP/2 without TLS
	h2cHandler := h2c.NewHandler(router, &http2.Server{})

	server := &http.Server{
		Handler: h2cHandler,
		Addr:    fmt.Sprintf(":%d", cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		server.Close()
	}()

	slog.Info("Secret Santa coordinator listening", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server closed")
}
