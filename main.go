package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"foodflow/api"
	"foodflow/cache"
	"foodflow/cart"
	"foodflow/config"
	"foodflow/db"
	"foodflow/logger"
	"foodflow/mq"
	"foodflow/notify"
	"foodflow/paystack"
	"foodflow/services"
	"foodflow/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			runMigrate(cfg)
			return
		case "set-admin":
			runSetAdmin(cfg, os.Args[2:])
			return
		}
	}

	runServe(cfg)
}

func runServe(cfg *config.Config) {
	log := logger.New("foodflow")

	if err := db.Init(cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	// Optional auto-migration for fresh databases. Set AUTO_MIGRATE=1
	// (or "true") to enable.
	if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
		if err := applyMigrations(context.Background(), false); err != nil {
			fmt.Fprintln(os.Stderr, "migrate:", err)
			os.Exit(1)
		}
	}

	cc, err := cache.Initialize(cfg.Redis.URL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "redis:", err)
		os.Exit(1)
	}
	defer cc.Close()

	mqc, err := mq.Dial(cfg.Rabbit)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rabbitmq:", err)
		os.Exit(1)
	}
	defer mqc.Close()

	var notifier *notify.Telegram
	if cfg.Telegram.Token != "" && cfg.Telegram.AdminChatID != 0 {
		notifier, err = notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.AdminChatID, log)
		if err != nil {
			// Notifications are best-effort; the storefront still works.
			log.Error("telegram_init", err, nil)
			notifier = nil
		}
	}

	cartStore := cart.NewStore(cc.Redis())
	go func() {
		for ev := range cartStore.Subscribe() {
			log.Debug("cart_updated", map[string]any{"user_id": ev.UserID, "count": ev.ItemCount})
		}
	}()
	composer := &services.Composer{
		Cart:        cartStore,
		Menu:        services.PGMenu{},
		Gateway:     paystack.NewClient(cfg.Paystack.BaseURL, cfg.Paystack.SecretKey),
		Events:      mqc,
		DeliveryFee: cfg.Order.DeliveryFee,
		ServiceFee:  cfg.Order.ServiceFee,
	}
	google := services.NewGoogleVerifier(cfg.Auth.GoogleClientID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var simNotifier worker.Notifier
	if notifier != nil {
		simNotifier = notifier
	}
	stepDelay := time.Duration(cfg.Order.SimStepSeconds) * time.Second
	sim := worker.New(mqc, cc, log, stepDelay, simNotifier)
	go func() {
		if err := sim.Run(ctx); err != nil {
			log.Error("simulator_run", err, nil)
		}
	}()

	h := api.NewHandler(cfg, cartStore, cc, composer, google, notifier, log)
	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: h.Router(),
	}

	go func() {
		log.Info("server_started", map[string]any{"addr": cfg.HTTP.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server_listen", err, nil)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("server_stopping", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server_shutdown", err, nil)
	}
	log.Info("server_stopped", nil)
}

func runMigrate(cfg *config.Config) {
	if err := db.Init(cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := applyMigrations(context.Background(), true); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

// runSetAdmin promotes an existing account to the admin role.
func runSetAdmin(cfg *config.Config, args []string) {
	if len(args) < 1 || args[0] == "" {
		fmt.Fprintln(os.Stderr, "usage: foodflow set-admin <email>")
		os.Exit(1)
	}
	email := args[0]

	if err := db.Init(cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := services.SetUserRole(context.Background(), email, "admin"); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fmt.Fprintf(os.Stderr, "no user with email %s — they must sign up first\n", email)
		} else {
			fmt.Fprintln(os.Stderr, "set-admin:", err)
		}
		os.Exit(1)
	}
	fmt.Printf("%s is now an admin.\n", email)
}
