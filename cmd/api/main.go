package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timbal.com.mx/internal/auth"
	"timbal.com.mx/internal/config"
	"timbal.com.mx/internal/httpapi"
	"timbal.com.mx/internal/obs"
	"timbal.com.mx/internal/ordernum"
	"timbal.com.mx/internal/provider"
	"timbal.com.mx/internal/provision"
	"timbal.com.mx/internal/sequence"
	"timbal.com.mx/internal/store/pg"
	"timbal.com.mx/internal/stream"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Postgres backs the sequence allocator and profile lookups when a DSN is
	// set; otherwise everything runs in memory for local development.
	var (
		db        *sql.DB
		allocator sequence.Allocator
		profiles  auth.ProfileStore
		directory provision.Directory
	)
	if cfg.PostgresDSN != "" {
		store, err := pg.Open(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db = store.DB()
		allocator = store
		profiles = store
	} else {
		mem := provider.NewInMemory()
		allocator = sequence.NewInMemory()
		profiles = mem
		directory = mem
	}

	// The identity provider handles credential exchange and account creation
	// when configured; the local exchanger validates self-issued tokens.
	var exchanger auth.Exchanger = auth.LocalExchanger{}
	if cfg.ProviderURL != "" {
		client, err := provider.NewClient(cfg.ProviderURL, cfg.ProviderKey)
		if err != nil {
			log.Fatalf("provider client: %v", err)
		}
		exchanger = client
		directory = client
	}

	verifier, err := auth.NewVerifier(exchanger, profiles)
	if err != nil {
		log.Fatalf("verifier: %v", err)
	}

	// Provisioning needs a directory whose profiles the Verifier can actually
	// read back. With Postgres but no provider there is none: an in-memory
	// directory would accept users the rest of the service never sees, so
	// provisioning stays disabled and the API answers 503 for it.
	var provisioner *provision.Service
	if directory != nil {
		provisioner, err = provision.NewService(directory, provision.WithAllowedDomain(cfg.AllowedDomain))
		if err != nil {
			log.Fatalf("provision: %v", err)
		}
	} else {
		log.Printf("provisioning disabled: TIMBAL_PG_DSN set without TIMBAL_PROVIDER_URL")
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, verifier, provisioner, allocator, stream.New())
	api.SetOrderFormat(cfg.OrderPrefix, ordernum.DefaultSeparator, cfg.OrderMinWidth)
	api.SetRateLimit(cfg.RateBurst, cfg.RatePerSec)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting timbal-core %s on %s", version, srv.Addr)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
