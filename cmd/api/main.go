package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"community-sport/backend/internal/catalog"
	"community-sport/backend/internal/config"
	"community-sport/backend/internal/domain/appointment"
	"community-sport/backend/internal/domain/faq"
	"community-sport/backend/internal/domain/program"
	"community-sport/backend/internal/domain/role"
	"community-sport/backend/internal/events"
	"community-sport/backend/internal/firebase"
	apihttp "community-sport/backend/internal/http"
	"community-sport/backend/internal/logger"
	"community-sport/backend/internal/tracing"
)

const serviceName = "community-sport-api"

func main() {
	ctx := context.Background()
	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}

	if cfg.OTLPEndpoint != "" {
		shutdown, err := tracing.InitTracerProvider(ctx, serviceName, cfg.OTLPEndpoint, log)
		if err != nil {
			log.Fatal("Tracing init failed", "error", err)
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	app, err := firebase.NewApp(ctx, cfg)
	if err != nil {
		log.Fatal("Firebase app init failed", "error", err)
	}

	authClient, err := firebase.NewAuthClient(ctx, app)
	if err != nil {
		log.Fatal("Firebase auth client init failed", "error", err)
	}

	fs, err := firebase.NewFirestore(ctx, app)
	if err != nil {
		log.Fatal("Firestore init failed", "error", err)
	}
	defer fs.Close()

	var pub events.Publisher = events.Nop{}
	if cfg.NatsURL != "" {
		np, err := events.NewNatsPublisher(cfg.NatsURL, log)
		if err != nil {
			log.Fatal("NATS connect failed", "error", err)
		}
		defer np.Close()
		pub = np
		log.Info("Publishing events to NATS", "url", cfg.NatsURL)
	} else {
		log.Info("NATS_URL not set, events are discarded")
	}

	// Repositories
	programRepo := program.NewRepo(fs.Client, log)
	faqRepo := faq.NewRepo(fs.Client)
	appointmentRepo := appointment.NewRepo(fs.Client)

	// Services
	cache := catalog.NewCache(programRepo, faqRepo, cfg.CatalogCacheTTL, log)
	catalogSvc := catalog.NewService(cache, log)
	programSvc := program.NewService(programRepo, cache, pub, log)
	appointmentSvc := appointment.NewService(appointmentRepo, cache, pub, log)
	roleSvc := role.NewService(authClient, log)

	unsubscribe := roleSvc.Subscribe(func(c role.Change) {
		if err := pub.Publish(context.Background(), events.SubjectRoleChanged, c); err != nil {
			log.Warn("Failed to publish role change", "uid", c.UID, "error", err)
		}
	})
	defer unsubscribe()

	var images *program.ImageUploader
	if cfg.SignedURLServiceAccountEmail != "" {
		signer, err := firebase.NewSigner(ctx, cfg.SignedURLServiceAccountEmail)
		if err != nil {
			log.Warn("IAM credentials client unavailable, image uploads disabled", "error", err)
		} else {
			defer signer.Close()
			images = program.NewImageUploader(cfg.StorageBucket, cfg.SignedURLServiceAccountEmail, signer.Sign)
		}
	} else {
		log.Info("SIGNED_URL_SERVICE_ACCOUNT_EMAIL not set, image uploads disabled")
	}

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Cfg:          cfg,
		Log:          log,
		Verifier:     authClient,
		Catalog:      catalogSvc,
		Programs:     programSvc,
		Images:       images,
		Appointments: appointmentSvc,
		Roles:        roleSvc,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	go func() {
		log.Info("API listening", "port", cfg.Port, "project", cfg.ProjectID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Listen failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	log.Info("Shutting down")
	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
}
