package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/cbdpascher/storefront/internal/catalog"
	"github.com/cbdpascher/storefront/internal/config"
	"github.com/cbdpascher/storefront/internal/events"
	"github.com/cbdpascher/storefront/internal/httpserver"
	"github.com/cbdpascher/storefront/internal/logging"
	"github.com/cbdpascher/storefront/internal/middleware/csrf"
	loggingmw "github.com/cbdpascher/storefront/internal/middleware/logging"
	"github.com/cbdpascher/storefront/internal/middleware/visit"
	"github.com/cbdpascher/storefront/internal/mykafka"
	"github.com/cbdpascher/storefront/internal/service"
	"github.com/cbdpascher/storefront/internal/session"
	"github.com/cbdpascher/storefront/internal/state"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	var publisher events.Publisher = events.LogPublisher{}
	var prod *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		p, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		prod = p
		publisher = &events.KafkaPublisher{Producer: prod, Topic: cfg.EventsTopic}
	}

	store := state.NewStore(cfg.VisitTTL, catalog.Seed)
	janitorCtx, stopJanitor := context.WithCancel(logging.IntoContext(context.Background(), logger))
	go store.Run(janitorCtx, time.Minute)

	svc := &service.StorefrontService{
		Accounts:  session.NewDemoAccounts(),
		Publisher: publisher,
		Delays: service.Delays{
			SignIn: cfg.SignInDelay,
			SignUp: cfg.SignUpDelay,
			Submit: cfg.SubmitDelay,
		},
	}

	renderer, err := httpserver.NewTemplateRenderer()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.Secure())

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.SkipPrefixes = []string{"/api/"}

	httpserver.Register(e, &httpserver.Deps{
		Storefront: &httpserver.StorefrontHTTP{Svc: svc},
		API:        &httpserver.API{Svc: svc},
		Visits:     &visit.Middleware{Store: store, Secret: cfg.VisitSecret, TTL: cfg.VisitTTL},
		CSRF:       csrfCfg,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	stopJanitor()

	if prod != nil {
		if err := prod.Close(); err != nil {
			logger.Error("kafka_close_failed", "error", err)
		}
	}

	logger.Info("server_stopped")
}
