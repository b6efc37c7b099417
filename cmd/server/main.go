package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/HughSean/MiniProgram-Backend/internal/repository"
	"github.com/HughSean/MiniProgram-Backend/internal/service"
	transport "github.com/HughSean/MiniProgram-Backend/internal/transport/http"
	"github.com/HughSean/MiniProgram-Backend/pkg/config"
	"github.com/HughSean/MiniProgram-Backend/pkg/db"
	"github.com/HughSean/MiniProgram-Backend/pkg/mq"
	"github.com/HughSean/MiniProgram-Backend/pkg/obs"
)

func main() {
	_ = godotenv.Load()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.With().Str("service", "court-booking").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	shutdownTracer := obs.InitTracer("court-booking")
	defer func() { _ = shutdownTracer(context.Background()) }()

	gdb := db.Open(cfg.PGDSN)
	if err := repository.Migrate(gdb); err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}
	orders := repository.NewGormOrderRepo(gdb)
	courts := repository.NewGormCourtRepo(gdb)
	users := repository.NewGormUserRepo(gdb)

	pub, err := mq.NewPublisher(cfg.RabbitURL, cfg.OrderExchange)
	if err != nil {
		// the engine works without the broker; notifications just stop
		logger.Warn().Err(err).Msg("rabbitmq unavailable, events disabled")
	} else {
		defer pub.Close()
	}

	authSvc := service.NewAuthSvc(users,
		time.Duration(cfg.JWTExpireMin)*time.Minute,
		time.Duration(cfg.RefreshExpireHr)*time.Hour,
		logger)
	courtSvc := service.NewCourtSvc(courts, orders, nil, logger)
	var epub service.EventPublisher
	if pub != nil {
		epub = pub
	}
	resvSvc := service.NewReservationSvc(orders, courts, epub, nil, logger)

	r := transport.NewRouter(authSvc, courtSvc, resvSvc)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("stopped")
}
