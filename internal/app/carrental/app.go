// Package carrental собирает HTTP API сервиса проката, Session Gate перед
// страницами UI и gRPC health-сервер.
package carrental

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/car-rental/internal/cache"
	"github.com/magabrotheeeer/car-rental/internal/config"
	"github.com/magabrotheeeer/car-rental/internal/lib/jwt"
	"github.com/magabrotheeeer/car-rental/internal/lib/metrics"
	"github.com/magabrotheeeer/car-rental/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/migrations"
	authservice "github.com/magabrotheeeer/car-rental/internal/services/auth"
	bookingservice "github.com/magabrotheeeer/car-rental/internal/services/booking"
	carservice "github.com/magabrotheeeer/car-rental/internal/services/car"
	paymentservice "github.com/magabrotheeeer/car-rental/internal/services/payment"
	settingservice "github.com/magabrotheeeer/car-rental/internal/services/setting"
	"github.com/magabrotheeeer/car-rental/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App основное приложение сервиса проката.
type App struct {
	server     *http.Server
	grpcServer *grpc.Server
	health     *health.Server
	grpcAddr   string
	logger     *slog.Logger
	db         *repository.Storage
	cache      *cache.Cache
	conn       *amqp.Connection
	ch         *amqp.Channel
}

// New подключает хранилища, применяет миграции и собирает маршруты.
// RabbitMQ необязателен: без rabbitmq.url события бронирований не публикуются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Без секрета сервис стартует, но любой защищенный запрос получает 500.
	if _, err := jwt.LoadSecret(cfg.JWTSecretKey); err != nil {
		logger.Error("jwt secret is not configured", sl.Err(err))
	}
	maker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{
		logger:   logger,
		db:       db,
		cache:    cacheRedis,
		grpcAddr: cfg.GRPCHealthAddress,
	}

	var publisher bookingservice.Publisher
	if cfg.RabbitMQURL != "" {
		a.conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
		}
		a.ch, err = rabbitmq.SetupChannel(a.conn, rabbitmq.GetBookingQueues())
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
		}
		publisher = rabbitmq.NewPublisher(a.ch)
	} else {
		logger.Warn("rabbitmq url is empty, booking events are not published")
	}

	pages, err := newPages(cfg.FrontendURL, logger)
	if err != nil {
		a.close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	settings := settingservice.NewSettingService(db, cacheRedis, logger)
	routes := Routes{
		Log:      logger,
		Auth:     authservice.NewAuthService(db, maker, logger),
		Cars:     carservice.NewCarService(db, cacheRedis, logger),
		Bookings: bookingservice.NewBookingService(db, settings, publisher, logger),
		Payments: paymentservice.NewPaymentService(db, m, logger),
		Settings: settings,
		DB:       db,

		API:  maker,
		Edge: jwt.NewEdgeVerifier(cfg.JWTSecretKey),

		Metrics:  m,
		Gatherer: reg,
		Pages:    pages,

		CORSOrigins:    cfg.CORSOrigins,
		CookieTTL:      cfg.TokenTTL,
		SecureCookie:   cfg.IsProd(),
		LoginRateLimit: cfg.LoginRateLimit,
		LoginRateBurst: cfg.LoginRateBurst,
	}

	router := chi.NewRouter()
	routes.Register(router)

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	a.health = health.NewServer()
	a.grpcServer = grpc.NewServer()
	healthpb.RegisterHealthServer(a.grpcServer, a.health)

	return a, nil
}

// Run запускает HTTP и gRPC серверы и останавливает их при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	// Порт health открывается до старта HTTP, чтобы ошибка не оставила живой сервер.
	var lis net.Listener
	if a.grpcAddr != "" {
		var err error
		lis, err = net.Listen("tcp", a.grpcAddr)
		if err != nil {
			return fmt.Errorf("grpc health listen: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if lis != nil {
		a.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		g.Go(func() error {
			a.logger.Info("gRPC health server starting on", slog.String("address", a.grpcAddr))
			if err := a.grpcServer.Serve(lis); err != nil {
				return fmt.Errorf("grpc health server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down servers gracefully")
		a.health.Shutdown()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := a.server.Shutdown(timeoutCtx)
		a.grpcServer.GracefulStop()
		return err
	})

	return g.Wait()
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close cache", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close storage", sl.Err(err))
		}
	}
}
