// Package scheduler запускает фоновую сверку статусов бронирований по расписанию.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/car-rental/internal/config"
	"github.com/magabrotheeeer/car-rental/internal/lib/metrics"
	"github.com/magabrotheeeer/car-rental/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	reconcilerservice "github.com/magabrotheeeer/car-rental/internal/services/reconciler"
	"github.com/magabrotheeeer/car-rental/internal/storage/repository"
)

// App представляет приложение планировщика.
type App struct {
	cron       *cron.Cron
	reconciler *reconcilerservice.ReconcilerService
	schedule   string
	metrics    *http.Server
	db         *repository.Storage
	conn       *amqp.Connection
	ch         *amqp.Channel
	logger     *slog.Logger
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	for range 10 {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := db.Ping(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	a := &App{db: db, logger: logger, schedule: cfg.Schedule}

	if err := waitForDB(ctx, db); err != nil {
		a.close()
		return nil, err
	}

	var publisher reconcilerservice.Publisher
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
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	a.metrics = &http.Server{
		Addr:              cfg.MetricsAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	a.reconciler = reconcilerservice.NewReconcilerService(db, publisher, m, cfg.OverduePendingPolicy, logger)

	cronLog := sl.CronLogger{Log: logger}
	a.cron = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	return a, nil
}

// Run выполняет сверку сразу и затем по расписанию до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	job := a.reconciler.Job(ctx, time.Now)
	if _, err := a.cron.AddJob(a.schedule, job); err != nil {
		return fmt.Errorf("invalid reconciler schedule %q: %w", a.schedule, err)
	}

	go func() {
		a.logger.Info("metrics server starting on", slog.String("address", a.metrics.Addr))
		if err := a.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", sl.Err(err))
		}
	}()

	// Первый прогон не ждет расписания: после простоя статусы могли устареть.
	job.Run()
	a.cron.Start()
	a.logger.Info("reconciler scheduled", slog.String("schedule", a.schedule))

	<-ctx.Done()
	a.logger.Info("shutting down scheduler service")

	<-a.cron.Stop().Done()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.metrics.Shutdown(timeoutCtx)
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
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
