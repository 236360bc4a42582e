// Wildfire Runner — обработка VIIRS-гранул в AF-продукты.
//
// Runner:
//   - Слушает SDR-уведомления из RabbitMQ
//   - Собирает гранулы и запускает CSPP Active Fires в пуле
//   - Доставляет продукты в output_dir
//   - Публикует уведомления о готовых продуктах
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/shaiso/Wildfire/internal/config"
	"github.com/shaiso/Wildfire/internal/janitor"
	"github.com/shaiso/Wildfire/internal/mq"
	"github.com/shaiso/Wildfire/internal/repo"
	"github.com/shaiso/Wildfire/internal/runner"
	"github.com/shaiso/Wildfire/internal/telemetry"
	"github.com/shaiso/Wildfire/internal/worker"
)

func main() {
	var configFile string
	var service string
	var environment string

	rootCmd := &cobra.Command{
		Use:   "wildfire-runner",
		Short: "CSPP VIIRS Active Fires runner",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configFile, service, environment)
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "путь к YAML-конфигурации (обязательно)")
	rootCmd.Flags().StringVarP(&service, "service", "s", "", "имя сервиса, например viirs-ibands (обязательно)")
	rootCmd.Flags().StringVarP(&environment, "environment", "e", "", "окружение обработки: utv/test/prod (обязательно)")
	rootCmd.MarkFlagRequired("config")
	rootCmd.MarkFlagRequired("service")
	rootCmd.MarkFlagRequired("environment")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(configFile, service, environment string) error {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger = telemetry.WithService(logger, service)
	logger.Info("starting wildfire-runner", "environment", environment)

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Конфигурация сервиса
	cfg, err := config.Load(configFile, service, environment)
	if err != nil {
		logger.Error("failed to load config", "config", configFile, "error", err)
		return err
	}
	logger.Info("config loaded",
		"subscribe_topics", cfg.SubscribeTopics,
		"publish_topics", cfg.PublishTopics,
		"workers", cfg.Workers,
		"mbands", cfg.MbandsEnabled(),
	)

	// RabbitMQ
	mqConn, err := mq.NewConnection(mq.URLFromEnv(), logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		return err
	}
	defer mqConn.Close()
	logger.Info("RabbitMQ connected")

	// Создаём топологию: обменники + очередь сервиса с привязками
	if err := mq.SetupTopology(ctx, mqConn, service, cfg.SubscribeTopics); err != nil {
		logger.Error("failed to setup topology", "error", err)
		return err
	}

	// Журнал запусков — опционален: без БД runner работает полностью
	var journal *repo.JobRepo
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Warn("database not available, job journal disabled", "error", err)
	} else {
		defer pool.Close()
		journal = repo.NewJobRepo(pool)
		logger.Info("database connected")
	}

	// Пул запусков CSPP
	invoker := worker.NewInvoker(worker.InvokerConfig{
		AFCall:      cfg.AFCall,
		NumCPUs:     cfg.NumCPUs,
		Mbands:      cfg.MbandsEnabled(),
		WorkDirBase: cfg.WorkDirBase,
		Logger:      logger,
	})
	workerPool := worker.NewPool(worker.PoolConfig{
		Invoker:   invoker,
		Collector: worker.NewCollector(cfg.MbandsEnabled()),
		Workers:   cfg.Workers,
		QueueSize: cfg.QueueSize,
		Logger:    logger,
	})

	// Публикация уведомлений о продуктах
	products := runner.NewProductPublisher(
		mq.NewPublisher(mqConn, logger),
		cfg.PublishTopics,
		cfg.Site,
		cfg.Environment,
		logger,
	)

	// Создаём runner
	r := runner.New(runner.Config{
		Service:        service,
		OutputDir:      cfg.OutputDir,
		ReceiveTimeout: time.Duration(cfg.ReceiveTimeoutSec) * time.Second,
		Conn:           mqConn,
		Pool:           workerPool,
		Products:       products,
		Journal:        journal,
		Logger:         logger,
	})

	if err := r.Start(ctx); err != nil {
		logger.Error("failed to start runner", "error", err)
		return err
	}

	// Уборка брошенных рабочих директорий
	jan, err := janitor.New(janitor.Config{
		WorkDirBase: cfg.WorkDirBase,
		CronExpr:    cfg.CleanupCron,
		MaxAge:      time.Duration(cfg.WorkdirMaxAgeHours) * time.Hour,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to setup janitor", "error", err)
		return err
	}
	jan.Start()

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		logger.Info("listening", "addr", cfg.MetricsAddr)
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	// Останавливаем в обратном порядке; начатые запуски CSPP
	// дорабатывают до конца
	jan.Stop()
	r.Stop()
	workerPool.Stop()
	logger.Info("wildfire-runner stopped")
	return nil
}
