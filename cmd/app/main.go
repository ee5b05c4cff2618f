package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"warehouse/cmd"
	"warehouse/internal/adapters/out/postgres"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run returns only after every started component has been stopped.
func run() error {
	if err := cmd.LoadDotEnv(".env"); err != nil {
		return err
	}
	configs, err := cmd.LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(configs)

	db, err := openDatabase(configs)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	redisClient := goredis.NewClient(&goredis.Options{Addr: configs.RedisAddress})
	defer redisClient.Close()

	app := cmd.NewCompositionRoot(configs, db, redisClient, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return fmt.Errorf("jobs: %w", err)
	}
	defer jobManager.StopAll()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return startWebServer(ctx, app, configs.HTTPPort, logger)
}

func newLogger(configs cmd.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(configs.LogLevel)
	return logger
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := db.Use(otelgorm.NewPlugin()); err != nil {
		return nil, fmt.Errorf("install otelgorm plugin: %w", err)
	}
	if err := postgres.Migrate(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func startWebServer(ctx context.Context, app cmd.CompositionRoot, port string, logger logrus.FieldLogger) error {
	e := echo.New()
	server := app.CreateHTTPServer()
	if err := server.Register(ctx, e); err != nil {
		return err
	}

	if err := cmd.Serve(ctx, e, fmt.Sprintf("0.0.0.0:%s", port), cmd.DefaultShutdownTimeout); err != nil {
		return err
	}
	logger.Info("http server stopped")
	return nil
}
