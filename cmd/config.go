package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"warehouse/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddress     string
	SnapshotCacheTTL time.Duration

	TransitionTimeout time.Duration
	MaxReworkCycles   int

	DwellAlertThreshold  time.Duration
	DwellMonitorSchedule string

	LogLevel logrus.Level
}

// DSN returns the postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadDotEnv reads a .env file into the process environment. A missing file
// is not an error; variables already set in the environment win.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadConfig builds the configuration from os.Getenv.
func LoadConfig() (Config, error) {
	return ConfigFromEnv(os.Getenv)
}

// ConfigFromEnv reads every setting through getenv, applying defaults for
// empty values. All invalid values are reported together.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	r := envReader{getenv: getenv}

	config := Config{
		HTTPPort:   r.string("HTTP_PORT", "8080"),
		DBHost:     r.string("DB_HOST", "localhost"),
		DBPort:     r.string("DB_PORT", "5432"),
		DBUser:     r.string("DB_USER", "postgres"),
		DBPassword: r.string("DB_PASSWORD", ""),
		DBName:     r.string("DB_NAME", "warehouse"),
		DBSslMode:  r.string("DB_SSLMODE", "disable"),

		RedisAddress:     r.string("REDIS_ADDRESS", "localhost:6379"),
		SnapshotCacheTTL: r.duration("SNAPSHOT_CACHE_TTL", time.Minute),

		TransitionTimeout: r.duration("TRANSITION_TIMEOUT", 5*time.Second),
		MaxReworkCycles:   r.int("MAX_REWORK_CYCLES", 0),

		DwellAlertThreshold:  r.duration("DWELL_ALERT_THRESHOLD", jobs.DefaultDwellThreshold),
		DwellMonitorSchedule: r.string("DWELL_MONITOR_SCHEDULE", jobs.DefaultDwellSchedule),

		LogLevel: r.level("LOG_LEVEL", logrus.InfoLevel),
	}

	if config.MaxReworkCycles < 0 {
		r.fail("MAX_REWORK_CYCLES", errors.New("must not be negative"))
	}
	if config.SnapshotCacheTTL < 0 {
		r.fail("SNAPSHOT_CACHE_TTL", errors.New("must not be negative"))
	}
	if config.TransitionTimeout <= 0 {
		r.fail("TRANSITION_TIMEOUT", errors.New("must be positive"))
	}
	if config.DwellAlertThreshold <= 0 {
		r.fail("DWELL_ALERT_THRESHOLD", errors.New("must be positive"))
	}

	if err := errors.Join(r.problems...); err != nil {
		return Config{}, err
	}
	return config, nil
}

type envReader struct {
	getenv   func(string) string
	problems []error
}

func (r *envReader) fail(key string, err error) {
	r.problems = append(r.problems, fmt.Errorf("%s: %w", key, err))
}

func (r *envReader) string(key, fallback string) string {
	if v := r.getenv(key); v != "" {
		return v
	}
	return fallback
}

func (r *envReader) int(key string, fallback int) int {
	v := r.getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, err)
		return fallback
	}
	return n
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	v := r.getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, err)
		return fallback
	}
	return d
}

func (r *envReader) level(key string, fallback logrus.Level) logrus.Level {
	v := r.getenv(key)
	if v == "" {
		return fallback
	}
	l, err := logrus.ParseLevel(v)
	if err != nil {
		r.fail(key, err)
		return fallback
	}
	return l
}
