package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Schedule   ScheduleConfig   `toml:"schedule"`
	Auth       AuthConfig       `toml:"auth"`
	Redis      RedisConfig      `toml:"redis"`
	Mail       MailConfig       `toml:"mail"`
	Kafka      KafkaConfig      `toml:"kafka"`
	Migrations MigrationsConfig `toml:"migrations"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ScheduleConfig рабочие часы по умолчанию и правила отмены
type ScheduleConfig struct {
	WorkStartHour           int    `toml:"work_start_hour"`
	WorkEndHour             int    `toml:"work_end_hour"`
	GranularityMinutes      int    `toml:"granularity_minutes"`
	Timezone                string `toml:"timezone"`
	CancellationCutoffHours int    `toml:"cancellation_cutoff_hours"`
	RefreshHorizonDays      int    `toml:"refresh_horizon_days"` // сколько дней вперед пересчитываются маркеры после смены часов
}

// Location часовой пояс салона
func (s ScheduleConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// CancellationCutoff минимальный срок до начала записи, когда клиент еще может отменить
func (s ScheduleConfig) CancellationCutoff() time.Duration {
	return time.Duration(s.CancellationCutoffHours) * time.Hour
}

// AuthConfig настройки JWT
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
}

// RedisConfig настройки распределенной блокировки дня
type RedisConfig struct {
	Enabled         bool   `toml:"enabled"`
	Addr            string `toml:"addr"`
	Password        string `toml:"password"`
	DB              int    `toml:"db"`
	LockTTLSeconds  int    `toml:"lock_ttl_seconds"`
	LockWaitSeconds int    `toml:"lock_wait_seconds"`
}

// MailConfig настройки почтовых уведомлений
type MailConfig struct {
	Provider  string `toml:"provider"` // sendgrid | stub
	APIKey    string `toml:"api_key"`
	FromEmail string `toml:"from_email"`
	FromName  string `toml:"from_name"`
	SalonName string `toml:"salon_name"`
}

// KafkaConfig настройки публикации событий записей
type KafkaConfig struct {
	Enabled bool     `toml:"enabled"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// MigrationsConfig применение миграций при старте
type MigrationsConfig struct {
	Enabled bool `toml:"enabled"`
}

// Load читает .env (если есть), затем TOML файл, накладывает секреты из окружения,
// заполняет значения по умолчанию и проверяет конфигурацию
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrideString(&c.Database.Host, "DB_HOST")
	overrideInt(&c.Database.Port, "DB_PORT")
	overrideString(&c.Database.User, "DB_USER")
	overrideString(&c.Database.Password, "DB_PASSWORD")
	overrideString(&c.Database.DBName, "DB_NAME")
	overrideString(&c.Auth.JWTSecret, "JWT_SECRET")
	overrideString(&c.Mail.APIKey, "SENDGRID_API_KEY")
	overrideString(&c.Redis.Addr, "REDIS_ADDR")
	overrideString(&c.Redis.Password, "REDIS_PASSWORD")
	overrideInt(&c.Server.HTTPPort, "HTTP_PORT")

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.Kafka.Brokers = strings.Split(brokers, ",")
	}
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 15)
	setDefault(&c.Server.WriteTimeout, 15)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 10)

	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "salon-booking"
	}

	setDefault(&c.Schedule.WorkStartHour, domain.DefaultWorkStartHour)
	setDefault(&c.Schedule.WorkEndHour, domain.DefaultWorkEndHour)
	setDefault(&c.Schedule.GranularityMinutes, domain.DefaultGranularityMinutes)
	setDefault(&c.Schedule.CancellationCutoffHours, int(domain.DefaultCancellationCutoff/time.Hour))
	setDefault(&c.Schedule.RefreshHorizonDays, 365)
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = domain.DefaultTimezone
	}

	setDefault(&c.Redis.LockTTLSeconds, 10)
	setDefault(&c.Redis.LockWaitSeconds, 5)

	if c.Mail.Provider == "" {
		c.Mail.Provider = "stub"
	}
	if c.Mail.SalonName == "" {
		c.Mail.SalonName = "Salon Glip"
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "salon.appointments"
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var errs []error

	s := c.Schedule
	if s.WorkStartHour < 0 || s.WorkEndHour > 24 || s.WorkEndHour <= s.WorkStartHour {
		errs = append(errs, fmt.Errorf("schedule: work hours %d-%d are invalid", s.WorkStartHour, s.WorkEndHour))
	}
	if s.GranularityMinutes <= 0 || 60%s.GranularityMinutes != 0 {
		errs = append(errs, fmt.Errorf("schedule: granularity %d must divide 60", s.GranularityMinutes))
	}
	if _, err := s.Location(); err != nil {
		errs = append(errs, fmt.Errorf("schedule: timezone %q: %w", s.Timezone, err))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth: jwt_secret is required"))
	}

	switch c.Mail.Provider {
	case "stub":
	case "sendgrid":
		if c.Mail.APIKey == "" || c.Mail.FromEmail == "" {
			errs = append(errs, errors.New("mail: sendgrid requires api_key and from_email"))
		}
	default:
		errs = append(errs, fmt.Errorf("mail: unknown provider %q", c.Mail.Provider))
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("kafka: brokers are required when enabled"))
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis: addr is required when enabled"))
	}

	return errors.Join(errs...)
}

func overrideString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDefault(dst *int, value int) {
	if *dst == 0 {
		*dst = value
	}
}
