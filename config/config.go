package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Environment string
	Port        string
	JWTSecret   string
	CORSOrigins string
	Database    DatabaseConfig
	Admin       AdminConfig
	Media       MediaConfig
	Redis       RedisConfig
	Logger      LoggerConfig
}

type DatabaseConfig struct {
	Driver string
	DSN    string
}

type AdminConfig struct {
	Username string
	Password string
}

type MediaConfig struct {
	Backend     string
	Dir         string
	BaseURL     string
	NatsURL     string
	Bucket      string
	MaxUploadMB int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type LoggerConfig struct {
	Level  string
	File   string
	Pretty bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8081")
	v.SetDefault("JWT_SECRET", "default-secret")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "jewelstore.db")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("MEDIA_BACKEND", "local")
	v.SetDefault("MEDIA_DIR", "media")
	v.SetDefault("MEDIA_BASE_URL", "http://localhost:8081/media")
	v.SetDefault("NATS_URL", "nats://127.0.0.1:4222")
	v.SetDefault("MEDIA_BUCKET", "jewelstore-media")
	v.SetDefault("MAX_UPLOAD_MB", 10)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_PRETTY", false)
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	ttl, err := time.ParseDuration(v.GetString("CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL %q: %w", v.GetString("CACHE_TTL"), err)
	}

	conf := &Config{
		Environment: v.GetString("APP_ENV"),
		Port:        v.GetString("PORT"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		CORSOrigins: v.GetString("CORS_ORIGINS"),
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:    v.GetString("DB_DSN"),
		},
		Admin: AdminConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		Media: MediaConfig{
			Backend:     strings.ToLower(v.GetString("MEDIA_BACKEND")),
			Dir:         v.GetString("MEDIA_DIR"),
			BaseURL:     strings.TrimRight(v.GetString("MEDIA_BASE_URL"), "/"),
			NatsURL:     v.GetString("NATS_URL"),
			Bucket:      v.GetString("MEDIA_BUCKET"),
			MaxUploadMB: v.GetInt("MAX_UPLOAD_MB"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      ttl,
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOG_LEVEL"),
			File:   v.GetString("LOG_FILE"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Media.Backend {
	case "local", "jetstream":
	default:
		return fmt.Errorf("unsupported MEDIA_BACKEND %q", c.Media.Backend)
	}
	if c.Media.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
