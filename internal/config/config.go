package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
		MaxConns int32  `mapstructure:"max_conns"`
		MinConns int32  `mapstructure:"min_conns"`
	} `mapstructure:"database"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
		// LockTTLSeconds bounds how long a reconciliation holds its redis lock.
		LockTTLSeconds int `mapstructure:"lock_ttl_seconds"`
	} `mapstructure:"redis"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Storage struct {
		Endpoint    string `mapstructure:"endpoint"`
		Region      string `mapstructure:"region"`
		Bucket      string `mapstructure:"bucket"`
		AccessKey   string `mapstructure:"access_key"`
		SecretKey   string `mapstructure:"secret_key"`
		PublicURL   string `mapstructure:"public_base_url"`
		MaxUploadMB int    `mapstructure:"max_upload_mb"`
	} `mapstructure:"storage"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Timezone string `mapstructure:"timezone"`
}

// Load reads configs/config.yaml when present, then .env and the environment.
// Environment variables use underscores, e.g. DATABASE_HOST or JWT_SECRET.
func Load() (*Config, error) {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(configFile())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnv(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		logrus.Info("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	applyEnvOverrides(&cfg)

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return &cfg, nil
}

func configFile() string {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return path
	}
	return "configs/config.yaml"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "condo_db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.lock_ttl_seconds", 10)
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "condo-backend")
	v.SetDefault("storage.region", "auto")
	v.SetDefault("storage.bucket", "payment-proofs")
	v.SetDefault("storage.max_upload_mb", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("timezone", "America/Caracas")
}

// bindEnv registers keys that have no default. AutomaticEnv alone does not
// surface them through Unmarshal. The first variable set wins.
func bindEnv(v *viper.Viper) {
	bindings := map[string][]string{
		"jwt.secret":              {"JWT_SECRET"},
		"storage.endpoint":        {"STORAGE_ENDPOINT", "S3_ENDPOINT"},
		"storage.region":          {"STORAGE_REGION", "S3_REGION"},
		"storage.bucket":          {"STORAGE_BUCKET", "S3_BUCKET"},
		"storage.access_key":      {"STORAGE_ACCESS_KEY", "S3_ACCESS_KEY"},
		"storage.secret_key":      {"STORAGE_SECRET_KEY", "S3_SECRET_KEY"},
		"storage.public_base_url": {"STORAGE_PUBLIC_BASE_URL", "S3_PUBLIC_BASE_URL"},
		"storage.max_upload_mb":   {"STORAGE_MAX_UPLOAD_MB"},
		"redis.lock_ttl_seconds":  {"REDIS_LOCK_TTL_SECONDS"},
	}
	for key, envs := range bindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
}

// applyEnvOverrides keeps the short DB_* and REDIS_* names working.
func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}
}

// LockTTL is the reconciliation lock lifetime, never below one second.
func (c *Config) LockTTL() time.Duration {
	if c.Redis.LockTTLSeconds < 1 {
		return time.Second
	}
	return time.Duration(c.Redis.LockTTLSeconds) * time.Second
}

func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name, c.Database.SSLMode)
}
