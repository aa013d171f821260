package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Catalog  CatalogConfig
	Planner  PlannerConfig
	Export   ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CatalogConfig tunes catalog reads and the CSV importer.
type CatalogConfig struct {
	CacheTTL      time.Duration
	MaxImportRows int
}

// PlannerConfig governs the schedule mutation engine and session store.
type PlannerConfig struct {
	CreditCap  int
	SessionTTL time.Duration
}

// ExportConfig controls calendar and timetable exports and the signed
// download links for shared exports.
type ExportConfig struct {
	ICSWeeks   int
	Timezone   string
	StorageDir string
	SignSecret string
	LinkTTL    time.Duration
	FileTTL    time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Catalog = CatalogConfig{
		CacheTTL:      parseDuration(v.GetString("CATALOG_CACHE_TTL"), 10*time.Minute),
		MaxImportRows: v.GetInt("CATALOG_MAX_IMPORT_ROWS"),
	}

	creditCap := v.GetInt("PLANNER_CREDIT_CAP")
	if creditCap <= 0 {
		creditCap = 32
	}
	cfg.Planner = PlannerConfig{
		CreditCap:  creditCap,
		SessionTTL: parseDuration(v.GetString("PLANNER_SESSION_TTL"), 12*time.Hour),
	}

	icsWeeks := v.GetInt("EXPORT_ICS_WEEKS")
	if icsWeeks <= 0 {
		icsWeeks = 16
	}
	cfg.Export = ExportConfig{
		ICSWeeks:   icsWeeks,
		Timezone:   v.GetString("EXPORT_TIMEZONE"),
		StorageDir: v.GetString("EXPORT_STORAGE_DIR"),
		SignSecret: v.GetString("EXPORT_SIGN_SECRET"),
		LinkTTL:    parseDuration(v.GetString("EXPORT_LINK_TTL"), 24*time.Hour),
		FileTTL:    parseDuration(v.GetString("EXPORT_FILE_TTL"), 48*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "grade_planner")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CATALOG_CACHE_TTL", "10m")
	v.SetDefault("CATALOG_MAX_IMPORT_ROWS", 2000)

	v.SetDefault("PLANNER_CREDIT_CAP", 32)
	v.SetDefault("PLANNER_SESSION_TTL", "12h")

	v.SetDefault("EXPORT_ICS_WEEKS", 16)
	v.SetDefault("EXPORT_TIMEZONE", "America/Sao_Paulo")
	v.SetDefault("EXPORT_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORT_SIGN_SECRET", "")
	v.SetDefault("EXPORT_LINK_TTL", "24h")
	v.SetDefault("EXPORT_FILE_TTL", "48h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
