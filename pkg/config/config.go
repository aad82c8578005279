package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/noah-isme/sma-timetable-grid/internal/timetable"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Session sources.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Grid     GridConfig
	Sessions SessionsConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Export   ExportConfig
	CORS     CORSConfig
	Log      LogConfig
}

// GridConfig holds the raw slot grid settings; see Timetable.
type GridConfig struct {
	Start       string
	End         string
	SlotMinutes int
}

// SessionsConfig selects where course sessions are read from.
type SessionsConfig struct {
	Source  string
	CSVPath string
	Cycles  []string
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

// CacheConfig toggles the Redis cache of rendered views.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// ExportConfig controls where exports land and how many run at once.
type ExportConfig struct {
	Dir        string
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// Timetable converts the grid settings into a validated timetable.GridConfig.
func (c GridConfig) Timetable() (timetable.GridConfig, error) {
	start, err := timetable.ParseClock(c.Start)
	if err != nil {
		return timetable.GridConfig{}, fmt.Errorf("%w: GRID_START: %v", timetable.ErrConfiguration, err)
	}
	end, err := timetable.ParseClock(c.End)
	if err != nil {
		return timetable.GridConfig{}, fmt.Errorf("%w: GRID_END: %v", timetable.ErrConfiguration, err)
	}
	cfg := timetable.GridConfig{
		Start:        start,
		End:          end,
		SlotDuration: time.Duration(c.SlotMinutes) * time.Minute,
	}
	if err := cfg.Validate(); err != nil {
		return timetable.GridConfig{}, err
	}
	return cfg, nil
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Grid = GridConfig{
		Start:       v.GetString("GRID_START"),
		End:         v.GetString("GRID_END"),
		SlotMinutes: v.GetInt("GRID_SLOT_MINUTES"),
	}

	cfg.Sessions = SessionsConfig{
		Source:  strings.ToLower(v.GetString("SESSION_SOURCE")),
		CSVPath: v.GetString("SESSIONS_CSV_PATH"),
		Cycles:  splitAndTrim(v.GetString("CYCLES")),
	}
	switch cfg.Sessions.Source {
	case SourceCSV, SourcePostgres:
	default:
		return nil, fmt.Errorf("%w: SESSION_SOURCE must be %q or %q, got %q",
			timetable.ErrConfiguration, SourceCSV, SourcePostgres, cfg.Sessions.Source)
	}

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

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 10*time.Minute),
	}

	cfg.Export = ExportConfig{
		Dir:        v.GetString("EXPORT_DIR"),
		Workers:    v.GetInt("EXPORT_WORKERS"),
		Retries:    v.GetInt("EXPORT_RETRIES"),
		RetryDelay: parseDuration(v.GetString("EXPORT_RETRY_DELAY"), time.Second),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	if _, err := cfg.Grid.Timetable(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("GRID_START", "08:00")
	v.SetDefault("GRID_END", "22:15")
	v.SetDefault("GRID_SLOT_MINUTES", 45)

	v.SetDefault("SESSION_SOURCE", SourceCSV)
	v.SetDefault("SESSIONS_CSV_PATH", "data/horario_final.csv")
	v.SetDefault("CYCLES", "1,2,4,6,8,10")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "10m")

	v.SetDefault("EXPORT_DIR", "./output")
	v.SetDefault("EXPORT_WORKERS", 2)
	v.SetDefault("EXPORT_RETRIES", 2)
	v.SetDefault("EXPORT_RETRY_DELAY", "1s")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// isMissingFile reports a missing explicit config file; viper only returns
// ConfigFileNotFoundError when it searched config paths itself.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
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
