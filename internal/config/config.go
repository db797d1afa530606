package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Letter   LetterConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Driver   string // "sqlite" or "postgres"
	Path     string // SQLite database file path
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type AuthConfig struct {
	Secret        string
	Issuer        string
	SessionMaxAge time.Duration
	CookieSecure  bool
	SeedUsername  string
	SeedPassword  string
}

type StorageConfig struct {
	Root string
}

type LetterConfig struct {
	PDFFontPath string
}

type LogConfig struct {
	Level string
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	ErrMissingSecret  = errors.New("APP_SECRET is not set; a signing secret is required")
	ErrMissingPDFFont = errors.New("PDF_FONT_PATH is not set; a UTF-8 TTF font is required for PDF letters")
)

// Load reads an optional .env file, an optional YAML file named by CONFIG_FILE
// and the process environment, in increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("port"),
			Env:  v.GetString("env"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("db_driver"),
			Path:     v.GetString("db_path"),
			Host:     v.GetString("db_host"),
			Port:     v.GetString("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			DBName:   v.GetString("db_name"),
		},
		Auth: AuthConfig{
			Secret:        v.GetString("app_secret"),
			Issuer:        v.GetString("session_issuer"),
			SessionMaxAge: v.GetDuration("session_max_age"),
			CookieSecure:  v.GetBool("cookie_secure"),
			SeedUsername:  v.GetString("seed_username"),
			SeedPassword:  v.GetString("seed_password"),
		},
		Storage: StorageConfig{
			Root: v.GetString("storage_dir"),
		},
		Letter: LetterConfig{
			PDFFontPath: v.GetString("pdf_font_path"),
		},
		Log: LogConfig{
			Level: v.GetString("log_level"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("config_file", "")
	v.SetDefault("port", "8000")
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("db_driver", DriverSQLite)
	v.SetDefault("db_path", filepath.Join("storage", "app.db"))
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "office_letters")

	v.SetDefault("app_secret", "")
	v.SetDefault("session_issuer", "office-letters")
	v.SetDefault("session_max_age", "8h")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("seed_username", "owner")
	v.SetDefault("seed_password", "")

	v.SetDefault("storage_dir", "storage")
	v.SetDefault("pdf_font_path", "")
}

// Validate rejects configurations the server must not start with.
func (c *Config) Validate() error {
	if c.Auth.Secret == "" {
		return ErrMissingSecret
	}
	if c.Auth.SessionMaxAge <= 0 {
		return fmt.Errorf("invalid SESSION_MAX_AGE: %s", c.Auth.SessionMaxAge)
	}
	if c.Letter.PDFFontPath == "" {
		return ErrMissingPDFFont
	}
	if _, err := os.Stat(c.Letter.PDFFontPath); err != nil {
		return fmt.Errorf("invalid PDF_FONT_PATH: %w", err)
	}
	if c.Auth.SeedUsername == "" {
		return errors.New("SEED_USERNAME must not be empty")
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func (c *Config) GetDatabaseDSN() string {
	if c.Database.Driver == DriverSQLite {
		return c.Database.Path
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// String masks secrets so the config can be logged.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Env: %s, Port: %s, DB: %s, Storage: %s, Auth: *** (masked) ***}",
		c.Server.Env, c.Server.Port, c.Database.Driver, c.Storage.Root,
	)
}
