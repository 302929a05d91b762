package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"wirecore/internal/domain"
)

// Session store kinds.
const (
	SessionStoreFile  = "file"
	SessionStoreRedis = "redis"
)

const cookieLabelFile = "cookie-label"

// Config holds runtime wiring options for building the app.
type Config struct {
	BackendURL   string `yaml:"backend_url" env:"WIRECORE_BACKEND_URL" env-default:"http://127.0.0.1:8080" env-description:"backend base URL"`
	WebsocketURL string `yaml:"websocket_url" env:"WIRECORE_WEBSOCKET_URL" env-description:"notification stream base URL (defaults to the backend URL)"`

	Email      string `yaml:"email" env:"WIRECORE_EMAIL" env-description:"account email"`
	Password   string `yaml:"password" env:"WIRECORE_PASSWORD" env-description:"account password"`
	Home       string `yaml:"home" env:"WIRECORE_HOME" env-description:"config dir (default ~/.wirecore)"`
	Passphrase string `yaml:"passphrase" env:"WIRECORE_PASSPHRASE" env-description:"passphrase protecting local keys"`

	Client ClientConfig `yaml:"client" env-prefix:"WIRECORE_CLIENT_"`

	CookieLabel     string        `yaml:"cookie_label" env:"WIRECORE_COOKIE_LABEL" env-description:"login cookie label (generated once if empty)"`
	MaxLoginRetries int           `yaml:"max_login_retries" env:"WIRECORE_MAX_LOGIN_RETRIES" env-default:"1"`
	InitialPreKeys  int           `yaml:"initial_prekeys" env:"WIRECORE_INITIAL_PREKEYS" env-default:"100"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"WIRECORE_REQUEST_TIMEOUT" env-default:"30s"`

	SessionStore string      `yaml:"session_store" env:"WIRECORE_SESSION_STORE" env-default:"file" env-description:"file or redis"`
	Redis        RedisConfig `yaml:"redis" env-prefix:"WIRECORE_REDIS_"`

	Log LogConfig `yaml:"log" env-prefix:"WIRECORE_LOG_"`
}

// ClientConfig describes the device registered on login.
type ClientConfig struct {
	Type  string `yaml:"type" env:"TYPE" env-default:"permanent"`
	Class string `yaml:"class" env:"CLASS" env-default:"desktop"`
	Model string `yaml:"model" env:"MODEL" env-default:"wirecore"`
	Label string `yaml:"label" env:"LABEL"`
}

// RedisConfig locates the redis session store.
type RedisConfig struct {
	Addr string        `yaml:"addr" env:"ADDR" env-default:"127.0.0.1:6379"`
	TTL  time.Duration `yaml:"ttl" env:"TTL" env-default:"0s"`
}

// LogConfig selects the log level and output format (text or json).
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"FORMAT" env-default:"text"`
}

// Load reads the configuration. A .env file in the working directory is
// applied to the environment first if present. path may be empty, in which
// case only the environment is consulted.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Usage describes the supported environment variables.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}

// Prepare fills in derived defaults and creates the home directory. The
// cookie label, when not configured, is generated once and kept in the home
// directory so repeated logins reuse the same cookie slot.
func (c *Config) Prepare() error {
	if c.Home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.Home = filepath.Join(dir, ".wirecore")
	}
	if err := os.MkdirAll(c.Home, 0o700); err != nil {
		return err
	}
	if c.WebsocketURL == "" {
		c.WebsocketURL = c.BackendURL
	}
	if c.CookieLabel == "" {
		label, err := loadOrCreateCookieLabel(filepath.Join(c.Home, cookieLabelFile))
		if err != nil {
			return err
		}
		c.CookieLabel = label
	}
	return nil
}

func loadOrCreateCookieLabel(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err == nil {
		if label := strings.TrimSpace(string(b)); label != "" {
			return label, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	label := uuid.NewString()
	if err := os.WriteFile(path, []byte(label+"\n"), 0o600); err != nil {
		return "", err
	}
	return label, nil
}

// NewSession returns an unauthenticated session for the configured account
// and device.
func (c *Config) NewSession() *domain.Session {
	return &domain.Session{
		BackendURL:  c.BackendURL,
		Credentials: domain.Credentials{Email: c.Email, Password: c.Password},
		ClientInfo: domain.ClientInfo{
			Type:   c.Client.Type,
			Class:  c.Client.Class,
			Model:  c.Client.Model,
			Label:  c.Client.Label,
			Cookie: c.CookieLabel,
		},
	}
}
