package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

const (
	defaultAPIURL  = "http://localhost:3000"
	defaultIBGEURL = "https://servicodados.ibge.gov.br/api/v1/localidades"
)

// Config captures environment driven configuration for the terminal client.
type Config struct {
	APIURL         string
	IBGEURL        string
	DemoMode       bool
	MockFallback   bool
	SessionBackend string
	SessionFile    string
	SQLiteDSN      string
	RedisURL       string
	HTTPTimeout    time.Duration
	LogLevel       string
}

// DemoConfig captures configuration for the offline demo backend.
type DemoConfig struct {
	HTTPPort  int
	JWTSecret string
	TokenTTL  time.Duration
	LogLevel  string
	ArtistID  string
}

// LoadDotEnv loads variables from the given .env files (".env" when none is
// named) without overriding the process environment. Missing files are
// ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("não foi possível ler %s: %w", path, err)
		}
	}
	return nil
}

// Load parses client configuration from the current process environment.
//
// Optional fields get defaults; invalid values and values required by the
// selected session backend are reported with localized messages.
func Load() (Config, error) {
	stateDir := defaultStateDir()
	cfg := Config{
		APIURL:         defaultAPIURL,
		IBGEURL:        defaultIBGEURL,
		MockFallback:   true,
		SessionBackend: BackendFile,
		SessionFile:    filepath.Join(stateDir, "session.json"),
		SQLiteDSN:      filepath.Join(stateDir, "session.db"),
		LogLevel:       "info",
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if value := env("QT_API_URL"); value != "" {
		if !validURL(value) {
			invalid = append(invalid, "QT_API_URL")
		} else {
			cfg.APIURL = strings.TrimRight(value, "/")
		}
	}

	if value := env("QT_IBGE_URL"); value != "" {
		if !validURL(value) {
			invalid = append(invalid, "QT_IBGE_URL")
		} else {
			cfg.IBGEURL = strings.TrimRight(value, "/")
		}
	}

	if value := env("QT_DEMO_MODE"); value != "" {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			invalid = append(invalid, "QT_DEMO_MODE")
		} else {
			cfg.DemoMode = enabled
		}
	}

	if value := env("QT_MOCK_FALLBACK"); value != "" {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			invalid = append(invalid, "QT_MOCK_FALLBACK")
		} else {
			cfg.MockFallback = enabled
		}
	}

	if value := env("QT_SESSION_BACKEND"); value != "" {
		switch backend := strings.ToLower(value); backend {
		case BackendFile, BackendSQLite, BackendRedis, BackendMemory:
			cfg.SessionBackend = backend
		default:
			invalid = append(invalid, "QT_SESSION_BACKEND")
		}
	}

	if value := env("QT_SESSION_FILE"); value != "" {
		cfg.SessionFile = value
	}

	if value := env("QT_SQLITE_DSN"); value != "" {
		cfg.SQLiteDSN = value
	}

	cfg.RedisURL = env("QT_REDIS_URL")
	if cfg.SessionBackend == BackendRedis && cfg.RedisURL == "" {
		missing = append(missing, "QT_REDIS_URL")
	}

	if value := env("QT_HTTP_TIMEOUT"); value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil || timeout < 0 {
			invalid = append(invalid, "QT_HTTP_TIMEOUT")
		} else {
			cfg.HTTPTimeout = timeout
		}
	}

	if value := env("QT_LOG_LEVEL"); value != "" {
		cfg.LogLevel = value
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("variáveis de ambiente obrigatórias não definidas: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("valores inválidos nas variáveis de ambiente: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

// LoadDemo parses the demo backend configuration.
func LoadDemo() (DemoConfig, error) {
	cfg := DemoConfig{
		HTTPPort: 3000,
		TokenTTL: 24 * time.Hour,
		LogLevel: "info",
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if value := env("QT_DEMO_PORT"); value != "" {
		port, err := strconv.Atoi(value)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "QT_DEMO_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if secret := env("QT_DEMO_JWT_SECRET"); secret == "" {
		missing = append(missing, "QT_DEMO_JWT_SECRET")
	} else {
		cfg.JWTSecret = secret
	}

	if value := env("QT_DEMO_TOKEN_TTL"); value != "" {
		ttl, err := time.ParseDuration(value)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "QT_DEMO_TOKEN_TTL")
		} else {
			cfg.TokenTTL = ttl
		}
	}

	if value := env("QT_LOG_LEVEL"); value != "" {
		cfg.LogLevel = value
	}
	cfg.ArtistID = env("QT_DEMO_ARTIST_ID")

	if len(missing) > 0 {
		return DemoConfig{}, fmt.Errorf("variáveis de ambiente obrigatórias não definidas: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return DemoConfig{}, fmt.Errorf("valores inválidos nas variáveis de ambiente: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func validURL(value string) bool {
	u, err := url.Parse(value)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "quebra-tigela")
	}
	return ".quebra-tigela"
}
