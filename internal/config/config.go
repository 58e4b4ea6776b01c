package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/nikolayk812/storefront/internal/guard"
	"golang.org/x/text/currency"
	yaml "gopkg.in/yaml.v3"
)

var ErrConfigInvalid = errors.New("storefront config is invalid")

// Env overrides; the API root is the single variable the original deployment
// used to select the backend origin.
const (
	EnvAPIRoot     = "STOREFRONT_API_ROOT"
	EnvTokenSecret = "STOREFRONT_TOKEN_SECRET"
	EnvListenAddr  = "STOREFRONT_LISTEN"
	EnvDatabaseURI = "STOREFRONT_DB_URI"
)

type GuardConfig struct {
	Routes  guard.Routes  `yaml:"routes"`
	Targets guard.Targets `yaml:"targets"`
}

type Config struct {
	// base URL of the backend REST API
	APIRoot string `yaml:"apiRoot"`

	ListenAddr  string `yaml:"listen"`
	TokenSecret string `yaml:"tokenSecret"`

	// directory for file-backed cart snapshots
	SnapshotDir string `yaml:"snapshotDir"`

	// optional; when set, cart snapshots go to Postgres instead of files
	DatabaseURI string `yaml:"databaseURI"`

	Currency string `yaml:"currency"`

	Guard GuardConfig `yaml:"guard"`
}

func Default() Config {
	return Config{
		ListenAddr:  ":8080",
		SnapshotDir: ".storefront/carts",
		Currency:    "USD",
		Guard: GuardConfig{
			Routes: guard.Routes{
				Auth:     []string{"/login", "/register", "/admin/login"},
				Admin:    []string{"/admin", "/api/admin"},
				Customer: []string{"/account", "/orders", "/checkout", "/api/checkout"},
			},
			Targets: guard.Targets{
				Home:       "/",
				AdminHome:  "/admin/dashboard",
				Login:      "/login",
				AdminLogin: "/admin/login",
			},
		},
	}
}

// Load reads the YAML file (optional), applies env overrides and verifies.
func Load(path string) (Config, error) {
	conf := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("os.ReadFile: %w", err)
		}
		if err := yaml.Unmarshal(data, &conf); err != nil {
			return Config{}, fmt.Errorf("yaml.Unmarshal: %w", err)
		}
	}

	if v := os.Getenv(EnvAPIRoot); v != "" {
		conf.APIRoot = v
	}
	if v := os.Getenv(EnvTokenSecret); v != "" {
		conf.TokenSecret = v
	}
	if v := os.Getenv(EnvListenAddr); v != "" {
		conf.ListenAddr = v
	}
	if v := os.Getenv(EnvDatabaseURI); v != "" {
		conf.DatabaseURI = v
	}

	if err := conf.Verify(); err != nil {
		return Config{}, err
	}

	return conf, nil
}

func (c Config) Verify() error {
	u, err := url.Parse(c.APIRoot)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("%w: apiRoot is not an absolute URL: %q", ErrConfigInvalid, c.APIRoot)
	}

	if c.TokenSecret == "" {
		return fmt.Errorf("%w: tokenSecret is empty", ErrConfigInvalid)
	}

	if _, err := currency.ParseISO(c.Currency); err != nil {
		return fmt.Errorf("%w: currency %q is not valid: %s", ErrConfigInvalid, c.Currency, err)
	}

	return nil
}
