package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAddr         = ":8080"
	DefaultCallbackPath = "/usercallback"
	DefaultAuthURL      = "https://accounts.google.com/o/oauth2/v2/auth"
	DefaultTokenURL     = "https://oauth2.googleapis.com/token"
	DefaultScope        = "https://www.googleapis.com/auth/photoslibrary"
	DefaultAPIBaseURL   = "https://photoslibrary.googleapis.com/v1"
	DefaultStoreDriver  = "sqlite"
	DefaultStoreDSN     = "photodrop.db"
	DefaultHTTPTimeout  = "60s"
)

// ServerConfig defines the web endpoint settings.
type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	CallbackPath string `mapstructure:"callback_path"`
}

// GooglePhotosConfig defines the configuration specific to Google Photos.
type GooglePhotosConfig struct {
	ClientId     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
	LoginHint    string `mapstructure:"login_hint"`

	Scope      string `mapstructure:"scope"`
	AuthURL    string `mapstructure:"auth_url"`
	TokenURL   string `mapstructure:"token_url"`
	APIBaseURL string `mapstructure:"api_base_url"`
}

// StoreConfig selects the credential store backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type HTTPConfig struct {
	Timeout string `mapstructure:"timeout"`
}

// PhotodropConfig defines the configuration for Photodrop.
type PhotodropConfig struct {
	Server       ServerConfig       `mapstructure:"server"`
	GooglePhotos GooglePhotosConfig `mapstructure:"google_photos"`
	Store        StoreConfig        `mapstructure:"store"`
	HTTP         HTTPConfig         `mapstructure:"http"`

	path string `mapstructure:"-"`
}

// Path returns the file the config was loaded from.
func (c *PhotodropConfig) Path() string {
	return c.path
}

// HTTPTimeout returns the parsed outbound request timeout.
// Validate must have succeeded first.
func (c *PhotodropConfig) HTTPTimeout() time.Duration {
	d, _ := time.ParseDuration(c.HTTP.Timeout)
	return d
}

// RedirectURL returns the OAuth callback URL to register with Google.
func (c *PhotodropConfig) RedirectURL() string {
	if c.GooglePhotos.RedirectURI != "" {
		return c.GooglePhotos.RedirectURI
	}
	host := c.Server.Addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	return "http://" + host + c.Server.CallbackPath
}

func (c *GooglePhotosConfig) Validate() error {
	if c.Scope == "" {
		c.Scope = DefaultScope
	}
	if c.AuthURL == "" {
		c.AuthURL = DefaultAuthURL
	}
	if c.TokenURL == "" {
		c.TokenURL = DefaultTokenURL
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	c.APIBaseURL = strings.TrimSuffix(c.APIBaseURL, "/")
	// client_id and client_secret may instead come from the credential store.
	return nil
}

func (c *PhotodropConfig) Validate() error {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.CallbackPath == "" {
		c.Server.CallbackPath = DefaultCallbackPath
	}
	if !strings.HasPrefix(c.Server.CallbackPath, "/") {
		return fmt.Errorf("server.callback_path must start with '/' (%s)", c.path)
	}

	switch c.Store.Driver {
	case "":
		c.Store.Driver = DefaultStoreDriver
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported store.driver %q (%s)", c.Store.Driver, c.path)
	}
	if c.Store.DSN == "" {
		if c.Store.Driver != "sqlite" {
			return fmt.Errorf("missing store.dsn for driver %s (%s)", c.Store.Driver, c.path)
		}
		c.Store.DSN = DefaultStoreDSN
	}

	if c.HTTP.Timeout == "" {
		c.HTTP.Timeout = DefaultHTTPTimeout
	}
	if d, err := time.ParseDuration(c.HTTP.Timeout); err != nil {
		return fmt.Errorf("invalid http.timeout %q (%s): %w", c.HTTP.Timeout, c.path, err)
	} else if d < 0 {
		return fmt.Errorf("negative http.timeout %q (%s)", c.HTTP.Timeout, c.path)
	}

	if err := c.GooglePhotos.Validate(); err != nil {
		return fmt.Errorf("invalid google_photos config (%s): %w", c.path, err)
	}
	return nil
}

// DefaultConfigPath returns the default path for the Photodrop config file.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("unable to determine user config dir: %w", err)
	}
	return filepath.Join(dir, "photodrop", "config.toml"), nil
}

// getConfigPath determines where to read the config file from.
func getConfigPath(configPathFlag string) (string, error) {
	// Prefer user-specific config file path if specified.
	if configPathFlag != "" {
		return configPathFlag, nil
	}
	return DefaultConfigPath()
}

// LoadConfig reads the config file.
// A missing file at the default location is not an error: the service can run
// purely from PHOTODROP_* environment variables.
func LoadConfig(configPathFlag string) (PhotodropConfig, error) {
	path, err := getConfigPath(configPathFlag)
	if err != nil {
		return PhotodropConfig{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	// Allow users to override config values with environment variables.
	// In particular, may be desired for the Google Photos API credentials.
	v.SetEnvPrefix("PHOTODROP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if !(configPathFlag == "" && errors.Is(err, fs.ErrNotExist)) {
			return PhotodropConfig{}, fmt.Errorf("error reading (%s): %w", path, err)
		}
	}
	config := PhotodropConfig{path: path}
	if err := v.Unmarshal(&config); err != nil {
		return PhotodropConfig{}, fmt.Errorf("error unmarshaling (%s): %w", path, err)
	}
	return config, nil
}

// bindEnvKeys registers every known key so AutomaticEnv also applies to keys
// that are absent from the file.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.addr", "server.callback_path",
		"google_photos.client_id", "google_photos.client_secret",
		"google_photos.redirect_uri", "google_photos.login_hint",
		"google_photos.scope", "google_photos.auth_url",
		"google_photos.token_url", "google_photos.api_base_url",
		"store.driver", "store.dsn",
		"http.timeout",
	} {
		_ = v.BindEnv(key)
	}
}
