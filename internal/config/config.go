package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var (
	ErrNoCredentialSource = errors.New("either CREDENTIALS_FILE or both ADMIN_USER and ADMIN_PASS have to be set")
	ErrInvalidPageSize    = errors.New("the Zoom page sizes have to be positive")
	ErrInvalidConcurrency = errors.New("ZOOM_FETCH_CONCURRENCY has to be positive")
)

// Config represents the application configuration structure
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"prod"`
	Port        int    `envconfig:"PORT" default:"3000"`

	ZoomAccountID            string        `envconfig:"ZOOM_ACCOUNT_ID" required:"true"`
	ZoomClientID             string        `envconfig:"ZOOM_CLIENT_ID" required:"true"`
	ZoomClientSecret         string        `envconfig:"ZOOM_CLIENT_SECRET" required:"true"`
	ZoomTokenURL             string        `envconfig:"ZOOM_TOKEN_URL" default:"https://zoom.us/oauth/token"`
	ZoomAPIBaseURL           string        `envconfig:"ZOOM_API_BASE_URL" default:"https://api.zoom.us/v2"`
	ZoomUsersPageSize        int           `envconfig:"ZOOM_USERS_PAGE_SIZE" default:"300"`
	ZoomMeetingsPageSize     int           `envconfig:"ZOOM_MEETINGS_PAGE_SIZE" default:"300"`
	ZoomLiveMeetingsPageSize int           `envconfig:"ZOOM_LIVE_MEETINGS_PAGE_SIZE" default:"30"`
	ZoomFetchConcurrency     int           `envconfig:"ZOOM_FETCH_CONCURRENCY" default:"4"`
	ZoomRequestTimeout       time.Duration `envconfig:"ZOOM_REQUEST_TIMEOUT" default:"0"`

	AdminUser       string `envconfig:"ADMIN_USER"`
	AdminPass       string `envconfig:"ADMIN_PASS"`
	CredentialsFile string `envconfig:"CREDENTIALS_FILE"`

	SessionLifetime     time.Duration `envconfig:"SESSION_LIFETIME" default:"24h"`
	SessionCookieSecure bool          `envconfig:"SESSION_COOKIE_SECURE" default:"false"`

	APIAllowedOrigin string `envconfig:"API_ALLOWED_ORIGIN"`
}

// LoadFromEnv loads a new configuration structure using environment variables and an optional .env file
func LoadFromEnv() (*Config, error) {
	// Load a .env file if it exists
	_ = godotenv.Overload()

	// Load a new configuration structure using environment variables
	config := new(Config)
	if err := envconfig.Process("", config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the constraints envconfig cannot express using struct tags
func (config *Config) Validate() error {
	if config.CredentialsFile == "" && (config.AdminUser == "" || config.AdminPass == "") {
		return ErrNoCredentialSource
	}
	if config.ZoomUsersPageSize <= 0 || config.ZoomMeetingsPageSize <= 0 || config.ZoomLiveMeetingsPageSize <= 0 {
		return ErrInvalidPageSize
	}
	if config.ZoomFetchConcurrency <= 0 {
		return ErrInvalidConcurrency
	}
	return nil
}

// IsEnvProduction checks whether the application runs in production mode
func (config *Config) IsEnvProduction() bool {
	return strings.ToLower(config.Environment) == "prod"
}

// UsesCredentialsFile reports whether operators are validated against the credentials file instead of the admin pair
func (config *Config) UsesCredentialsFile() bool {
	return config.CredentialsFile != ""
}

// ListenAddress returns the address the HTTP server binds to
func (config *Config) ListenAddress() string {
	return fmt.Sprintf(":%d", config.Port)
}

// String renders the configuration with all secrets redacted so it can be logged safely
func (config Config) String() string {
	redact := func(val string) string {
		if val == "" {
			return ""
		}
		return "<redacted>"
	}
	config.ZoomClientSecret = redact(config.ZoomClientSecret)
	config.AdminPass = redact(config.AdminPass)
	type plain Config
	return fmt.Sprintf("%+v", plain(config))
}
