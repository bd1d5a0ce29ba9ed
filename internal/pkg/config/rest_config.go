package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides, e.g. ZIGNAL_DATABASE_DSN
const EnvPrefix = "zignal"

// RestConfig holds the full configuration of the REST API server
type RestConfig struct {
	Port      string            `mapstructure:"port" validate:"required,numeric"`
	Logger    LoggerSettings    `mapstructure:"logger"`
	Database  DatabaseSettings  `mapstructure:"database"`
	Auth      AuthSettings      `mapstructure:"auth"`
	Identity  IdentitySettings  `mapstructure:"identity"`
	Notifier  NotifierSettings  `mapstructure:"notifier"`
	Scheduler SchedulerSettings `mapstructure:"scheduler"`
	Session   SessionSettings   `mapstructure:"session"`
	CORS      CORSSettings      `mapstructure:"cors"`
}

// Validate validates the top level fields and every nested settings block
func (c *RestConfig) Validate() error {
	if err := validator.New().Var(c.Port, "required,numeric"); err != nil {
		return fmt.Errorf("validation failed for RestConfig.Port: %w", err)
	}

	validators := []interface{ Validate() error }{
		&c.Logger, &c.Database, &c.Auth, &c.Identity, &c.Notifier, &c.Scheduler, &c.Session, &c.CORS,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// defaults are registered with viper so that every key can be overridden from the environment
var defaults = map[string]any{
	"port":                            "8080",
	"logger.log_level":                LogLevelInfo,
	"logger.log_type":                 LogTypeConsole,
	"logger.file_path":                "",
	"logger.max_size":                 10,
	"logger.max_backups":              3,
	"logger.max_age":                  28,
	"database.type":                   PostgresDbType,
	"database.dsn":                    "",
	"database.name":                   "",
	"database.auto_migrate":           false,
	"auth.jwt_public_key":             "",
	"auth.jwt_public_key_file":        "",
	"auth.jwt_secret":                 "",
	"auth.issuer":                     "",
	"auth.cookie_name":                DefaultSessionCookieName,
	"auth.leeway_seconds":             5,
	"auth.validate_sessions":          true,
	"identity.provider":               IdentityProviderNone,
	"identity.secret_key":             "",
	"identity.api_url":                "",
	"notifier.type":                   NotifierTypeNoop,
	"notifier.redis_addr":             "",
	"notifier.redis_password":         "",
	"notifier.redis_db":               0,
	"notifier.channel_prefix":         "notifications",
	"scheduler.enabled":               true,
	"scheduler.interval_seconds":      30,
	"session.max_concurrent_sessions": 5,
	"session.timeout_minutes":         480,
	"session.admin_timeout_minutes":   240,
	"cors.allowed_origins":            []string{"http://localhost:3000"},
}

// InitializeRestConfig loads the configuration from path, then applies
// .env files and ZIGNAL_* environment overrides, and validates the result.
// A missing file is not an error when the environment supplies the values.
func InitializeRestConfig(path string) (*RestConfig, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	}

	var cfg RestConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}
