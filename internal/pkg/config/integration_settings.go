package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Identity provider constants
const (
	IdentityProviderClerk = "clerk"
	IdentityProviderNone  = "none"
)

// Notifier type constants
const (
	NotifierTypeRedis = "redis"
	NotifierTypeNoop  = "noop"
)

// IdentitySettings holds the credentials for the external identity provider
type IdentitySettings struct {
	Provider  string `mapstructure:"provider" validate:"required,oneof=clerk none"`
	SecretKey string `mapstructure:"secret_key" validate:"required_if=Provider clerk"`
	APIURL    string `mapstructure:"api_url" validate:"omitempty,url"`
}

// Validate checks the identity provider settings
func (s *IdentitySettings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("validation failed for IdentitySettings: %w", err)
	}
	return nil
}

// NotifierSettings configures the realtime notification channel
type NotifierSettings struct {
	Type          string `mapstructure:"type" validate:"required,oneof=redis noop"`
	RedisAddr     string `mapstructure:"redis_addr" validate:"required_if=Type redis"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" validate:"gte=0,lte=15"`
	ChannelPrefix string `mapstructure:"channel_prefix" validate:"required"`
}

// Validate checks the notifier settings
func (s *NotifierSettings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("validation failed for NotifierSettings: %w", err)
	}
	return nil
}

// SchedulerSettings configures the background sweeper for graceful invalidations
type SchedulerSettings struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalSeconds int  `mapstructure:"interval_seconds" validate:"gte=0,lte=3600"`
}

// Validate checks the scheduler settings
func (s *SchedulerSettings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("validation failed for SchedulerSettings: %w", err)
	}
	if s.Enabled && s.IntervalSeconds < 5 {
		return fmt.Errorf("scheduler interval must be at least 5 seconds when enabled")
	}
	return nil
}

// SessionSettings holds the session lifetime policy
type SessionSettings struct {
	MaxConcurrentSessions int `mapstructure:"max_concurrent_sessions" validate:"gte=1,lte=100"`
	TimeoutMinutes        int `mapstructure:"timeout_minutes" validate:"gte=1"`
	AdminTimeoutMinutes   int `mapstructure:"admin_timeout_minutes" validate:"gte=1"`
}

// Validate checks the session settings
func (s *SessionSettings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("validation failed for SessionSettings: %w", err)
	}
	return nil
}
