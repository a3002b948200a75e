package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// RequestTimeout bounds every request, including the artificial auth and unlock delays.
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT" default:"15s"`

	// Redis holds the snapshot store configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Session holds session lifecycle settings.
	Session SessionConfig `mapstructure:",squash"`

	// Auth holds the phone verification settings.
	Auth AuthConfig `mapstructure:",squash"`

	// Checkout holds the outbound ordering link settings.
	Checkout CheckoutConfig `mapstructure:",squash"`
}

// RedisConfig holds the Redis connection used for session snapshots.
type RedisConfig struct {
	// URL in the form redis://[:password@]host[:port][/database]. Empty keeps snapshots in memory.
	URL string `mapstructure:"REDIS_URL"`
}

// SessionConfig controls session expiry and the mock order timers.
type SessionConfig struct {
	// TTL is how long a session snapshot is retained by the repository.
	TTL time.Duration `mapstructure:"SESSION_TTL" default:"2h"`
	// IdleTTL is how long a live session may go untouched before it is torn down.
	IdleTTL time.Duration `mapstructure:"SESSION_IDLE_TTL" default:"30m"`
	// OrderStepDelay is the fixed delay between two order status steps.
	OrderStepDelay time.Duration `mapstructure:"ORDER_STEP_DELAY" default:"4s"`
	// UnlockDelay is the artificial latency of the pickup point unlock call.
	UnlockDelay time.Duration `mapstructure:"UNLOCK_DELAY" default:"900ms"`
}

// AuthConfig controls the two-phase phone verification.
type AuthConfig struct {
	// Delay is the artificial latency of the send and verify calls.
	Delay time.Duration `mapstructure:"AUTH_DELAY" default:"800ms"`
	// StrictOTP requires the verified code to match the issued one.
	StrictOTP bool `mapstructure:"AUTH_STRICT_OTP" default:"false"`
	// MaxAttempts caps failed verifications per issued code.
	MaxAttempts int `mapstructure:"AUTH_MAX_ATTEMPTS" default:"5"`
}

// CheckoutConfig holds the third-party ordering link.
type CheckoutConfig struct {
	// OrderingURL is a template receiving the merchant id via %s.
	OrderingURL string `mapstructure:"ORDERING_URL" required:"true"`
	// WebhookURL receives the placed order, fire-and-forget. Empty disables it.
	WebhookURL string `mapstructure:"CHECKOUT_WEBHOOK_URL"`
	// WebhookTimeout bounds a single webhook delivery.
	WebhookTimeout time.Duration `mapstructure:"WEBHOOK_TIMEOUT" default:"5s"`
}

// IsProduction reports whether the app runs with production settings.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if config.Auth.MaxAttempts < 1 {
		return nil, fmt.Errorf("invalid configuration: AUTH_MAX_ATTEMPTS must be positive, got %d", config.Auth.MaxAttempts)
	}

	return &config, nil
}

// processTags binds every tagged field to its env key and registers defaults.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("failed to bind %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
