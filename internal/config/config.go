package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/casefold/slackpack/pkg/packager"
)

// Config holds all tool configuration. Precedence, lowest to highest:
// built-in defaults, slackpack.yaml in the working directory, SLACKPACK_*
// environment variables, command-line flags (bound by the CLI layer).
type Config struct {
	Packaging PackagingConfig
	Report    ReportConfig
	Limits    LimitsConfig
	Logging   LoggingConfig
}

type PackagingConfig struct {
	// Channel is the directory archive entries are placed under.
	Channel string `validate:"required,dirname"`
	// Compression is the ZIP method, "deflate" or "store".
	Compression string `validate:"oneof=deflate store"`
}

type ReportConfig struct {
	Format string `validate:"oneof=text json yaml"`
}

type LimitsConfig struct {
	// MaxFileSizeMB skips source files larger than this. Zero disables the
	// limit.
	MaxFileSizeMB int64 `validate:"gte=0"`
}

type LoggingConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=console json"`
}

// MaxFileSizeBytes returns the size limit in bytes, zero for unlimited.
func (l *LimitsConfig) MaxFileSizeBytes() int64 {
	return l.MaxFileSizeMB * 1024 * 1024
}

var dirnameRe = regexp.MustCompile(`^[a-z0-9_-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("dirname", func(fl validator.FieldLevel) bool {
		return dirnameRe.MatchString(fl.Field().String())
	})
	return v
}

// Load loads configuration from defaults, config file and environment
// variables, then validates it.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from config file
	v.SetConfigName("slackpack")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvPrefix("SLACKPACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and reports the first violation with a
// human-readable message.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
		fe := ve[0]
		field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
		return fmt.Errorf("invalid configuration: %s: %s", field, validationMessage(fe))
	}
	return fmt.Errorf("invalid configuration: %w", err)
}

// validationMessage creates a human-readable validation error message
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "value is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "dirname":
		return "must contain only lowercase letters, digits, '_' or '-'"
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

func setDefaults(v *viper.Viper) {
	// Packaging defaults
	v.SetDefault("packaging.channel", packager.DefaultChannel)
	v.SetDefault("packaging.compression", packager.CompressionDeflate)

	// Report defaults
	v.SetDefault("report.format", "text")

	// Limits defaults
	v.SetDefault("limits.maxFileSizeMB", 0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
