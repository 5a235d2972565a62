package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ProjectPath is a project file or a directory holding one. Empty means
	// the current directory.
	ProjectPath string
	// Job is the job to run. Empty picks the only job of the project.
	Job string

	LogFormat string `validate:"oneof=text json"`
	LogLevel  string `validate:"oneof=debug info warn error"`
	// Profile writes a JSON timing report even when the project does not
	// enable profiling.
	Profile bool
	// ProfileDir is where profiling reports are written. Empty means the
	// current directory.
	ProfileDir string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig normalizes and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if err := validate.Struct(&cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, fmt.Errorf("invalid %s %q: must be one of %s", flagName(fe.Field()), fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
		}
		return nil, err
	}

	return &cfg, nil
}

func flagName(field string) string {
	switch field {
	case "LogFormat":
		return "log-format"
	case "LogLevel":
		return "log-level"
	default:
		return field
	}
}
