package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks a loaded Config against its struct tags and the
// cross-field rules registered below
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterStructValidation(validateDatabase, DatabaseConfig{})
	v.RegisterStructValidation(validateMetrics, MetricsConfig{})
	return &Validator{validate: v}
}

// Validate runs every rule and reports all failures at once
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		messages = append(messages, describe(e))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

func describe(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got '%v')", field, e.Param(), e.Value())
	case "sqlite_path":
		return fmt.Sprintf("%s is required for sqlite databases", field)
	case "postgres_target":
		return fmt.Sprintf("%s: postgres needs either a url or a host and database name", field)
	case "abs_path":
		return fmt.Sprintf("%s must start with '/' (got '%v')", field, e.Value())
	default:
		return fmt.Sprintf("%s failed validation: %s (value: '%v')", field, e.Tag(), e.Value())
	}
}

func validateDatabase(sl validator.StructLevel) {
	db := sl.Current().Interface().(DatabaseConfig)
	switch db.Type {
	case "sqlite":
		if db.Path == "" {
			sl.ReportError(db.Path, "Path", "Path", "sqlite_path", "")
		}
	case "postgres":
		if db.URL == "" && (db.Host == "" || db.Name == "") {
			sl.ReportError(db.URL, "URL", "URL", "postgres_target", "")
		}
	}
}

func validateMetrics(sl validator.StructLevel) {
	m := sl.Current().Interface().(MetricsConfig)
	if m.Enabled && !strings.HasPrefix(m.Path, "/") {
		sl.ReportError(m.Path, "Path", "Path", "abs_path", "")
	}
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
