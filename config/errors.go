package config

import "strings"

// ConfigError represents a configuration error with actionable guidance.
//
//nolint:revive // ConfigError is intentionally named for clarity in external API usage
type ConfigError struct {
	Category string // "missing" or "invalid"
	Field    string // config field path, e.g. "api.key"
	Message  string // user-friendly error message (lowercase)
	Action   string // actionable instruction (lowercase)
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var parts []string
	if e.Category != "" {
		parts = append(parts, "config_"+e.Category+":")
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	if e.Action != "" {
		parts = append(parts, "("+e.Action+")")
	}
	return strings.Join(parts, " ")
}

func newMissingError(field, message, action string) *ConfigError {
	return &ConfigError{Category: "missing", Field: field, Message: message, Action: action}
}

func newInvalidError(field, message, action string) *ConfigError {
	return &ConfigError{Category: "invalid", Field: field, Message: message, Action: action}
}
