// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted by BACKEND.
const (
	BackendHasura = "hasura"
	BackendMemory = "memory"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Server  ServerConfig
	Auth    AuthConfig
	Backend BackendConfig
	Limits  LimitsConfig
	Metrics MetricsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins  []string      // Optional, CORS is off when empty
}

// AuthConfig holds the shared secret callers must present.
type AuthConfig struct {
	Key string
}

// BackendConfig selects and configures the media store.
type BackendConfig struct {
	Kind           string        // hasura or memory (default: hasura)
	HasuraEndpoint string        // GraphQL endpoint URL
	AdminSecret    string        // X-Hasura-Admin-Secret value
	Timeout        time.Duration // per-call timeout (default: 30s)
	IDType         string        // GraphQL type of the id column (default: uuid)
}

// LimitsConfig bounds inbound requests.
type LimitsConfig struct {
	MaxBodyBytes   int64   // default: 1 MiB
	RateLimitRPS   float64 // 0 disables rate limiting
	RateLimitBurst int     // default: 20
}

// MetricsConfig configures the Prometheus listener.
type MetricsConfig struct {
	Port string // Optional, metrics are not served when empty
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("mediashelf", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins")

	authKey := fs.String("auth-key", "", "Shared secret expected in the key header")

	// Backend flags
	backend := fs.String("backend", "", "Media store backend: hasura or memory (default: hasura)")
	hasuraEndpoint := fs.String("hasura-endpoint", "", "Hasura GraphQL endpoint URL")
	backendTimeout := fs.String("backend-timeout", "", "Backend call timeout (default: 30s)")

	// Limits flags
	maxBodyBytes := fs.String("max-body-bytes", "", "Maximum request body size (default: 1048576)")
	rateLimitRPS := fs.String("rate-limit-rps", "", "Requests per second per client, 0 disables (default: 0)")
	rateLimitBurst := fs.String("rate-limit-burst", "", "Rate limit burst size (default: 20)")

	metricsPort := fs.String("metrics-port", "", "Port for the Prometheus endpoint (default: disabled)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", "")),
		},
		Auth: AuthConfig{
			Key: getConfigValue(*authKey, "AUTH_KEY", ""),
		},
		Backend: BackendConfig{
			Kind:           strings.ToLower(getConfigValue(*backend, "BACKEND", BackendHasura)),
			HasuraEndpoint: getConfigValue(*hasuraEndpoint, "HASURA_ENDPOINT", ""),
			// Secrets are env-only so they stay out of process listings.
			AdminSecret: getConfigValue("", "HASURA_ADMIN_SECRET", ""),
			IDType:      getConfigValue("", "HASURA_ID_TYPE", "uuid"),
		},
		Metrics: MetricsConfig{
			Port: getConfigValue(*metricsPort, "METRICS_PORT", ""),
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.Backend.Timeout, err = getDurationConfigValue(*backendTimeout, "BACKEND_TIMEOUT", "30s"); err != nil {
		return nil, err
	}

	maxBody, err := getIntConfigValue(*maxBodyBytes, "MAX_BODY_BYTES", 1<<20)
	if err != nil {
		return nil, err
	}
	cfg.Limits.MaxBodyBytes = int64(maxBody)

	if cfg.Limits.RateLimitBurst, err = getIntConfigValue(*rateLimitBurst, "RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}

	rpsStr := getConfigValue(*rateLimitRPS, "RATE_LIMIT_RPS", "0")
	if cfg.Limits.RateLimitRPS, err = strconv.ParseFloat(rpsStr, 64); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS %q: %w", rpsStr, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Auth.Key == "" {
		return errors.New("AUTH_KEY is required")
	}

	switch c.Backend.Kind {
	case BackendHasura:
		if c.Backend.HasuraEndpoint == "" {
			return errors.New("HASURA_ENDPOINT is required for the hasura backend")
		}
		u, err := url.Parse(c.Backend.HasuraEndpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid HASURA_ENDPOINT: %q", c.Backend.HasuraEndpoint)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("invalid backend: %q (must be hasura or memory)", c.Backend.Kind)
	}

	if c.Limits.MaxBodyBytes <= 0 {
		return errors.New("MAX_BODY_BYTES must be positive")
	}
	if c.Limits.RateLimitRPS < 0 {
		return errors.New("RATE_LIMIT_RPS cannot be negative")
	}
	if c.Limits.RateLimitRPS > 0 && c.Limits.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}

	if c.Metrics.Port != "" && c.Metrics.Port == c.Server.Port {
		return errors.New("METRICS_PORT must differ from SERVER_PORT")
	}

	return nil
}

// IsProduction reports whether the app runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) (int, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return result, nil
}

// getDurationConfigValue returns a duration from flag, env var, or default.
func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return d, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Env vars take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
