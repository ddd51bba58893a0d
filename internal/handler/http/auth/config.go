// Package auth issues and checks the admin JWTs that guard the API's write
// routes.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"lima-segura/internal/pkg/config"
)

const (
	minSecretLength   = 32
	minPasswordLength = 12
	defaultTokenTTL   = time.Hour
)

// ErrNotConfigured means the admin credentials or the signing secret are
// missing, so no protected route may be served.
var ErrNotConfigured = errors.New("auth: JWT_SECRET, ADMIN_USER and ADMIN_USER_PASSWORD must be set")

var weakPasswords = []string{"password", "admin", "123456", "qwerty", "limasegura"}

// Config holds the single admin account and the HS256 signing secret.
type Config struct {
	Secret        []byte
	AdminUser     string
	AdminPassword string
	TokenTTL      time.Duration
}

// LoadConfigFromEnv reads JWT_SECRET, ADMIN_USER, ADMIN_USER_PASSWORD and
// JWT_TOKEN_TTL. Unlike the other loaders it fails closed: a missing or weak
// credential is an error and the caller must leave protected routes off.
func LoadConfigFromEnv(logger *slog.Logger) (Config, error) {
	ttl := config.LoadEnvDuration("JWT_TOKEN_TTL", defaultTokenTTL, func(d time.Duration) error {
		return config.ValidateRange(d, time.Minute, 24*time.Hour)
	})
	for _, w := range ttl.Warnings {
		logger.Warn(w, slog.String("field", "token_ttl"))
	}

	cfg := Config{
		Secret:        []byte(os.Getenv("JWT_SECRET")),
		AdminUser:     os.Getenv("ADMIN_USER"),
		AdminPassword: os.Getenv("ADMIN_USER_PASSWORD"),
		TokenTTL:      ttl.Value.(time.Duration),
	}
	return cfg, cfg.Validate()
}

// Validate rejects empty credentials, short secrets and weak passwords.
func (c Config) Validate() error {
	if len(c.Secret) == 0 || c.AdminUser == "" || c.AdminPassword == "" {
		return ErrNotConfigured
	}
	if len(c.Secret) < minSecretLength {
		return fmt.Errorf("auth: JWT_SECRET must be at least %d bytes", minSecretLength)
	}
	if len(c.AdminPassword) < minPasswordLength {
		return fmt.Errorf("auth: ADMIN_USER_PASSWORD must be at least %d characters", minPasswordLength)
	}
	lower := strings.ToLower(c.AdminPassword)
	for _, weak := range weakPasswords {
		if strings.HasPrefix(lower, weak) {
			return errors.New("auth: ADMIN_USER_PASSWORD is too weak")
		}
	}
	if c.TokenTTL <= 0 {
		return errors.New("auth: token TTL must be positive")
	}
	return nil
}
