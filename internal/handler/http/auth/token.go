package auth

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"

	"lima-segura/internal/handler/http/respond"
	"lima-segura/internal/observability/logging"
)

// RoleAdmin is the only role the API issues.
const RoleAdmin = "admin"

const issuer = "lima-segura"

// Claims are the JWT claims issued by TokenHandler.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type tokenRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// TokenResponse is the body of a successful POST /auth/token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenHandler serves POST /auth/token. Login attempts share one limiter,
// five per second, to slow down password guessing.
type TokenHandler struct {
	cfg     Config
	limiter *rate.Limiter
	now     func() time.Time
}

// NewTokenHandler creates a TokenHandler for an already validated Config.
func NewTokenHandler(cfg Config) *TokenHandler {
	return &TokenHandler{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		now:     time.Now,
	}
}

func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), slog.Default())

	if !h.limiter.Allow() {
		tokenRequestsTotal.WithLabelValues("rate_limited").Inc()
		w.Header().Set("Retry-After", "1")
		respond.JSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		return
	}

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.User == "" || req.Password == "" {
		tokenRequestsTotal.WithLabelValues("bad_request").Inc()
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "user and password are required"})
		return
	}

	if !h.matches(req) {
		tokenRequestsTotal.WithLabelValues("invalid_credentials").Inc()
		logger.Warn("token request rejected", slog.String("reason", "invalid_credentials"))
		respond.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	signed, expires, err := h.issue(req.User)
	if err != nil {
		tokenRequestsTotal.WithLabelValues("error").Inc()
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	tokenRequestsTotal.WithLabelValues("issued").Inc()
	logger.Info("token issued", slog.Time("expires_at", expires))
	respond.JSON(w, http.StatusOK, TokenResponse{Token: signed, ExpiresAt: expires})
}

func (h *TokenHandler) matches(req tokenRequest) bool {
	userOK := subtle.ConstantTimeCompare([]byte(req.User), []byte(h.cfg.AdminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.AdminPassword)) == 1
	return userOK && passOK
}

func (h *TokenHandler) issue(subject string) (string, time.Time, error) {
	now := h.now()
	expires := now.Add(h.cfg.TokenTTL).UTC().Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := tok.SignedString(h.cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}
