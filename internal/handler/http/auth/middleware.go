package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"lima-segura/internal/handler/http/respond"
)

type ctxKey struct{}

var errMissingToken = errors.New("missing bearer token")

// Require returns middleware that lets a request through only with a valid,
// unexpired admin token signed with cfg.Secret. It answers 401 for a missing
// or bad token and 403 for a valid token without the admin role.
func Require(cfg Config) func(http.Handler) http.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (any, error) { return cfg.Secret, nil }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := parse(parser, keyFunc, r.Header.Get("Authorization"))
			switch {
			case errors.Is(err, errMissingToken):
				deniedTotal.WithLabelValues("missing_token").Inc()
				unauthorized(w)
				return
			case err != nil:
				deniedTotal.WithLabelValues("invalid_token").Inc()
				unauthorized(w)
				return
			case claims.Role != RoleAdmin:
				deniedTotal.WithLabelValues("forbidden").Inc()
				respond.JSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
				return
			}
			ctx := context.WithValue(r.Context(), ctxKey{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromContext returns the authenticated user, or "" outside Require.
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(ctxKey{}).(string)
	return s
}

func parse(parser *jwt.Parser, keyFunc jwt.Keyfunc, header string) (*Claims, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, errMissingToken
	}
	claims := &Claims{}
	if _, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, keyFunc); err != nil {
		return nil, err
	}
	return claims, nil
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="lima-segura"`)
	respond.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
}
