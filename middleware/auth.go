package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/chessclub/arena/repositories"
	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const adminEmailContextKey contextKey = "admin_email"

// Admin identity arrives as a bearer JWT minted by the external sign-in
// flow; only the email claim matters here. The allow-list has two layers:
// the admins table, then a static fallback set from configuration.
type AdminAuth struct {
	adminRepo      repositories.AdminRepository
	fallbackEmails map[string]bool
	jwtSecret      []byte
}

func NewAdminAuth(adminRepo repositories.AdminRepository, fallbackEmails []string, jwtSecret string) *AdminAuth {
	fallback := make(map[string]bool, len(fallbackEmails))
	for _, email := range fallbackEmails {
		fallback[strings.ToLower(email)] = true
	}
	return &AdminAuth{
		adminRepo:      adminRepo,
		fallbackEmails: fallback,
		jwtSecret:      []byte(jwtSecret),
	}
}

// RequireAdmin rejects requests without a verifiable admin identity. No
// mutation is ever attempted for a rejected request.
func (a *AdminAuth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, err := a.emailFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		allowed, err := a.adminRepo.IsAllowed(r.Context(), email)
		if err != nil {
			// Allow-list lookup failed; fall back to the static set rather
			// than locking every admin out on a transient store error.
			allowed = false
		}
		if !allowed && !a.fallbackEmails[strings.ToLower(email)] {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), adminEmailContextKey, strings.ToLower(email))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *AdminAuth) emailFromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", errors.New("missing bearer token")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", errors.New("missing email claim")
	}
	return email, nil
}

// GetAdminEmailFromContext returns the authenticated admin's email, set by
// RequireAdmin.
func GetAdminEmailFromContext(ctx context.Context) (string, error) {
	email, ok := ctx.Value(adminEmailContextKey).(string)
	if !ok || email == "" {
		return "", errors.New("admin email not found in context")
	}
	return email, nil
}
