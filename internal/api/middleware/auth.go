package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Rrens/reply-assistant/internal/api/response"
	"github.com/Rrens/reply-assistant/internal/security"
)

type contextKey string

const (
	AccountIDKey    contextKey = "accountID"
	AccountEmailKey contextKey = "accountEmail"
)

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager *security.JWTManager
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *security.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Authenticate validates the JWT token
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Error(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		claims, err := m.jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "invalid or expired token: "+err.Error())
			return
		}

		ctx := WithAccount(r.Context(), claims.AccountID(), claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithAccount stores the authenticated account in the context
func WithAccount(ctx context.Context, accountID, email string) context.Context {
	ctx = context.WithValue(ctx, AccountIDKey, accountID)
	return context.WithValue(ctx, AccountEmailKey, email)
}

// GetAccountID gets the account ID from context
func GetAccountID(ctx context.Context) (string, bool) {
	accountID, ok := ctx.Value(AccountIDKey).(string)
	return accountID, ok && accountID != ""
}

// GetAccountEmail gets the account email from context
func GetAccountEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(AccountEmailKey).(string)
	return email, ok
}
