package auth

import (
	"net/http"
	"strings"

	"github.com/leadline-crm/leadline-api/internal/config"
	"github.com/leadline-crm/leadline-api/internal/repository"
	"go.uber.org/zap"
)

// Middleware handles authentication for HTTP requests
type Middleware struct {
	jwtValidator *JWTValidator
	userRepo     *repository.UserRepository
	logger       *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(cfg *config.AuthConfig, userRepo *repository.UserRepository, logger *zap.Logger) *Middleware {
	return &Middleware{
		jwtValidator: NewJWTValidator(cfg),
		userRepo:     userRepo,
		logger:       logger,
	}
}

// Authenticate validates the bearer token and resolves the employee row for
// the authenticated identity, creating it on first sight.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized: invalid authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtValidator.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		displayName := claims.DisplayName
		if displayName == "" {
			displayName = claims.Email
		}

		user, err := m.userRepo.GetOrCreateByEmail(r.Context(), claims.Email, displayName)
		if err != nil {
			m.logger.Error("failed to resolve user for token",
				zap.String("email", claims.Email),
				zap.Error(err),
			)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if !user.IsActive {
			http.Error(w, "Forbidden: account disabled", http.StatusForbidden)
			return
		}

		ctx := WithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
