package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"dna-clinic-go/internal/auth"
	userdomain "dna-clinic-go/internal/domain/user"
	"dna-clinic-go/pkg/logger"
)

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Principal is the authenticated caller taken from the bearer token.
type Principal struct {
	UserID   string
	Username string
	Role     userdomain.Role
}

func (p Principal) HasRole(roles ...userdomain.Role) bool {
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}

type contextKey int

const principalKey contextKey = iota

type JWTAuth struct {
	tokens TokenParser
	log    logger.Logger
}

func NewJWTAuth(tokens TokenParser, log logger.Logger) *JWTAuth {
	return &JWTAuth{tokens: tokens, log: log}
}

// Middleware rejects requests without a valid bearer token.
func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}
		principal, err := a.principal(token)
		if err != nil {
			a.log.Debug("auth: token rejected", "err", err, "path", r.URL.Path)
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// Optional attaches the caller when a valid token is present and lets
// anonymous requests through.
func (a *JWTAuth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if ok {
			if principal, err := a.principal(token); err == nil {
				r = r.WithContext(WithPrincipal(r.Context(), principal))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (a *JWTAuth) principal(token string) (Principal, error) {
	claims, err := a.tokens.Parse(token)
	if err != nil {
		return Principal{}, err
	}
	role, err := userdomain.ParseRole(claims.Role)
	if err != nil {
		return Principal{}, err
	}
	return Principal{UserID: claims.UserID, Username: claims.Username, Role: role}, nil
}

func RequireRoles(roles ...userdomain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			if !principal.HasRole(roles...) {
				writeError(w, http.StatusForbidden, "forbidden", "Bạn không có quyền thực hiện thao tác này")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalKey).(Principal)
	if !ok || principal.UserID == "" {
		return Principal{}, false
	}
	return principal, true
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "Phiên đăng nhập không hợp lệ hoặc đã hết hạn")
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
