package middleware

import (
	"context"
	"net/http"
	"strings"

	"community-sport/backend/internal/apperr"
	"community-sport/backend/internal/domain/role"
	"community-sport/backend/internal/httpjson"

	"firebase.google.com/go/v4/auth"
)

type ctxKey string

const authUserKey ctxKey = "authUser"

type AuthUser struct {
	UID    string
	Email  string
	Claims map[string]any
}

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// WithAuth requires a Firebase ID token in "Authorization: Bearer <token>".
func WithAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
				httpjson.Error(w, apperr.Unauthenticated("Missing Authorization: Bearer <token>"))
				return
			}
			idToken := strings.TrimSpace(h[len("Bearer "):])

			tok, err := verifier.VerifyIDToken(r.Context(), idToken)
			if err != nil {
				httpjson.Error(w, apperr.Unauthenticated("Invalid or expired token"))
				return
			}

			au := &AuthUser{
				UID:    tok.UID,
				Claims: tok.Claims,
			}
			if v, ok := tok.Claims["email"].(string); ok {
				au.Email = v
			}

			ctx := context.WithValue(r.Context(), authUserKey, au)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetAuthUser(ctx context.Context) (*AuthUser, bool) {
	v := ctx.Value(authUserKey)
	if v == nil {
		return nil, false
	}
	au, ok := v.(*AuthUser)
	return au, ok
}

// Caller turns the verified token in ctx into the identity services act on.
// Without a token it returns the zero Caller, which is unauthenticated.
func Caller(ctx context.Context) role.Caller {
	au, ok := GetAuthUser(ctx)
	if !ok || au == nil {
		return role.Caller{}
	}
	return role.Caller{
		UID:   au.UID,
		Email: au.Email,
		Role:  role.FromClaims(au.Claims),
		Admin: IsAdmin(au.Claims),
	}
}

// IsAdmin checks the admin flag or an admin entry in the roles claim.
func IsAdmin(claims map[string]any) bool {
	if claims == nil {
		return false
	}
	if admin, ok := claims["admin"].(bool); ok && admin {
		return true
	}
	if roles, ok := claims["roles"].(map[string]interface{}); ok {
		if b, ok := roles["admin"].(bool); ok && b {
			return true
		}
	}
	if roles, ok := claims["roles"].([]interface{}); ok {
		for _, r := range roles {
			if str, ok := r.(string); ok && str == "admin" {
				return true
			}
		}
	}
	return false
}
