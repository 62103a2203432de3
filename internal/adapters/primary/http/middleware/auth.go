package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/calliko/statuspage-backend/internal/auth"
	"github.com/calliko/statuspage-backend/internal/core/ports"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// UserClaimsKey is the key used to store user claims in the request context.
const UserClaimsKey contextKey = "userClaims"

// ActorKey is the key used to store the resolved actor in the request context.
const ActorKey contextKey = "actor"

// JWTMiddleware validates the JWT token from the Authorization header.
func JWTMiddleware(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header is required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Authorization header format must be Bearer {token}", http.StatusUnauthorized)
				return
			}

			tokenString := parts[1]
			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			// Add the claims to the context for downstream handlers to use.
			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorMiddleware resolves the authenticated user's membership in the token's
// organization and stores the resulting actor in the request context. It must
// run after JWTMiddleware. A token whose user no longer belongs to the org is
// rejected here, before any handler runs.
func ActorMiddleware(teamRepo ports.TeamRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(UserClaimsKey).(*auth.Claims)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			member, err := teamRepo.GetMembership(r.Context(), claims.UserID, claims.OrgID)
			if err != nil {
				http.Error(w, "Not a member of this organization", http.StatusForbidden)
				return
			}

			actor := ports.Actor{
				UserID: claims.UserID,
				OrgID:  claims.OrgID,
				Role:   member.Role,
			}

			ctx := context.WithValue(r.Context(), ActorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetActor retrieves the resolved actor from the context.
func GetActor(ctx context.Context) (ports.Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(ports.Actor)
	return actor, ok
}

// GetClaims retrieves the validated JWT claims from the context.
func GetClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*auth.Claims)
	return claims, ok
}
