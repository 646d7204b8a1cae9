package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"staywise/pkg/logger"
	"staywise/pkg/model"
	"staywise/pkg/token"
)

const claimsKey contextKey = "claims"

const bearerPrefix = "Bearer "

// Authenticate verifies the bearer token and attaches its claims to the
// request context. It wraps individual routes rather than the whole router
// because the API mixes public and protected endpoints.
func Authenticate(codec *token.Codec, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, bearerPrefix) {
				rejectUnauthorized(w, log, r, "missing bearer token")
				return
			}

			claims, err := codec.Parse(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				rejectUnauthorized(w, log, r, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next(w, r.WithContext(ctx), ps)
		}
	}
}

// RequireRole gates a route on the authenticated claim's role: 401 without
// claims, 403 on mismatch.
func RequireRole(role model.Role, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				rejectUnauthorized(w, log, r, "no claims in context")
				return
			}

			if claims.Role != role {
				requestID := ""
				if rid := r.Context().Value(RequestIDKey); rid != nil {
					if id, idOk := rid.(string); idOk {
						requestID = id
					}
				}
				log.Warn("Role check failed",
					"request_id", requestID,
					"required_role", role,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"Forbidden"}`))
				return
			}

			next(w, r, ps)
		}
	}
}

func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	return claims, ok
}

func rejectUnauthorized(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	requestID := ""
	if rid := r.Context().Value(RequestIDKey); rid != nil {
		if id, ok := rid.(string); ok {
			requestID = id
		}
	}

	log.Warn("Unauthorized request",
		"request_id", requestID,
		"reason", reason,
		"method", r.Method,
		"path", r.URL.Path,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
