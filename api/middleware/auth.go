package middleware

import (
	"net/http"

	"github.com/angelmondragon/vendorscore-backend/api/responses"
	"github.com/angelmondragon/vendorscore-backend/api/validators"
	pkgAuth "github.com/angelmondragon/vendorscore-backend/pkg/auth"
	"github.com/angelmondragon/vendorscore-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/vendorscore-backend/pkg/errors"
	"github.com/angelmondragon/vendorscore-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with its subject.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := validators.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithSubject(r.Context(), claims.Subject)
			if logg != nil {
				ctx = logg.WithSubject(ctx, claims.Subject)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
