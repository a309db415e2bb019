package middlewares

import (
	"net/http"
	"strings"

	"fhirhub-service/internal/app/services/shared/jwtmanager"
	"fhirhub-service/internal/pkg/constvars"
	"fhirhub-service/internal/pkg/exceptions"
	"fhirhub-service/internal/pkg/utils"
)

// Authenticate guards operator endpoints with a bearer token.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get(constvars.HeaderAuthorization)
		if authHeader == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		output, err := m.JWTManager.VerifyToken(r.Context(), &jwtmanager.VerifyTokenInput{Token: token})
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalidOrExpired(err))
			return
		}
		if !output.Valid {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalidOrExpired(nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}
