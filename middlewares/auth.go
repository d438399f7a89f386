package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sajadkh/restaurant-panel/auth"
	"github.com/sajadkh/restaurant-panel/models"
	"github.com/sajadkh/restaurant-panel/utils"
)

type ContextKey string

const identityContextKey ContextKey = "identity"

// Authenticate requires the token header, verifies it against the identity
// service and stores the resulting identity in the request context. A missing
// header is a validation failure (400), a rejected token is 401, and an
// unreachable identity service collapses to 500.
func Authenticate(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if errs := utils.MissingFields([]string{"token"}, utils.HeaderHas(r.Header)); len(errs) > 0 {
				utils.RespondWithErrors(w, http.StatusBadRequest, errs)
				return
			}

			identity, err := verifier.Verify(r.Context(), r.Header.Get("token"))
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) {
					utils.RespondWithError(w, http.StatusUnauthorized, utils.MsgUnauthorized)
					return
				}
				logrus.Errorf("token verification failed, error: %v", err)
				utils.RespondWithError(w, http.StatusInternalServerError, utils.MsgInternalError)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetIdentity(r *http.Request) (*auth.Identity, error) {
	identity, ok := r.Context().Value(identityContextKey).(*auth.Identity)
	if !ok {
		return nil, errors.New("no identity in context")
	}
	return identity, nil
}

// RequireRole rejects authenticated callers whose role is not allowed.
func RequireRole(allowedRoles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool)
	for _, role := range allowedRoles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := GetIdentity(r)
			if err != nil {
				utils.RespondWithError(w, http.StatusUnauthorized, utils.MsgUnauthorized)
				return
			}

			if !allowed[models.Role(identity.Role)] {
				utils.RespondWithError(w, http.StatusForbidden, utils.MsgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
