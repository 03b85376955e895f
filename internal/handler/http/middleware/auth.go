package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type actorKey struct{}

// AuthRequired rejects requests without a verified access token and stores
// the token's identity in the request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, user.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, user.ErrInvalidToken)
				return
			}

			userID, _ := claims["user_id"].(string)
			if userID == "" {
				response.HandleError(w, user.ErrActorRequired)
				return
			}

			actor := user.Actor{UserID: userID}
			if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
				actor.EmployeeID = &employeeID
			}
			if role, ok := claims["role"].(string); ok {
				actor.Role = user.Role(role)
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		}
		return http.HandlerFunc(hfn)
	}
}

func WithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the identity stored by AuthRequired.
func ActorFromContext(ctx context.Context) (user.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(user.Actor)
	return actor, ok
}
