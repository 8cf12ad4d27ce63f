package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/scoutdeskhq/scoutdesk-backend/internal/media"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/logger"
)

const (
	actorIDHeader   = "X-Actor-ID"
	actorRoleHeader = "X-Actor-Role"
)

type actorKey struct{}

// Actor pulls the acting administrator's identity from the headers the auth
// front sets. Requests without an actor id are anonymous; handlers that
// need attribution decide whether that is acceptable.
func Actor(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := media.Actor{
				ID:   strings.TrimSpace(r.Header.Get(actorIDHeader)),
				Role: strings.TrimSpace(r.Header.Get(actorRoleHeader)),
			}

			ctx := context.WithValue(r.Context(), actorKey{}, actor)
			if logg != nil && actor.ID != "" {
				ctx = logg.WithActorID(ctx, actor.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the actor attached by the Actor middleware.
func ActorFromContext(ctx context.Context) media.Actor {
	if actor, ok := ctx.Value(actorKey{}).(media.Actor); ok {
		return actor
	}
	return media.Actor{}
}
