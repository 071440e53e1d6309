package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// actorIDKey is the key used to store the acting user's ID in the request
// context. Authentication happens at the edge; the core only consumes the
// already-authenticated actor identity.
const actorIDKey = contextKey("actorID")

// ActorHeader is the header the edge layer uses to forward the authenticated
// actor id.
const ActorHeader = "X-Actor-ID"

// SystemActorID is recorded on writes performed without a forwarded actor
// (background repair jobs, internal recalculations).
const SystemActorID = "system"

// ActorMiddleware copies the forwarded actor id from the request header into the
// request context, defaulting to the system actor.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(ActorHeader)
		if actorID == "" {
			actorID = SystemActorID
		}
		ctx := context.WithValue(c.Request.Context(), actorIDKey, actorID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetActorFromCtx retrieves the acting user id from the context, defaulting to
// the system actor.
func GetActorFromCtx(ctx context.Context) string {
	actorID, ok := ctx.Value(actorIDKey).(string)
	if !ok || actorID == "" {
		return SystemActorID
	}
	return actorID
}
