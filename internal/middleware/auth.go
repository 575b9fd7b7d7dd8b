package middleware

import (
	"strings"

	"expoflow/internal/model"
	"expoflow/internal/permission"
	"expoflow/internal/service"
	"expoflow/pkg/apperror"
	"expoflow/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	// ActorKey is the gin context key holding the resolved *model.Actor.
	ActorKey = "actor"
	// UserIDHeader names a preloaded actor directly, for demo clients.
	UserIDHeader = "X-User-Id"
)

// bearerToken extracts a token from the Authorization header, falling back
// to the token query parameter used by websocket clients.
func bearerToken(c *gin.Context) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", apperror.Unauthenticated("invalid authorization format, expected 'Bearer <token>'")
		}
		return parts[1], nil
	}
	return c.Query("token"), nil
}

// ResolveActor identifies the caller of a request. A bearer token wins over
// the X-User-Id header.
func ResolveActor(c *gin.Context, actors service.ActorService) (model.Actor, error) {
	token, err := bearerToken(c)
	if err != nil {
		return model.Actor{}, err
	}
	if token != "" {
		return actors.ParseToken(c.Request.Context(), token)
	}
	if id := c.GetHeader(UserIDHeader); id != "" {
		return actors.Resolve(c.Request.Context(), id)
	}
	return model.Actor{}, apperror.Unauthenticated("authorization is missing")
}

// Authenticate resolves the actor and stores it under ActorKey. Requests
// without a resolvable actor are rejected with 401.
func Authenticate(actors service.ActorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := ResolveActor(c, actors)
		if err != nil {
			status, body := response.FromError(err)
			c.AbortWithStatusJSON(status, body)
			return
		}
		c.Set(ActorKey, &actor)
		c.Set("user_id", actor.ID)
		c.Next()
	}
}

// CurrentActor returns the actor set by Authenticate, or nil.
func CurrentActor(c *gin.Context) *model.Actor {
	v, ok := c.Get(ActorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*model.Actor)
	return actor
}

// RequirePermission rejects the request unless the actor's role holds
// capability. Services check again before touching the store.
func RequirePermission(capability permission.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := CurrentActor(c)
		if actor == nil {
			status, body := response.FromError(apperror.Unauthenticated("authorization is missing"))
			c.AbortWithStatusJSON(status, body)
			return
		}
		if !permission.Evaluate(actor.Role, capability) {
			status, body := response.FromError(apperror.Forbidden("access denied: missing permission '%s'", capability).
				With("permission", string(capability)))
			c.AbortWithStatusJSON(status, body)
			return
		}
		c.Next()
	}
}
