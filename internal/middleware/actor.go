package middleware

import "github.com/gin-gonic/gin"

// actorHeader carries the identity of the upstream caller. Authentication
// lives outside this service; the header value is recorded in audit fields
// as-is.
const actorHeader = "X-Actor-ID"

// defaultActor is recorded when the caller does not identify itself.
const defaultActor = "system"

// GetActorFromContext returns the acting user recorded on the request.
func GetActorFromContext(c *gin.Context) string {
	if actor := c.GetHeader(actorHeader); actor != "" {
		return actor
	}
	return defaultActor
}
