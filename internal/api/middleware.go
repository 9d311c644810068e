package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/constants"
)

const ctxPlayerID = "playerID"

// PlayerRequired validates the player identity header and injects it into the
// request context. Identity is asserted by the gateway in front of this
// service; this middleware only enforces its presence.
func PlayerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(constants.HeaderPlayerID))
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrMsgMissingPlayerID})
			return
		}
		c.Set(ctxPlayerID, id)
		c.Next()
	}
}

// playerID returns the identity injected by PlayerRequired.
func playerID(c *gin.Context) string {
	v, _ := c.Get(ctxPlayerID)
	s, _ := v.(string)
	return s
}
