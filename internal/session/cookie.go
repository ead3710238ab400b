package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CookieName = "pibdash_session"
	contextKey = "session_id"
)

// Middleware makes sure every request carries a session id. Requests without
// a valid pibdash_session cookie get a fresh uuid, returned as a cookie that
// lives as long as the store keeps the session.
func Middleware(ttl time.Duration) gin.HandlerFunc {
	maxAge := int(ttl / time.Second)

	return func(c *gin.Context) {
		id, err := c.Cookie(CookieName)
		if err != nil || !validID(id) {
			id = uuid.NewString()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, id, maxAge, "/", "", false, true)
		c.Set(contextKey, id)

		c.Next()
	}
}

// ID returns the session id set by Middleware, or "" outside of it.
func ID(c *gin.Context) string {
	return c.GetString(contextKey)
}

func validID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.Version() == 4
}
