package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nicodev/webstudio/internal/pricing"
	"github.com/nicodev/webstudio/internal/session"
)

const (
	sessionCookie = "ws_session"
	sessionKey    = "session"
)

// sessionMiddleware attaches the visitor's pricing session, starting a new
// one when the cookie is missing or has expired.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var state *session.State
		if id, err := c.Cookie(sessionCookie); err == nil {
			state, _ = s.sessions.Get(id)
		}
		if state == nil {
			var id string
			id, state = s.sessions.Create()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, int(s.sessionTTL.Seconds()), "/", "", s.secureCookies, true)
		}
		c.Set(sessionKey, state)
		c.Next()
	}
}

// withSession runs fn against the request's session under its lock.
func withSession(c *gin.Context, fn func(sel *pricing.Selection, cmp *pricing.Comparison)) {
	state := c.MustGet(sessionKey).(*session.State)
	state.Do(fn)
}
