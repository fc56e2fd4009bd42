package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-console/internal/session"
)

const (
	ContextSessionID = "session_id"
	contextSession   = "session"
)

// Session attaches the browser's console session, creating one when the
// cookie is missing or expired. Requests of one session run one at a time.
func Session(store *session.Store, cookieName string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cookieName)
		sess, ok := store.Get(id)
		if !ok {
			sess = store.Create()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, sess.ID, 0, "/", "", secure, true)
		}

		c.Set(ContextSessionID, sess.ID)
		c.Set(contextSession, sess)

		sess.Lock()
		defer sess.Unlock()
		c.Next()
	}
}

// CurrentSession returns the session attached by Session.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(contextSession)
	if !ok {
		return nil
	}
	return v.(*session.Session)
}
