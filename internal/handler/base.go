package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-console/internal/middleware"
	"github.com/jwalitptl/care-console/internal/session"
	apperrors "github.com/jwalitptl/care-console/pkg/errors"
)

// BaseHandler carries what every screen handler needs from the request.
type BaseHandler struct{}

// Session returns the console session attached by the session middleware.
func (h *BaseHandler) Session(c *gin.Context) *session.Session {
	return middleware.CurrentSession(c)
}

// Remount reports whether the page asked for its screen to be rebuilt from the backend.
func (h *BaseHandler) Remount(c *gin.Context) bool {
	return c.Query("reload") == "1"
}

// Render writes a page with the session's revision so the browser can tell redraws apart.
func (h *BaseHandler) Render(c *gin.Context, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if sess := h.Session(c); sess != nil {
		data["Revision"] = sess.Revision()
		c.Header("X-Console-Revision", strconv.FormatUint(sess.Revision(), 10))
	}
	data["RequestID"] = c.GetString(middleware.ContextRequestID)
	c.HTML(http.StatusOK, name, data)
}

// Fail hands err to the error middleware and stops the chain.
func (h *BaseHandler) Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Settle finishes a form post. Outcomes the screen displays itself (validation
// messages, stale forms, backend failures) redirect back to the page; missing
// entities and malformed requests become error pages.
func (h *BaseHandler) Settle(c *gin.Context, page string, err error) {
	if err != nil && (apperrors.IsCode(err, apperrors.ErrNotFound) || apperrors.IsCode(err, apperrors.ErrBadRequest)) {
		h.Fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, page)
}

// Bind decodes the posted form into form, failing the request when it does not parse.
func (h *BaseHandler) Bind(c *gin.Context, form interface{}) bool {
	if err := c.ShouldBind(form); err != nil {
		h.Fail(c, apperrors.NewBadRequest("invalid form submission", err))
		return false
	}
	return true
}
