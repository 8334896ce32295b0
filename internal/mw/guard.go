package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"equipment-dashboard/internal/guard"
	"equipment-dashboard/internal/model"
)

// WantsJSON reports whether the caller prefers JSON over HTML.
func WantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// Guard applies the route permission table. It must run after Session.
// Browsers are redirected with 303; JSON callers get 401 when signed out and
// 403 when their role is not allowed.
func Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			user model.User
			ok   bool
		)
		if st := CurrentSession(c); st != nil {
			user, _ = st.User()
			ok = st.Authenticated()
		}

		d := guard.Decide(ok, user.Role, c.Request.URL.Path)
		if d.Allow {
			c.Next()
			return
		}

		if WantsJSON(c) {
			status, msg := http.StatusForbidden, "forbidden"
			if d.Redirect == guard.RouteLogin {
				status, msg = http.StatusUnauthorized, "authentication required"
			}
			c.AbortWithStatusJSON(status, gin.H{"error": msg, "redirect": d.Redirect})
			return
		}
		c.Redirect(http.StatusSeeOther, string(d.Redirect))
		c.Abort()
	}
}
