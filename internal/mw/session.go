package mw

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"equipment-dashboard/internal/session"
)

const (
	sessionKey   = "session"
	sessionIDKey = "session_id"
)

// CookieOptions configures the browser session cookie.
type CookieOptions struct {
	Name   string
	MaxAge int // seconds
	Secure bool
}

// DefaultCookieName is used when CookieOptions.Name is empty.
const DefaultCookieName = "dashboard_sid"

// Session attaches the caller's session store to the context. Browsers
// without a valid session cookie get a fresh random id.
func Session(m *session.Manager, opts CookieOptions) gin.HandlerFunc {
	if opts.Name == "" {
		opts.Name = DefaultCookieName
	}
	return func(c *gin.Context) {
		id, err := c.Cookie(opts.Name)
		if err != nil || !validID(id) {
			id = uuid.NewString()
		}

		st, err := m.Open(c.Request.Context(), id)
		if err != nil {
			log.Printf("Failed to open session: %v", err)
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(opts.Name, id, opts.MaxAge, "/", "", opts.Secure, true)
		c.Set(sessionKey, st)
		c.Set(sessionIDKey, id)
		c.Next()
	}
}

// CurrentSession returns the store attached by Session, or nil.
func CurrentSession(c *gin.Context) *session.Store {
	if v, ok := c.Get(sessionKey); ok {
		return v.(*session.Store)
	}
	return nil
}

// SessionID returns the browser session id attached by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
