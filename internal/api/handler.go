package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"equipment-dashboard/internal/backend"
	"equipment-dashboard/internal/guard"
	"equipment-dashboard/internal/model"
	"equipment-dashboard/internal/mw"
	"equipment-dashboard/internal/page"
	"equipment-dashboard/internal/session"
)

// Handler holds shared dependencies for the dashboard handlers.
type Handler struct {
	backend  *backend.Client
	sessions *session.Manager
	pages    *page.Cache
}

// NewHandler creates a new dashboard handler.
func NewHandler(b *backend.Client, sessions *session.Manager, pages *page.Cache) *Handler {
	return &Handler{
		backend:  b,
		sessions: sessions,
		pages:    pages,
	}
}

// gateway returns a backend client that authenticates as the caller.
func (h *Handler) gateway(c *gin.Context) *backend.Client {
	if st := mw.CurrentSession(c); st != nil {
		return h.backend.WithTokens(st)
	}
	return h.backend.WithTokens(nil)
}

// pageSet returns the caller's locked page state. The caller must unlock it.
func (h *Handler) pageSet(c *gin.Context) *page.Set {
	set := h.pages.For(mw.SessionID(c))
	set.Lock()
	return set
}

// viewer returns the signed-in user of the request.
func viewer(c *gin.Context) (model.User, bool) {
	st := mw.CurrentSession(c)
	if st == nil || !st.Authenticated() {
		return model.User{}, false
	}
	return st.User()
}

// expire signs the caller out when the backend rejected their token. It
// reports whether that happened.
func (h *Handler) expire(c *gin.Context, err error) bool {
	if !errors.Is(err, backend.ErrUnauthorized) {
		return false
	}
	if st := mw.CurrentSession(c); st != nil {
		if lerr := st.Logout(context.WithoutCancel(c.Request.Context())); lerr != nil {
			log.Printf("Failed to clear expired session: %v", lerr)
		}
	}
	h.pages.Drop(mw.SessionID(c))
	c.Set("expired", true)
	return true
}

// statusFor maps the outcome of a page operation to an HTTP status.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, page.ErrNotEligible), errors.Is(err, page.ErrNotAllowed):
		return http.StatusConflict
	case errors.Is(err, backend.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, backend.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// render answers with the named template for browsers and with data as JSON
// for API callers.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	user, signedIn := viewer(c)

	html := gin.H{
		"Path":     c.Request.URL.Path,
		"SignedIn": signedIn,
		"User":     user,
		"Expired":  c.GetBool("expired"),
	}
	if signedIn {
		html["Nav"] = guard.Navigation(user.Role)
	}
	for k, v := range data {
		html[k] = v
	}

	c.Negotiate(status, gin.Negotiate{
		Offered:  []string{gin.MIMEHTML, gin.MIMEJSON},
		HTMLName: name,
		HTMLData: html,
		JSONData: data,
	})
}

// redirect sends browsers to target and tells JSON callers where to go.
func redirect(c *gin.Context, target guard.Route, data gin.H) {
	if mw.WantsJSON(c) {
		if data == nil {
			data = gin.H{}
		}
		data["redirect"] = target
		c.JSON(http.StatusOK, data)
		return
	}
	c.Redirect(http.StatusSeeOther, string(target))
}
