package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"equipment-dashboard/internal/backend"
	"equipment-dashboard/internal/guard"
	"equipment-dashboard/internal/model"
	"equipment-dashboard/internal/mw"
)

// GetLogin handles GET /login. Signed-in users go straight to their landing
// page.
func (h *Handler) GetLogin(c *gin.Context) {
	if user, ok := viewer(c); ok {
		redirect(c, guard.Landing(user.Role), nil)
		return
	}
	h.renderLogin(c, http.StatusOK, "", "")
}

// PostLogin handles POST /login.
func (h *Handler) PostLogin(c *gin.Context) {
	var creds model.Credentials
	if msg, ok := bind(c, &creds); !ok {
		h.renderLogin(c, http.StatusUnprocessableEntity, creds.Email, msg)
		return
	}

	user, token, err := h.backend.Login(c.Request.Context(), creds)
	if err != nil {
		log.Printf("Login failed for %s: %v", creds.Email, err)
		msg := backend.Message(err, "Login failed")
		if errors.Is(err, backend.ErrUnauthorized) {
			msg = "Invalid email or password."
		}
		h.renderLogin(c, statusFor(err), creds.Email, msg)
		return
	}

	st := mw.CurrentSession(c)
	if err := st.Login(c.Request.Context(), user, token); err != nil {
		log.Printf("Failed to persist session for %s: %v", creds.Email, err)
		h.renderLogin(c, http.StatusInternalServerError, creds.Email, "Signing in failed, please try again.")
		return
	}
	h.pages.Drop(mw.SessionID(c))

	redirect(c, guard.Landing(user.Role), gin.H{"user": user})
}

func (h *Handler) renderLogin(c *gin.Context, status int, email, msg string) {
	h.render(c, status, "login.html", gin.H{"Title": "Sign in", "Email": email, "Error": msg})
}

// PostLogout handles POST /logout.
func (h *Handler) PostLogout(c *gin.Context) {
	if st := mw.CurrentSession(c); st != nil {
		if err := st.Logout(c.Request.Context()); err != nil {
			log.Printf("Failed to remove session: %v", err)
		}
	}
	h.pages.Drop(mw.SessionID(c))
	redirect(c, guard.RouteLogin, nil)
}
