package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"equipment-dashboard/internal/model"
	"equipment-dashboard/internal/page"
)

// GetUsers handles GET /users?q=.
func (h *Handler) GetUsers(c *gin.Context) {
	set := h.pageSet(c)
	defer set.Unlock()

	p := &set.Users
	p.Query = c.Query("q")
	p.FormError = ""
	err := p.Load(c.Request.Context(), h.gateway(c))
	h.expire(c, err)
	h.renderUsers(c, statusFor(err), p)
}

// PostUser handles POST /users.
func (h *Handler) PostUser(c *gin.Context) {
	set := h.pageSet(c)
	defer set.Unlock()
	p := &set.Users

	var in model.NewUser
	if msg, ok := bind(c, &in); !ok {
		p.FormError = msg
		h.renderUsers(c, http.StatusUnprocessableEntity, p)
		return
	}

	err := p.Create(c.Request.Context(), h.gateway(c), in)
	h.expire(c, err)
	h.renderUsers(c, statusFor(err), p)
}

// PostUserUpdate handles POST /users/:id/edit.
func (h *Handler) PostUserUpdate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	set := h.pageSet(c)
	defer set.Unlock()
	p := &set.Users

	var in model.UserUpdate
	if msg, ok := bind(c, &in); !ok {
		p.Error = msg
		h.renderUsers(c, http.StatusUnprocessableEntity, p)
		return
	}

	err := p.Update(c.Request.Context(), h.gateway(c), id, in)
	h.expire(c, err)
	h.renderUsers(c, statusFor(err), p)
}

// PostUserDelete handles POST /users/:id/delete.
func (h *Handler) PostUserDelete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	set := h.pageSet(c)
	defer set.Unlock()
	p := &set.Users

	err := p.Delete(c.Request.Context(), h.gateway(c), id)
	h.expire(c, err)
	h.renderUsers(c, statusFor(err), p)
}

func (h *Handler) renderUsers(c *gin.Context, status int, p *page.UsersPage) {
	h.render(c, status, "users.html", gin.H{
		"Title": "Users",
		"page":  p,
		"rows":  p.Rows(),
		"Roles": model.Roles,
	})
}
