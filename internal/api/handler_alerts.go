package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"equipment-dashboard/internal/guard"
	"equipment-dashboard/internal/model"
	"equipment-dashboard/internal/page"
)

// GetAlerts handles GET /alerts.
func (h *Handler) GetAlerts(c *gin.Context) {
	set := h.pageSet(c)
	defer set.Unlock()

	p := &set.Alerts
	p.FormError = ""
	err := p.Load(c.Request.Context(), h.gateway(c))
	h.expire(c, err)
	h.renderAlerts(c, statusFor(err), p)
}

// PostAlert handles POST /alerts/new.
func (h *Handler) PostAlert(c *gin.Context) {
	set := h.pageSet(c)
	defer set.Unlock()
	p := &set.Alerts

	var in model.NewAlert
	if msg, ok := bind(c, &in); !ok {
		p.FormError = msg
		h.renderAlerts(c, http.StatusUnprocessableEntity, p)
		return
	}

	err := p.Create(c.Request.Context(), h.gateway(c), in)
	h.expire(c, err)
	h.renderAlerts(c, statusFor(err), p)
}

func (h *Handler) renderAlerts(c *gin.Context, status int, p *page.AlertsPage) {
	user, _ := viewer(c)
	h.render(c, status, "alerts.html", gin.H{
		"Title":     "Alerts",
		"page":      p,
		"CanCreate": guard.Allowed(user.Role, guard.RouteAlertNew),
	})
}
