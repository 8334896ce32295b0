package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"equipment-dashboard/internal/guard"
	"equipment-dashboard/internal/probe"
)

// GetHome handles GET /. The call to action depends on who is looking.
func (h *Handler) GetHome(c *gin.Context) {
	cta, label := guard.RouteLogin, "Sign in"
	if user, ok := viewer(c); ok {
		cta = guard.Landing(user.Role)
		label = "Browse equipment"
		if cta == guard.RouteDashboard {
			label = "Open the dashboard"
		}
	}
	h.render(c, http.StatusOK, "home.html", gin.H{
		"Title":    "Equipment loans",
		"CTA":      cta,
		"CTALabel": label,
	})
}

// GetHealth handles GET /healthz. The dashboard itself is live whenever it
// answers; the backend's last probe result is reported alongside.
func GetHealth(p *probe.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if p != nil {
			body["backend"] = p.Last()
		}
		c.JSON(http.StatusOK, body)
	}
}
