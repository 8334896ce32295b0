package api

import (
	"github.com/gin-gonic/gin"

	"equipment-dashboard/internal/view"
)

// GetDashboard handles GET /dashboard.
func (h *Handler) GetDashboard(c *gin.Context) {
	set := h.pageSet(c)
	defer set.Unlock()

	p := &set.Dashboard
	err := p.Load(c.Request.Context(), h.gateway(c))
	h.expire(c, err)

	h.render(c, statusFor(err), "dashboard.html", gin.H{
		"Title":   "Dashboard",
		"page":    p,
		"Buckets": view.EquipmentBuckets,
	})
}
