package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"equipment-dashboard/internal/guard"
	"equipment-dashboard/internal/model"
	"equipment-dashboard/internal/page"
	"equipment-dashboard/internal/view"
)

// GetEquipments handles GET /equipments?q=&bucket=.
func (h *Handler) GetEquipments(c *gin.Context) {
	set := h.pageSet(c)
	defer set.Unlock()

	p := &set.Equipment
	p.Query = c.Query("q")
	p.Bucket = view.ParseEquipmentBucket(c.Query("bucket"))
	p.Notice = ""
	err := p.Load(c.Request.Context(), h.gateway(c))
	h.expire(c, err)
	h.renderEquipments(c, statusFor(err), p)
}

// PostEquipment handles POST /equipments/new.
func (h *Handler) PostEquipment(c *gin.Context) {
	set := h.pageSet(c)
	defer set.Unlock()
	p := &set.Equipment

	var in model.NewEquipment
	if msg, ok := bind(c, &in); !ok {
		p.Error = msg
		h.renderEquipments(c, http.StatusUnprocessableEntity, p)
		return
	}

	err := p.Create(c.Request.Context(), h.gateway(c), in)
	h.expire(c, err)
	h.renderEquipments(c, statusFor(err), p)
}

// PostEquipmentUpdate handles POST /equipments/manage/:id.
func (h *Handler) PostEquipmentUpdate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment ID"})
		return
	}

	set := h.pageSet(c)
	defer set.Unlock()
	p := &set.Equipment

	var in model.EquipmentUpdate
	if msg, ok := bind(c, &in); !ok {
		p.Error = msg
		h.renderEquipments(c, http.StatusUnprocessableEntity, p)
		return
	}

	err := p.Update(c.Request.Context(), h.gateway(c), id, in)
	h.expire(c, err)
	h.renderEquipments(c, statusFor(err), p)
}

// PostEquipmentDelete handles POST /equipments/manage/:id/delete.
func (h *Handler) PostEquipmentDelete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment ID"})
		return
	}

	set := h.pageSet(c)
	defer set.Unlock()
	p := &set.Equipment

	err := p.Delete(c.Request.Context(), h.gateway(c), id)
	h.expire(c, err)
	h.renderEquipments(c, statusFor(err), p)
}

// PostLoanRequest handles POST /equipments/:id/request.
func (h *Handler) PostLoanRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment ID"})
		return
	}
	user, _ := viewer(c)

	set := h.pageSet(c)
	defer set.Unlock()
	p := &set.Equipment

	gw := h.gateway(c)
	if !p.Loaded {
		if err := p.Load(c.Request.Context(), gw); err != nil {
			h.expire(c, err)
			h.renderEquipments(c, statusFor(err), p)
			return
		}
	}

	err := p.RequestLoan(c.Request.Context(), gw, user, id)
	h.expire(c, err)
	h.renderEquipments(c, statusFor(err), p)
}

func (h *Handler) renderEquipments(c *gin.Context, status int, p *page.EquipmentPage) {
	user, signedIn := viewer(c)
	h.render(c, status, "equipments.html", gin.H{
		"Title":     "Equipments",
		"page":      p,
		"rows":      p.Rows(user, signedIn),
		"counts":    view.CountEquipment(p.Items),
		"Buckets":   view.EquipmentBuckets,
		"Types":     model.EquipmentTypes,
		"CanCreate": guard.Allowed(user.Role, guard.RouteEquipmentNew),
		"CanManage": guard.Allowed(user.Role, guard.RouteEquipmentManage),
		"Statuses":  []model.EquipmentStatus{model.EquipmentAvailable, model.EquipmentPending, model.EquipmentLoaned, model.EquipmentUnderMaintenance},
	})
}
