package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"equipment-dashboard/internal/model"
	"equipment-dashboard/internal/page"
	"equipment-dashboard/internal/view"
)

// GetLoans handles GET /loans?q=&bucket=.
func (h *Handler) GetLoans(c *gin.Context) {
	set := h.pageSet(c)
	defer set.Unlock()

	p := &set.Loans
	p.Query = c.Query("q")
	p.Bucket = view.ParseLoanBucket(c.Query("bucket"))
	p.FormError = ""
	err := p.Load(c.Request.Context(), h.gateway(c))
	h.expire(c, err)
	h.renderLoans(c, statusFor(err), p)
}

// PostLoan handles POST /loans.
func (h *Handler) PostLoan(c *gin.Context) {
	set := h.pageSet(c)
	defer set.Unlock()
	p := &set.Loans

	var in model.NewLoan
	if msg, ok := bind(c, &in); !ok {
		p.FormError = msg
		h.renderLoans(c, http.StatusUnprocessableEntity, p)
		return
	}

	err := p.Create(c.Request.Context(), h.gateway(c), in)
	h.expire(c, err)
	h.renderLoans(c, statusFor(err), p)
}

// PostLoanAction handles POST /loans/:id/:action where action is approve,
// reject, close or delete.
func (h *Handler) PostLoanAction(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid loan ID"})
		return
	}
	name := c.Param("action")
	action, known := view.ParseAction(name)
	if !known && name != "delete" {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unknown action"})
		return
	}

	set := h.pageSet(c)
	defer set.Unlock()
	p := &set.Loans

	ctx := c.Request.Context()
	gw := h.gateway(c)
	if !p.Loaded {
		// A failure of the form options alone does not block the action.
		if err := p.Load(ctx, gw); err != nil && (h.expire(c, err) || !p.Loaded) {
			h.renderLoans(c, statusFor(err), p)
			return
		}
	}

	var err error
	if known {
		err = p.Apply(ctx, gw, id, action)
	} else {
		err = p.Delete(ctx, gw, id)
	}
	h.expire(c, err)
	h.renderLoans(c, statusFor(err), p)
}

func (h *Handler) renderLoans(c *gin.Context, status int, p *page.LoansPage) {
	h.render(c, status, "loans.html", gin.H{
		"Title":   "Loan requests",
		"page":    p,
		"rows":    p.Rows(),
		"counts":  view.CountLoans(p.Loans),
		"Buckets": view.LoanBuckets,
	})
}

// GetHistory handles GET /history?q=&bucket=.
func (h *Handler) GetHistory(c *gin.Context) {
	set := h.pageSet(c)
	defer set.Unlock()

	p := &set.History
	p.Query = c.Query("q")
	p.Bucket = view.ParseLoanBucket(c.Query("bucket"))
	err := p.Load(c.Request.Context(), h.gateway(c))
	h.expire(c, err)

	h.render(c, statusFor(err), "history.html", gin.H{
		"Title":   "My loans",
		"page":    p,
		"rows":    p.Rows(),
		"Buckets": view.LoanBuckets,
	})
}
