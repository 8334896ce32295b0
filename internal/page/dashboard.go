package page

import (
	"context"

	"golang.org/x/sync/errgroup"

	"equipment-dashboard/internal/backend"
	"equipment-dashboard/internal/model"
	"equipment-dashboard/internal/view"
)

// DashboardStats are the aggregated counts on the admin dashboard.
type DashboardStats struct {
	Equipments   int                          `json:"equipments"`
	ByBucket     map[view.EquipmentBucket]int `json:"by_bucket"`
	ActiveLoans  int                          `json:"active_loans"`
	PendingLoans int                          `json:"pending_loans"`
}

// DashboardPage is the admin overview.
type DashboardPage struct {
	Stats  *DashboardStats `json:"stats,omitempty"`
	Error  string          `json:"error,omitempty"`
	Loaded bool            `json:"loaded"`
}

// Load fetches equipments and loans concurrently. Stats are only set when
// both fetches succeed.
func (p *DashboardPage) Load(ctx context.Context, gw Gateway) error {
	var (
		equipments []model.Equipment
		loans      []model.Loan
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		equipments, err = gw.ListEquipments(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		loans, err = gw.ListLoans(gctx)
		return err
	})

	p.Loaded = true
	if err := g.Wait(); err != nil {
		p.Stats = nil
		p.Error = backend.Message(err, "Failed to load stats")
		return err
	}

	loanCounts := view.CountLoans(loans)
	p.Error = ""
	p.Stats = &DashboardStats{
		Equipments:   len(equipments),
		ByBucket:     view.CountEquipment(equipments),
		ActiveLoans:  loanCounts[view.LoanActiveOnly],
		PendingLoans: loanCounts[view.LoanPendingOnly],
	}
	return nil
}
