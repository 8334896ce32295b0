package page

import (
	"context"
	"errors"
	"log"

	"equipment-dashboard/internal/backend"
	"equipment-dashboard/internal/model"
	"equipment-dashboard/internal/view"
)

// ErrNotEligible is returned when a loan is requested for equipment the
// viewer may not request.
var ErrNotEligible = errors.New("equipment cannot be requested")

// EquipmentPage is the equipment catalogue.
type EquipmentPage struct {
	Items  []model.Equipment    `json:"items"`
	Query  string               `json:"query"`
	Bucket view.EquipmentBucket `json:"bucket"`
	Error  string               `json:"error,omitempty"`
	Notice string               `json:"notice,omitempty"`
	Loaded bool                 `json:"loaded"`
}

// Load replaces the list with a fresh fetch. On failure the previous items
// stay in place and Loaded is left as it was.
func (p *EquipmentPage) Load(ctx context.Context, gw Gateway) error {
	items, err := gw.ListEquipments(ctx, "")
	if err != nil {
		log.Printf("Failed to load equipments: %v", err)
		p.Error = backend.Message(err, "Failed to load equipments")
		return err
	}
	p.Items = items
	p.Error = ""
	p.Loaded = true
	return nil
}

// Rows is the filtered list as the viewer sees it.
func (p *EquipmentPage) Rows(user model.User, authenticated bool) []view.EquipmentRow {
	return view.EquipmentRows(p.Items, p.Bucket, p.Query, authenticated, user.Role)
}

// Create adds an equipment item and re-fetches the list.
func (p *EquipmentPage) Create(ctx context.Context, gw Gateway, in model.NewEquipment) error {
	p.Notice = ""
	if _, err := gw.CreateEquipment(ctx, in); err != nil {
		log.Printf("Failed to create equipment: %v", err)
		p.Error = backend.Message(err, "Failed to create equipment")
		return err
	}
	err := p.Load(ctx, gw)
	p.Notice = "Equipment added."
	return err
}

// Update edits an equipment item and re-fetches the list.
func (p *EquipmentPage) Update(ctx context.Context, gw Gateway, id int64, in model.EquipmentUpdate) error {
	p.Notice = ""
	if _, err := gw.UpdateEquipment(ctx, id, in); err != nil {
		log.Printf("Failed to update equipment %d: %v", id, err)
		p.Error = backend.Message(err, "Failed to update equipment")
		return err
	}
	err := p.Load(ctx, gw)
	p.Notice = "Equipment updated."
	return err
}

// Delete removes an equipment item and re-fetches the list.
func (p *EquipmentPage) Delete(ctx context.Context, gw Gateway, id int64) error {
	p.Notice = ""
	if err := gw.DeleteEquipment(ctx, id); err != nil {
		log.Printf("Failed to delete equipment %d: %v", id, err)
		p.Error = backend.Message(err, "Failed to delete equipment")
		return err
	}
	err := p.Load(ctx, gw)
	p.Notice = "Equipment deleted."
	return err
}

// RequestLoan asks the backend for a loan of equipment id on behalf of user.
// The local row shows "pending" immediately and returns to its previous
// status if the backend refuses; the list is not re-fetched.
func (p *EquipmentPage) RequestLoan(ctx context.Context, gw Gateway, user model.User, id int64) error {
	p.Notice = ""
	idx := p.index(id)
	if idx < 0 || !view.CanRequestLoan(true, user.Role, p.Items[idx].Status) {
		p.Error = "This equipment cannot be requested right now."
		return ErrNotEligible
	}

	m := view.Begin(id, p.Items[idx].Status, model.EquipmentPending)
	p.Items[idx].Status = m.To

	if _, err := gw.CreateLoan(ctx, model.NewLoan{UserID: user.ID, EquipmentID: id}); err != nil {
		log.Printf("Failed to request loan for equipment %d: %v", id, err)
		if restore, ferr := m.Fail(); ferr == nil {
			p.setStatus(id, restore)
		}
		p.Error = backend.Message(err, "Failed to request loan")
		return err
	}

	_ = m.Commit()
	p.Error = ""
	p.Notice = "Loan requested. An administrator will review it."
	return nil
}

func (p *EquipmentPage) index(id int64) int {
	for i := range p.Items {
		if p.Items[i].ID == id {
			return i
		}
	}
	return -1
}

func (p *EquipmentPage) setStatus(id int64, s model.EquipmentStatus) {
	if i := p.index(id); i >= 0 {
		p.Items[i].Status = s
	}
}
