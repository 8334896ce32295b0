package page

import (
	"context"
	"log"

	"equipment-dashboard/internal/backend"
	"equipment-dashboard/internal/model"
	"equipment-dashboard/internal/view"
)

// HistoryPage lists the signed-in user's own loans.
type HistoryPage struct {
	Loans  []model.Loan    `json:"loans"`
	Query  string          `json:"query"`
	Bucket view.LoanBucket `json:"bucket"`
	Error  string          `json:"error,omitempty"`
	Loaded bool            `json:"loaded"`
}

// Rows filters the history by equipment name. History rows carry no actions.
func (p *HistoryPage) Rows() []view.LoanRow {
	rows := []view.LoanRow{}
	for _, r := range view.LoanRows(p.Loans, p.Bucket, "", false) {
		if view.Match(p.Query, r.EquipmentName) {
			rows = append(rows, r)
		}
	}
	return rows
}

// Load fetches the signed-in user's loans.
func (p *HistoryPage) Load(ctx context.Context, gw Gateway) error {
	loans, err := gw.MyLoans(ctx)
	p.Loaded = true
	if err != nil {
		log.Printf("Failed to load loan history: %v", err)
		p.Error = backend.Message(err, "Failed to load loan history")
		return err
	}
	p.Loans = loans
	p.Error = ""
	return nil
}

// UsersPage is the admin user list with its create form.
type UsersPage struct {
	Users     []model.User `json:"users"`
	Query     string       `json:"query"`
	Error     string       `json:"error,omitempty"`
	FormError string       `json:"form_error,omitempty"`
	Loaded    bool         `json:"loaded"`
}

// Load fetches every user.
func (p *UsersPage) Load(ctx context.Context, gw Gateway) error {
	users, err := gw.ListUsers(ctx)
	p.Loaded = true
	if err != nil {
		log.Printf("Failed to load users: %v", err)
		p.Error = backend.Message(err, "Failed to load users")
		return err
	}
	p.Users = users
	p.Error = ""
	return nil
}

// Rows filters users by name or email.
func (p *UsersPage) Rows() []model.User {
	out := []model.User{}
	for _, u := range p.Users {
		if view.Match(p.Query, u.Name, u.Email) {
			out = append(out, u)
		}
	}
	return out
}

// Create adds a user and re-fetches the list.
func (p *UsersPage) Create(ctx context.Context, gw Gateway, in model.NewUser) error {
	p.FormError = ""
	if _, err := gw.CreateUser(ctx, in); err != nil {
		log.Printf("Failed to create user: %v", err)
		p.FormError = backend.Message(err, "Failed to create user")
		return err
	}
	return p.Load(ctx, gw)
}

// Update edits a user and re-fetches the list.
func (p *UsersPage) Update(ctx context.Context, gw Gateway, id int64, in model.UserUpdate) error {
	p.FormError = ""
	if _, err := gw.UpdateUser(ctx, id, in); err != nil {
		log.Printf("Failed to update user %d: %v", id, err)
		p.Error = backend.Message(err, "Failed to update user")
		return err
	}
	return p.Load(ctx, gw)
}

// Delete removes a user and re-fetches the list.
func (p *UsersPage) Delete(ctx context.Context, gw Gateway, id int64) error {
	if err := gw.DeleteUser(ctx, id); err != nil {
		log.Printf("Failed to delete user %d: %v", id, err)
		p.Error = backend.Message(err, "Failed to delete user")
		return err
	}
	return p.Load(ctx, gw)
}

// AlertsPage lists loan alerts.
type AlertsPage struct {
	Alerts    []model.Alert `json:"alerts"`
	Error     string        `json:"error,omitempty"`
	FormError string        `json:"form_error,omitempty"`
	Loaded    bool          `json:"loaded"`
}

// Load fetches the alerts.
func (p *AlertsPage) Load(ctx context.Context, gw Gateway) error {
	alerts, err := gw.ListAlerts(ctx)
	p.Loaded = true
	if err != nil {
		log.Printf("Failed to load alerts: %v", err)
		p.Error = backend.Message(err, "Failed to load alerts")
		return err
	}
	p.Alerts = alerts
	p.Error = ""
	return nil
}

// Create records an alert and re-fetches the list.
func (p *AlertsPage) Create(ctx context.Context, gw Gateway, in model.NewAlert) error {
	p.FormError = ""
	if _, err := gw.CreateAlert(ctx, in); err != nil {
		log.Printf("Failed to create alert: %v", err)
		p.FormError = backend.Message(err, "Failed to create alert")
		return err
	}
	return p.Load(ctx, gw)
}
