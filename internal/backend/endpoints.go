package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"equipment-dashboard/internal/model"
)

// Login exchanges credentials for the user record and a bearer token. It
// never sends an Authorization header.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.User, string, error) {
	var out struct {
		User  *model.User `json:"user"`
		Token string      `json:"token"`
	}
	if err := c.WithTokens(nil).do(ctx, http.MethodPost, "/auth/login", nil, creds, &out); err != nil {
		return model.User{}, "", err
	}
	if out.User == nil || out.Token == "" {
		return model.User{}, "", fmt.Errorf("%w: login response without user or token", ErrUnexpected)
	}
	return *out.User, out.Token, nil
}

// ListEquipments returns every equipment item, or only those in status when
// status is non-empty.
func (c *Client) ListEquipments(ctx context.Context, status model.EquipmentStatus) ([]model.Equipment, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {string(status)}}
	}
	var out struct {
		Equipments []model.Equipment `json:"equipments"`
	}
	if err := c.do(ctx, http.MethodGet, "/equipments", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Equipments, nil
}

// CreateEquipment adds an equipment item (admin).
func (c *Client) CreateEquipment(ctx context.Context, in model.NewEquipment) (model.Equipment, error) {
	var out struct {
		Equipment model.Equipment `json:"equipment"`
	}
	err := c.do(ctx, http.MethodPost, "/equipments", nil, in, &out)
	return out.Equipment, err
}

// UpdateEquipment changes the non-empty fields of an equipment item (admin).
func (c *Client) UpdateEquipment(ctx context.Context, id int64, in model.EquipmentUpdate) (model.Equipment, error) {
	var out struct {
		Equipment model.Equipment `json:"equipment"`
	}
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/equipments/%d", id), nil, in, &out)
	return out.Equipment, err
}

// DeleteEquipment removes an equipment item (admin).
func (c *Client) DeleteEquipment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/equipments/%d", id), nil, nil, nil)
}

// ListLoans returns every loan (admin).
func (c *Client) ListLoans(ctx context.Context) ([]model.Loan, error) {
	return c.listLoans(ctx, "/loans")
}

// MyLoans returns the loan history of the signed-in user.
func (c *Client) MyLoans(ctx context.Context) ([]model.Loan, error) {
	return c.listLoans(ctx, "/loans/me")
}

func (c *Client) listLoans(ctx context.Context, path string) ([]model.Loan, error) {
	var out struct {
		Loans []model.Loan `json:"loans"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Loans, nil
}

// GetLoan returns a single loan.
func (c *Client) GetLoan(ctx context.Context, id int64) (model.Loan, error) {
	var out struct {
		Loan model.Loan `json:"loan"`
	}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/loans/%d", id), nil, nil, &out)
	return out.Loan, err
}

// CreateLoan opens a loan request for a user and an equipment item.
func (c *Client) CreateLoan(ctx context.Context, in model.NewLoan) (model.Loan, error) {
	var out struct {
		Loan model.Loan `json:"loan"`
	}
	err := c.do(ctx, http.MethodPost, "/loans", nil, in, &out)
	return out.Loan, err
}

// ApproveLoan moves a pending loan to active. The returned loan is the zero
// value when the backend answers without a body.
func (c *Client) ApproveLoan(ctx context.Context, id int64) (model.Loan, error) {
	return c.transition(ctx, id, "approve")
}

// RejectLoan moves a pending loan to rejected.
func (c *Client) RejectLoan(ctx context.Context, id int64) (model.Loan, error) {
	return c.transition(ctx, id, "reject")
}

// CloseLoan marks an active loan as returned.
func (c *Client) CloseLoan(ctx context.Context, id int64) (model.Loan, error) {
	return c.transition(ctx, id, "close")
}

func (c *Client) transition(ctx context.Context, id int64, verb string) (model.Loan, error) {
	var out struct {
		Loan model.Loan `json:"loan"`
	}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/loans/%d/%s", id, verb), nil, nil, &out)
	return out.Loan, err
}

// DeleteLoan removes a loan (admin).
func (c *Client) DeleteLoan(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/loans/%d", id), nil, nil, nil)
}

// ListUsers returns every user (admin).
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var out struct {
		Users []model.User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// CreateUser adds a user (admin).
func (c *Client) CreateUser(ctx context.Context, in model.NewUser) (model.User, error) {
	var out struct {
		User model.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/users", nil, in, &out)
	return out.User, err
}

// UpdateUser changes the non-empty fields of a user (admin).
func (c *Client) UpdateUser(ctx context.Context, id int64, in model.UserUpdate) (model.User, error) {
	var out struct {
		User model.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, in, &out)
	return out.User, err
}

// DeleteUser removes a user (admin).
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, nil)
}

// ListAlerts returns the recorded loan alerts.
func (c *Client) ListAlerts(ctx context.Context) ([]model.Alert, error) {
	var out struct {
		Alerts []model.Alert `json:"alerts"`
	}
	if err := c.do(ctx, http.MethodGet, "/alerts", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Alerts, nil
}

// CreateAlert records an alert about a loan.
func (c *Client) CreateAlert(ctx context.Context, in model.NewAlert) (model.Alert, error) {
	var out struct {
		Alert model.Alert `json:"alert"`
	}
	err := c.do(ctx, http.MethodPost, "/alerts", nil, in, &out)
	return out.Alert, err
}

// Health checks that the backend answers. It sends no token.
func (c *Client) Health(ctx context.Context) error {
	return c.WithTokens(nil).do(ctx, http.MethodGet, "/health", nil, nil, nil)
}
