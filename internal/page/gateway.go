// Package page holds the per-session state of each dashboard page and the
// operations that change it.
package page

import (
	"context"

	"equipment-dashboard/internal/model"
)

// Gateway is the part of the backend API the pages use. *backend.Client
// satisfies it.
type Gateway interface {
	ListEquipments(ctx context.Context, status model.EquipmentStatus) ([]model.Equipment, error)
	CreateEquipment(ctx context.Context, in model.NewEquipment) (model.Equipment, error)
	UpdateEquipment(ctx context.Context, id int64, in model.EquipmentUpdate) (model.Equipment, error)
	DeleteEquipment(ctx context.Context, id int64) error

	ListLoans(ctx context.Context) ([]model.Loan, error)
	MyLoans(ctx context.Context) ([]model.Loan, error)
	GetLoan(ctx context.Context, id int64) (model.Loan, error)
	CreateLoan(ctx context.Context, in model.NewLoan) (model.Loan, error)
	ApproveLoan(ctx context.Context, id int64) (model.Loan, error)
	RejectLoan(ctx context.Context, id int64) (model.Loan, error)
	CloseLoan(ctx context.Context, id int64) (model.Loan, error)
	DeleteLoan(ctx context.Context, id int64) error

	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, in model.NewUser) (model.User, error)
	UpdateUser(ctx context.Context, id int64, in model.UserUpdate) (model.User, error)
	DeleteUser(ctx context.Context, id int64) error

	ListAlerts(ctx context.Context) ([]model.Alert, error)
	CreateAlert(ctx context.Context, in model.NewAlert) (model.Alert, error)
}
