package page

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"equipment-dashboard/internal/backend"
	"equipment-dashboard/internal/model"
	"equipment-dashboard/internal/view"
)

// ErrNotAllowed is returned when an action does not apply to a loan's
// current status.
var ErrNotAllowed = errors.New("action not allowed in this status")

// LoansPage is the admin loan-request list with its create form.
type LoansPage struct {
	Loans  []model.Loan    `json:"loans"`
	Query  string          `json:"query"`
	Bucket view.LoanBucket `json:"bucket"`
	Error  string          `json:"error,omitempty"`

	// Options for the create form.
	Users        []model.User      `json:"users"`
	Equipments   []model.Equipment `json:"equipments"`
	OptionsError string            `json:"options_error,omitempty"`
	FormError    string            `json:"form_error,omitempty"`

	Loaded bool `json:"loaded"`
}

// Load fetches the loans and, concurrently, the form options. A failure of
// one does not cancel the other; both errors are returned. Loaded is set once
// the loan list has been fetched.
func (p *LoansPage) Load(ctx context.Context, gw Gateway) error {
	var (
		wg                  sync.WaitGroup
		loansErr, optionErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		loansErr = p.loadLoans(ctx, gw)
	}()
	go func() {
		defer wg.Done()
		optionErr = p.loadOptions(ctx, gw)
	}()
	wg.Wait()
	return errors.Join(loansErr, optionErr)
}

// Rows is the filtered list with the allowed actions of each loan.
func (p *LoansPage) Rows() []view.LoanRow {
	return view.LoanRows(p.Loans, p.Bucket, p.Query, true)
}

func (p *LoansPage) loadLoans(ctx context.Context, gw Gateway) error {
	loans, err := gw.ListLoans(ctx)
	if err != nil {
		log.Printf("Failed to load loans: %v", err)
		p.Error = backend.Message(err, "Failed to load loans")
		return err
	}
	p.Loans = loans
	p.Error = ""
	p.Loaded = true
	return nil
}

// loadOptions fills the form selects: every user and the equipment that is
// currently available. Both must succeed.
func (p *LoansPage) loadOptions(ctx context.Context, gw Gateway) error {
	var (
		users      []model.User
		equipments []model.Equipment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = gw.ListUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		equipments, err = gw.ListEquipments(gctx, model.EquipmentAvailable)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("Failed to load options: %v", err)
		p.OptionsError = backend.Message(err, "Failed to load users and equipment")
		return err
	}
	p.Users = users
	p.Equipments = equipments
	p.OptionsError = ""
	return nil
}

// Create opens a loan and reloads the list and the form options.
func (p *LoansPage) Create(ctx context.Context, gw Gateway, in model.NewLoan) error {
	p.FormError = ""
	if _, err := gw.CreateLoan(ctx, in); err != nil {
		log.Printf("Failed to create loan: %v", err)
		p.FormError = backend.Message(err, "Failed to create loan")
		return err
	}
	return p.Load(ctx, gw)
}

// Apply runs action on loan id. The row moves to the action's target status
// at once; if the backend fails it is put back to the status it had before.
func (p *LoansPage) Apply(ctx context.Context, gw Gateway, id int64, action view.Action) error {
	idx := p.index(id)
	if idx < 0 {
		p.Error = fmt.Sprintf("Loan #%d is not in the list.", id)
		return ErrNotAllowed
	}
	if !view.Allows(p.Loans[idx].Status, action) {
		p.Error = fmt.Sprintf("Loan #%d cannot be %s.", id, pastTense(action))
		return ErrNotAllowed
	}

	m := view.Begin(id, p.Loans[idx].Status, action.Target())
	p.Loans[idx].Status = m.To

	updated, err := p.call(ctx, gw, id, action)
	if err != nil {
		log.Printf("Failed to %s loan %d: %v", action, id, err)
		if restore, ferr := m.Fail(); ferr == nil {
			p.setStatus(id, restore)
		}
		p.Error = backend.Message(err, fmt.Sprintf("Failed to %s loan", verb(action)))
		return err
	}

	_ = m.Commit()
	p.Error = ""
	if updated.ID != id {
		// No record in the response; refresh the row for fields such as
		// return_date. The transition itself already succeeded.
		fresh, err := gw.GetLoan(ctx, id)
		if err != nil {
			log.Printf("Failed to refresh loan %d: %v", id, err)
			return nil
		}
		updated = fresh
	}
	if updated.ID == id {
		if i := p.index(id); i >= 0 {
			p.Loans[i] = updated
		}
	}
	return nil
}

// Delete removes a loan. The row is only dropped after the backend confirms.
func (p *LoansPage) Delete(ctx context.Context, gw Gateway, id int64) error {
	if err := gw.DeleteLoan(ctx, id); err != nil {
		log.Printf("Failed to delete loan %d: %v", id, err)
		p.Error = backend.Message(err, "Failed to delete loan")
		return err
	}
	if i := p.index(id); i >= 0 {
		p.Loans = append(p.Loans[:i], p.Loans[i+1:]...)
	}
	p.Error = ""
	return nil
}

func (p *LoansPage) call(ctx context.Context, gw Gateway, id int64, action view.Action) (model.Loan, error) {
	switch action {
	case view.ActionApprove:
		return gw.ApproveLoan(ctx, id)
	case view.ActionReject:
		return gw.RejectLoan(ctx, id)
	case view.ActionClose:
		return gw.CloseLoan(ctx, id)
	}
	return model.Loan{}, fmt.Errorf("unknown action %q", action)
}

func (p *LoansPage) index(id int64) int {
	for i := range p.Loans {
		if p.Loans[i].ID == id {
			return i
		}
	}
	return -1
}

func (p *LoansPage) setStatus(id int64, s model.LoanStatus) {
	if i := p.index(id); i >= 0 {
		p.Loans[i].Status = s
	}
}

func verb(a view.Action) string {
	if a == view.ActionClose {
		return "close"
	}
	return string(a)
}

func pastTense(a view.Action) string {
	switch a {
	case view.ActionApprove:
		return "approved"
	case view.ActionReject:
		return "rejected"
	}
	return "closed"
}
