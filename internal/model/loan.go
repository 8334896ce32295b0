package model

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanPending  LoanStatus = "pending"
	LoanActive   LoanStatus = "active"
	LoanRejected LoanStatus = "rejected"
	LoanReturned LoanStatus = "returned"
)

// Valid reports whether s is one of the four loan statuses.
func (s LoanStatus) Valid() bool {
	switch s {
	case LoanPending, LoanActive, LoanRejected, LoanReturned:
		return true
	}
	return false
}

// Terminal reports whether no further transition leaves s.
func (s LoanStatus) Terminal() bool {
	return s == LoanRejected || s == LoanReturned
}

// Loan links one user to one equipment item.
type Loan struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	EquipmentID int64      `json:"equipment_id"`
	LoanDate    *Timestamp `json:"loan_date,omitempty"`
	ReturnDate  *Timestamp `json:"return_date,omitempty"`
	Status      LoanStatus `json:"status"`

	// Joined for display by the backend; may be empty.
	UserName      string `json:"user_name,omitempty"`
	EquipmentName string `json:"equipment_name,omitempty"`
}

// NewLoan is the payload of POST /loans.
type NewLoan struct {
	UserID      int64 `json:"user_id" form:"user_id" binding:"required,gt=0"`
	EquipmentID int64 `json:"equipment_id" form:"equipment_id" binding:"required,gt=0"`
}
