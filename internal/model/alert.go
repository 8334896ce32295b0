package model

// Alert is a notice attached to a loan, such as "returned" or "overdue".
type Alert struct {
	ID        int64      `json:"id"`
	LoanID    int64      `json:"loan_id"`
	AlertType string     `json:"alert_type"`
	Date      *Timestamp `json:"date,omitempty"`
}

// NewAlert is the payload of POST /alerts.
type NewAlert struct {
	LoanID    int64  `json:"loan_id" form:"loan_id" binding:"required,gt=0"`
	AlertType string `json:"alert_type" form:"alert_type" binding:"required,max=50"`
}
