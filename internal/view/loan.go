package view

import "equipment-dashboard/internal/model"

// Action is a loan transition offered to admins.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionClose   Action = "close"
)

// ParseAction returns the action named s.
func ParseAction(s string) (Action, bool) {
	switch a := Action(s); a {
	case ActionApprove, ActionReject, ActionClose:
		return a, true
	}
	return "", false
}

// Label is the button text.
func (a Action) Label() string {
	switch a {
	case ActionApprove:
		return "Approve"
	case ActionReject:
		return "Reject"
	case ActionClose:
		return "Mark returned"
	}
	return string(a)
}

// Source is the only status the action may leave.
func (a Action) Source() model.LoanStatus {
	if a == ActionClose {
		return model.LoanActive
	}
	return model.LoanPending
}

// Target is the status a successful action leads to.
func (a Action) Target() model.LoanStatus {
	switch a {
	case ActionApprove:
		return model.LoanActive
	case ActionReject:
		return model.LoanRejected
	case ActionClose:
		return model.LoanReturned
	}
	return ""
}

// LoanStatusView is the display model of a loan status.
type LoanStatusView struct {
	StatusBadge
	Actions []Action `json:"actions"`
}

var loanViews = map[model.LoanStatus]LoanStatusView{
	model.LoanPending: {
		StatusBadge: StatusBadge{Label: "Pending", ColorClass: "bg-amber-50 text-amber-700"},
		Actions:     []Action{ActionApprove, ActionReject},
	},
	model.LoanActive: {
		StatusBadge: StatusBadge{Label: "Active", ColorClass: "bg-blue-50 text-blue-700"},
		Actions:     []Action{ActionClose},
	},
	model.LoanRejected: {
		StatusBadge: StatusBadge{Label: "Rejected", ColorClass: "bg-red-50 text-red-700"},
	},
	model.LoanReturned: {
		StatusBadge: StatusBadge{Label: "Returned", ColorClass: "bg-emerald-50 text-emerald-700"},
	},
}

// LoanView returns the badge and the action matrix row for s. Unknown
// statuses get a fallback badge and no actions.
func LoanView(s model.LoanStatus) (LoanStatusView, bool) {
	if v, ok := loanViews[s]; ok {
		v.Actions = append([]Action(nil), v.Actions...)
		return v, true
	}
	return LoanStatusView{StatusBadge: fallbackBadge(string(s))}, false
}

// Allows reports whether action may be applied to a loan in status s.
func Allows(s model.LoanStatus, action Action) bool {
	for _, a := range loanViews[s].Actions {
		if a == action {
			return true
		}
	}
	return false
}

// LoanBucket partitions the loan list.
type LoanBucket string

const (
	LoanAll          LoanBucket = "all"
	LoanPendingOnly  LoanBucket = "pending"
	LoanActiveOnly   LoanBucket = "active"
	LoanReturnedOnly LoanBucket = "returned"
)

// LoanBuckets lists the buckets in tab order.
var LoanBuckets = []LoanBucket{LoanPendingOnly, LoanActiveOnly, LoanReturnedOnly, LoanAll}

// ParseLoanBucket maps a query value to a bucket, defaulting to all.
func ParseLoanBucket(s string) LoanBucket {
	for _, b := range LoanBuckets {
		if string(b) == s {
			return b
		}
	}
	return LoanAll
}

// Contains reports whether a loan in status s belongs to the bucket.
// Rejected loans only show under "all".
func (b LoanBucket) Contains(s model.LoanStatus) bool {
	switch b {
	case LoanPendingOnly:
		return s == model.LoanPending
	case LoanActiveOnly:
		return s == model.LoanActive
	case LoanReturnedOnly:
		return s == model.LoanReturned
	}
	return true
}

// LoanRow is one rendered loan row.
type LoanRow struct {
	model.Loan
	View LoanStatusView `json:"view"`
}

// UserLabel is "Name (#id)" or the bare id when the name is unknown.
func (r LoanRow) UserLabel() string { return label(r.UserName, r.UserID) }

// EquipmentLabel is "Name (#id)" or the bare id when the name is unknown.
func (r LoanRow) EquipmentLabel() string { return label(r.EquipmentName, r.EquipmentID) }

// LoanRows filters loans by bucket and query (user and equipment names).
// withActions=false strips the action matrix, for read-only pages.
func LoanRows(loans []model.Loan, bucket LoanBucket, query string, withActions bool) []LoanRow {
	rows := make([]LoanRow, 0, len(loans))
	for _, l := range loans {
		if !bucket.Contains(l.Status) || !Match(query, l.UserName, l.EquipmentName) {
			continue
		}
		v, _ := LoanView(l.Status)
		if !withActions {
			v.Actions = nil
		}
		rows = append(rows, LoanRow{Loan: l, View: v})
	}
	return rows
}

// CountLoans returns the number of loans per bucket.
func CountLoans(loans []model.Loan) map[LoanBucket]int {
	counts := make(map[LoanBucket]int, len(LoanBuckets))
	for _, b := range LoanBuckets {
		counts[b] = 0
	}
	for _, l := range loans {
		for _, b := range LoanBuckets {
			if b.Contains(l.Status) {
				counts[b]++
			}
		}
	}
	return counts
}
