package view

import "equipment-dashboard/internal/model"

var equipmentBadges = map[model.EquipmentStatus]StatusBadge{
	model.EquipmentAvailable:        {Label: "Available", ColorClass: "bg-green-50 text-green-700"},
	model.EquipmentPending:          {Label: "Pending", ColorClass: "bg-yellow-50 text-yellow-700"},
	model.EquipmentLoaned:           {Label: "Loaned", ColorClass: "bg-amber-50 text-amber-700"},
	model.EquipmentUnderMaintenance: {Label: "Under maintenance", ColorClass: fallbackColor},
}

// EquipmentStatusView returns the badge of an equipment status. ok is false
// for values outside the enum, which get a neutral fallback badge.
func EquipmentStatusView(s model.EquipmentStatus) (StatusBadge, bool) {
	if b, ok := equipmentBadges[s]; ok {
		return b, true
	}
	return fallbackBadge(string(s)), false
}

// CanRequestLoan reports whether the "Request loan" control is offered.
func CanRequestLoan(authenticated bool, role model.Role, s model.EquipmentStatus) bool {
	return authenticated && role != model.RoleAdmin && s == model.EquipmentAvailable
}

// EquipmentBucket partitions the equipment list.
type EquipmentBucket string

const (
	EquipmentAll           EquipmentBucket = "all"
	EquipmentPendingOnly   EquipmentBucket = "pending"
	EquipmentAvailableOnly EquipmentBucket = "available"
	EquipmentLoanedOnly    EquipmentBucket = "loaned"
	EquipmentMaintenance   EquipmentBucket = "maintenance"
)

// EquipmentBuckets lists the buckets in tab order.
var EquipmentBuckets = []EquipmentBucket{EquipmentAll, EquipmentPendingOnly, EquipmentAvailableOnly, EquipmentLoanedOnly, EquipmentMaintenance}

// ParseEquipmentBucket maps a query value to a bucket, defaulting to all.
func ParseEquipmentBucket(s string) EquipmentBucket {
	for _, b := range EquipmentBuckets {
		if string(b) == s {
			return b
		}
	}
	return EquipmentAll
}

// Contains reports whether an item in status s belongs to the bucket.
func (b EquipmentBucket) Contains(s model.EquipmentStatus) bool {
	switch b {
	case EquipmentPendingOnly:
		return s == model.EquipmentPending
	case EquipmentAvailableOnly:
		return s == model.EquipmentAvailable
	case EquipmentLoanedOnly:
		return s == model.EquipmentLoaned
	case EquipmentMaintenance:
		return s == model.EquipmentUnderMaintenance
	}
	return true
}

// EquipmentRow is one rendered equipment card.
type EquipmentRow struct {
	model.Equipment
	Badge          StatusBadge `json:"badge"`
	CanRequestLoan bool        `json:"can_request_loan"`
}

// EquipmentRows filters items by bucket and query and decorates them for a
// viewer.
func EquipmentRows(items []model.Equipment, bucket EquipmentBucket, query string, authenticated bool, role model.Role) []EquipmentRow {
	rows := make([]EquipmentRow, 0, len(items))
	for _, e := range items {
		if !bucket.Contains(e.Status) || !Match(query, e.Name, string(e.Type)) {
			continue
		}
		badge, _ := EquipmentStatusView(e.Status)
		rows = append(rows, EquipmentRow{
			Equipment:      e,
			Badge:          badge,
			CanRequestLoan: CanRequestLoan(authenticated, role, e.Status),
		})
	}
	return rows
}

// CountEquipment returns the number of items per bucket, "all" included.
func CountEquipment(items []model.Equipment) map[EquipmentBucket]int {
	counts := make(map[EquipmentBucket]int, len(EquipmentBuckets))
	for _, b := range EquipmentBuckets {
		counts[b] = 0
	}
	for _, e := range items {
		for _, b := range EquipmentBuckets {
			if b.Contains(e.Status) {
				counts[b]++
			}
		}
	}
	return counts
}
