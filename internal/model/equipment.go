package model

// EquipmentType is the kind of physical asset.
type EquipmentType string

const (
	EquipmentLaptop    EquipmentType = "laptop"
	EquipmentProjector EquipmentType = "projector"
	EquipmentTablet    EquipmentType = "tablet"
	EquipmentCamera    EquipmentType = "camera"
)

// EquipmentTypes lists the known types in display order.
var EquipmentTypes = []EquipmentType{EquipmentLaptop, EquipmentProjector, EquipmentTablet, EquipmentCamera}

// Valid reports whether t is one of the known equipment types.
func (t EquipmentType) Valid() bool {
	switch t {
	case EquipmentLaptop, EquipmentProjector, EquipmentTablet, EquipmentCamera:
		return true
	}
	return false
}

// EquipmentStatus is the availability state of an asset.
type EquipmentStatus string

const (
	EquipmentAvailable        EquipmentStatus = "available"
	EquipmentPending          EquipmentStatus = "pending" // outstanding, unapproved loan request
	EquipmentLoaned           EquipmentStatus = "loaned"
	EquipmentUnderMaintenance EquipmentStatus = "under_maintenance"
)

// Valid reports whether s is one of the four equipment statuses.
func (s EquipmentStatus) Valid() bool {
	switch s {
	case EquipmentAvailable, EquipmentPending, EquipmentLoaned, EquipmentUnderMaintenance:
		return true
	}
	return false
}

// Equipment is an asset as returned by the backend.
type Equipment struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Type        EquipmentType   `json:"type"`
	Status      EquipmentStatus `json:"status"`
	Description string          `json:"description,omitempty"`
	CreatedAt   *Timestamp      `json:"created_at,omitempty"`
}

// NewEquipment is the payload of POST /equipments.
type NewEquipment struct {
	Name        string          `json:"name" form:"name" binding:"required,max=120"`
	Type        EquipmentType   `json:"type" form:"type" binding:"required,oneof=laptop projector tablet camera"`
	Status      EquipmentStatus `json:"status" form:"status" binding:"required,oneof=available loaned under_maintenance"`
	Description string          `json:"description" form:"description"`
}

// EquipmentUpdate is the payload of PUT /equipments/:id. Empty fields are
// left unchanged by the backend.
type EquipmentUpdate struct {
	Name        string          `json:"name,omitempty" form:"name" binding:"omitempty,max=120"`
	Type        EquipmentType   `json:"type,omitempty" form:"type" binding:"omitempty,oneof=laptop projector tablet camera"`
	Status      EquipmentStatus `json:"status,omitempty" form:"status" binding:"omitempty,oneof=available pending loaned under_maintenance"`
	Description string          `json:"description,omitempty" form:"description"`
}
