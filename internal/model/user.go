package model

// Role is the closed set of dashboard roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleTeacher, RoleStudent}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// User is a dashboard user. The password is write-only and never decoded.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NewUser is the payload of POST /users.
type NewUser struct {
	Name     string `json:"name" form:"name" binding:"required,max=120"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	Role     Role   `json:"role" form:"role" binding:"required,oneof=admin teacher student"`
}

// UserUpdate is the payload of PUT /users/:id. Empty fields are left
// unchanged; passwords are not changed through it.
type UserUpdate struct {
	Name  string `json:"name,omitempty" form:"name" binding:"omitempty,max=120"`
	Email string `json:"email,omitempty" form:"email" binding:"omitempty,email"`
	Role  Role   `json:"role,omitempty" form:"role" binding:"omitempty,oneof=admin teacher student"`
}

// Credentials is the payload of POST /auth/login.
type Credentials struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}
