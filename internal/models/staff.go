package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role represents staff roles in the portal
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Actions checked by HasPermission.
const (
	ActionViewFleet      = "view_fleet"
	ActionManageFleet    = "manage_fleet"
	ActionDeleteCar      = "delete_car"
	ActionViewBookings   = "view_bookings"
	ActionManageBookings = "manage_bookings"
	ActionDeleteBooking  = "delete_booking"
	ActionManageStaff    = "manage_staff"
)

// Staff represents a portal user working at the rental desk
type Staff struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	FirstName    string             `bson:"firstName" json:"firstName"`
	LastName     string             `bson:"lastName" json:"lastName"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	LastLogin    *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest represents a staff registration request
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Staff        Staff  `json:"staff"`
}

// Claims represents JWT claims
type Claims struct {
	StaffID  string `json:"staffId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Exp      int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleStaff:
		return true
	default:
		return false
	}
}

// HasPermission checks if a staff member may perform an action
func (s *Staff) HasPermission(action string) bool {
	switch s.Role {
	case RoleAdmin:
		return true
	case RoleStaff:
		return action != ActionManageStaff
	default:
		return false
	}
}
