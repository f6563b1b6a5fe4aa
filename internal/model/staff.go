package model

type StaffRole string

const (
	StaffRoleDoctor       StaffRole = "doctor"
	StaffRoleNurse        StaffRole = "nurse"
	StaffRoleReceptionist StaffRole = "receptionist"
)

// Bookable reports whether patients can book appointments against this role.
func (r StaffRole) Bookable() bool {
	return r == StaffRoleDoctor
}

// Staff is owned by the external staff directory. The scheduling engine only
// reads it, never mutates it.
type Staff struct {
	Base
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	Role        StaffRole `db:"role" json:"role"`
	Specialty   string    `db:"specialty" json:"specialty,omitempty"`
	Department  string    `db:"department" json:"department,omitempty"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
}

type StaffFilters struct {
	Department string
	Role       StaffRole
}
