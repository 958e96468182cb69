package user

// Role is the closed set of roles the system recognizes. Authorization decisions
// go through the capability predicates below rather than ad-hoc membership checks.
type Role string

const (
	RoleUser           Role = "user"
	RoleStaff          Role = "staff"
	RoleLabTechnician  Role = "lab_technician"
	RoleXrayTechnician Role = "xray_technician"
	RoleLocalAdmin     Role = "local_admin"
	RoleAdmin          Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleStaff, RoleLabTechnician, RoleXrayTechnician, RoleLocalAdmin, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsGlobalAdmin reports whether the role carries system-wide authority.
func (r Role) IsGlobalAdmin() bool {
	return r == RoleAdmin
}

// CanOperateLab reports whether the role acts on bookings within an assigned
// lab's scope. This covers lab operators and the lab manager.
func (r Role) CanOperateLab() bool {
	switch r {
	case RoleStaff, RoleLabTechnician, RoleXrayTechnician, RoleLocalAdmin:
		return true
	default:
		return false
	}
}

// IsPatient reports whether the role is confined to bookings it owns.
func (r Role) IsPatient() bool {
	return r == RoleUser
}
