package domain

// Role is the closed set of actor roles. Roles do not form a hierarchy; every
// permission check is an explicit predicate on the role value.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleCommander Role = "BASE_COMMANDER"
	RoleLogistics Role = "LOGISTICS_OFFICER"
)

// ParseRole maps a raw claim value to a Role. Unknown values yield an invalid
// Role, which scopes to the empty movement set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleCommander, RoleLogistics:
		return Role(s), true
	}
	return Role(s), false
}

// Valid reports whether the role is one of the recognized values.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// Actor is the authenticated caller as resolved by the auth layer. The ledger
// never loads users itself; it only consumes this value per request.
type Actor struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	Role           Role   `json:"role"`
	HomeLocationID *uint  `json:"home_location_id,omitempty"`
}

// IsAdmin checks if the actor has the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// homeLocation returns the actor's home location id, or 0 if unset.
func (a Actor) homeLocation() uint {
	if a.HomeLocationID == nil {
		return 0
	}
	return *a.HomeLocationID
}

// CanSee reports whether a movement is visible to the actor. Admins see
// everything; commanders see movements touching their home location;
// logistics officers additionally only see purchases and transfers.
// Actors with an unrecognized role see nothing.
func (a Actor) CanSee(m *Movement) bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleCommander:
		return m.TouchesLocation(a.homeLocation())
	case RoleLogistics:
		if !m.TouchesLocation(a.homeLocation()) {
			return false
		}
		return m.Type == MovementPurchase || m.Type == MovementTransfer
	}
	return false
}

// MetricsScope returns the location the actor's dashboard aggregates over.
// A nil location means system-wide scope (admin).
func (a Actor) MetricsScope() *uint {
	if a.Role == RoleAdmin {
		return nil
	}
	home := a.homeLocation()
	return &home
}
