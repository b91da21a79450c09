package domain

// Role identifies the four client categories. The numeric values are part of
// the wire protocol and the on-disk user record; do not renumber.
type Role int32

const (
	RoleCustomer Role = 1
	RoleEmployee Role = 2
	RoleManager  Role = 3
	RoleAdmin    Role = 4
)

// MaxUserID is the upper bound of the addressable user/account id space.
const MaxUserID = 4999

func (r Role) Valid() bool {
	return r >= RoleCustomer && r <= RoleAdmin
}

// IDRange returns the inclusive id range reserved for the role. The ranges
// are disjoint, which is what lets users and accounts share one in-process
// mutex table.
func (r Role) IDRange() (start, end int) {
	switch r {
	case RoleCustomer:
		return 1001, 1999
	case RoleEmployee:
		return 2001, 2999
	case RoleManager:
		return 3001, 3999
	case RoleAdmin:
		return 4001, 4999
	default:
		return 0, 0
	}
}

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RoleEmployee:
		return "employee"
	case RoleManager:
		return "manager"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// User models an actor in the system. ID doubles as the record's slot index
// in the user file; Username is the decimal form of ID.
type User struct {
	ID           int
	Role         Role
	Username     string
	PasswordHash string
	Name         string
	Active       bool
}
