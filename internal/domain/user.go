package domain

// Role is a flat authorization tag. Roles do not imply one another.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	default:
		return false
	}
}

// User represents an account that can authenticate against the API.
type User struct {
	Base
	Email         string `db:"email"`
	PasswordHash  string `db:"password_hash"`
	FirstName     string `db:"first_name"`
	LastName      string `db:"last_name"`
	PhoneNumber   string `db:"phone_number"`
	Address       string `db:"address"`
	City          string `db:"city"`
	Country       string `db:"country"`
	PostalCode    string `db:"postal_code"`
	Role          Role   `db:"role"`
	EmailVerified bool   `db:"email_verified"`
}

// UserProfile carries the fields a user update may overwrite.
type UserProfile struct {
	FirstName  string
	LastName   string
	Address    string
	City       string
	Country    string
	PostalCode string
}

// Apply overwrites the mutable profile fields of u.
func (p UserProfile) Apply(u *User) {
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.Address = p.Address
	u.City = p.City
	u.Country = p.Country
	u.PostalCode = p.PostalCode
}
