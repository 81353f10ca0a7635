package domain

// Role is the numeric account role returned by a login.
type Role int

const (
	// RoleUnknown is the zero value; never assigned to a stored account.
	RoleUnknown Role = iota
	// RoleTeacher can list, create and delete lessons.
	RoleTeacher
	// RoleStudent views lessons.
	RoleStudent
)

func (r Role) String() string {
	switch r {
	case RoleTeacher:
		return "teacher"
	case RoleStudent:
		return "student"
	default:
		return "unknown"
	}
}

// User is a stored account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
}

// LoginResult is what a successful login yields.
type LoginResult struct {
	Role Role
	Name string
}
