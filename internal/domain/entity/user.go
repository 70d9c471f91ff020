package entity

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is the aggregate root for accounts. Passwords are bcrypt hashes.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	Role      Role
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
