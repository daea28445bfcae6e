package model

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ValidRole reports whether r is one of the known role values.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"` // Password is not included in JSON
	Role      Role      `json:"role" bson:"role"`
	Money     int64     `json:"money" bson:"money"`
	ExpireAt  time.Time `json:"expireAt" bson:"expireat"`
	CreatedAt time.Time `json:"createdAt" bson:"createdat"`
}

func NewUser(email, password string, role Role, money int64, expireAt time.Time) *User {
	if role == "" {
		role = RoleUser
	}
	return &User{
		Email:    email,
		Password: password, // stored as supplied, forwarded to the panel backend
		Role:     role,
		Money:    money,
		ExpireAt: expireAt,
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Expired reports whether the account is past its expiry. A zero expiry
// never expires.
func (u *User) Expired(now time.Time) bool {
	return !u.ExpireAt.IsZero() && u.ExpireAt.Before(now)
}
