package user

import (
	"strings"
	"time"
)

type Role int

const (
	RoleCustomer Role = 1
	RoleManager  Role = 2
	RoleStaff    Role = 3
	RoleAdmin    Role = 4
)

var roleNames = map[Role]string{
	RoleCustomer: "Customer",
	RoleManager:  "Manager",
	RoleStaff:    "Staff",
	RoleAdmin:    "Admin",
}

func (r Role) String() string {
	return roleNames[r]
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// ParseRole accepts a role name in any letter case.
func ParseRole(name string) (Role, error) {
	name = strings.TrimSpace(name)
	for role, roleName := range roleNames {
		if strings.EqualFold(roleName, name) {
			return role, nil
		}
	}
	return 0, ErrUnknownRole
}

type User struct {
	ID           string     `gorm:"primaryKey;size:32"`
	Username     string     `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:password_hash;type:text"`
	Fullname     string     `gorm:"size:200"`
	Email        *string    `gorm:"size:200;uniqueIndex"`
	Phone        string     `gorm:"size:32"`
	Gender       string     `gorm:"size:16"`
	Address      string     `gorm:"type:text"`
	Birthdate    *time.Time `gorm:"type:date"`
	RoleID       Role       `gorm:"column:role_id;not null"`
	Image        string     `gorm:"type:text"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// PasswordReset is a pending reset code. Only the SHA-256 of the code is kept.
type PasswordReset struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	CodeHash  string    `gorm:"column:code_hash;size:64;uniqueIndex"`
	Username  string    `gorm:"size:100;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}

type ProfileInput struct {
	Fullname  string
	Email     string
	Phone     string
	Gender    string
	Address   string
	Birthdate *time.Time
}

type RegisterInput struct {
	Username string
	Password string
	ProfileInput
}

type CreateInput struct {
	RegisterInput
	Role Role
}

type UpdateInput struct {
	ProfileInput
	Role Role
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

// GoogleIdentity is what a verified Google ID token says about its holder.
type GoogleIdentity struct {
	Email   string
	Name    string
	Picture string
}

// ResetIssue reports how a reset code reached the user. Code is only set
// when mail delivery failed and the fallback is enabled.
type ResetIssue struct {
	Sent      bool
	Code      string
	ExpiresAt time.Time
}
