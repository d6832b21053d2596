package domain

import "time"

// Role enumerates caller capabilities. Every operation declares the role set
// allowed to invoke it; the auth package evaluates membership.
type Role string

const (
	RoleUser    Role = "USER"
	RoleSupport Role = "SUPPORT"
	RoleAdmin   Role = "ADMIN"
)

// SupportRoles is the role set for agent-level operations.
var SupportRoles = []Role{RoleSupport, RoleAdmin}

// AdminOnly is the role set for destructive or configuration operations.
var AdminOnly = []Role{RoleAdmin}

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for every principal: reporters, support agents
// and administrators, differentiated by Role.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
