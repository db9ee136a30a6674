package domain

import (
	"context"
	"time"
)

// Operator roles. Admins may mutate the catalog and the inventory; viewers
// get the read-only surface.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// ValidRole reports whether r is a known operator role.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleViewer
}

// User is an operator identity. The inventory core only consumes the
// (ID, Role) pair; credential handling stays in the user service and the
// auth adapters.
// swagger:model User
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is set by the
// repository on create.
func NewUser(username, passwordHash, salt, role string, createdAt, updatedAt time.Time) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		Salt:         salt,
		Role:         role,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID int64, username, role string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated identity.
type TokenVerifier interface {
	Verify(token string) (userID int64, role string, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}

// UserService defines operator account management and authentication.
type UserService interface {
	CreateUser(ctx context.Context, username, password, role string) (*User, error)
	// Authenticate verifies credentials and returns the user together with
	// a signed token. Returns ErrInvalidCredentials on any mismatch.
	Authenticate(ctx context.Context, username, password string) (*User, string, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}
