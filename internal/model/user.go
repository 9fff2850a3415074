package model

import "time"

// Role values stored in users.role and embedded in session tokens.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole reports whether r is one of the known role names.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleUser
}

// User mirrors the `users` table. DeletedAt marks soft deletion: a row with
// a non-nil DeletedAt is invisible to every lookup and uniqueness check but
// is never physically removed.
//
// Fields:
//
//	ID             – primary key identifier of the user.
//	Name           – display name.
//	Email          – unique email address among non-deleted rows.
//	PasswordDigest – hashed password; never serialized toward a client.
//	Role           – "admin" or "user".
//	CreatedAt      – timestamp of creation.
//	UpdatedAt      – timestamp of last update.
//	DeletedAt      – soft-deletion timestamp (nil while active).
type User struct {
	ID             int64      // users.id
	Name           string     // users.name
	Email          string     // users.email
	PasswordDigest string     // users.password
	Role           string     // users.role
	CreatedAt      time.Time  // users.created_at
	UpdatedAt      time.Time  // users.updated_at
	DeletedAt      *time.Time // users.deleted_at (nullable)
}

// PublicUser is the client-facing projection of a User. It is the only user
// shape handlers may serialize; the password digest has no JSON
// representation anywhere in the codebase.
type PublicUser struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public converts a stored user into its client-facing projection.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
