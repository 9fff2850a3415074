package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/naruebet/account-portal/internal/model"
)

const userColumns = "id,name,email,password,role,created_at,updated_at,deleted_at"

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// UserUpdate is a partial update: only non-nil fields reach the UPDATE
// statement, absent fields are left untouched (never nulled).
type UserUpdate struct {
	Name           *string
	Email          *string
	PasswordDigest *string
	Role           *string
}

// Empty reports whether the update carries no fields.
func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.PasswordDigest == nil && u.Role == nil
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordDigest, &u.Role,
		&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// FindByEmail fetches an active user by normalized email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? AND deleted_at IS NULL LIMIT 1",
		email))
}

// FindByID fetches an active user by id.
func (r *UserRepo) FindByID(ctx context.Context, id int64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? AND deleted_at IS NULL LIMIT 1",
		id))
}

// EmailTaken reports whether another active user (any id except excludeID)
// already holds the email. Pass excludeID=0 to check against everyone.
func (r *UserRepo) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var id int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM users WHERE email=? AND id<>? AND deleted_at IS NULL LIMIT 1",
		email, excludeID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Insert creates a user and returns its id. ErrEmailExists when an active
// row already holds the email; a soft-deleted row does not block reuse.
func (r *UserRepo) Insert(ctx context.Context, name, email, digest, role string) (int64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	taken, err := r.EmailTaken(ctx, email, 0)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, ErrEmailExists
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password, role) VALUES (?,?,?,?)",
		name, email, digest, role)
	if err != nil {
		// 1062 = MySQL duplicate key, in case two inserts race past the check
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	return res.LastInsertId()
}

// List returns all active users except excludeID, newest first. The admin
// roster passes the requesting admin's own id so they do not appear in
// their own listing.
func (r *UserRepo) List(ctx context.Context, excludeID int64) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE deleted_at IS NULL AND id<>? ORDER BY created_at DESC",
		excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordDigest, &u.Role,
			&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update applies a partial update to an active user. Only present fields
// enter the SET clause; updated_at always advances. ErrNotFound when the id
// does not reference an active user.
func (r *UserRepo) Update(ctx context.Context, id int64, upd UserUpdate) error {
	if upd.Empty() {
		return ErrEmptyUpdate
	}
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if upd.Name != nil {
		sets = append(sets, "name=?")
		args = append(args, *upd.Name)
	}
	if upd.Email != nil {
		sets = append(sets, "email=?")
		args = append(args, strings.ToLower(strings.TrimSpace(*upd.Email)))
	}
	if upd.PasswordDigest != nil {
		sets = append(sets, "password=?")
		args = append(args, *upd.PasswordDigest)
	}
	if upd.Role != nil {
		sets = append(sets, "role=?")
		args = append(args, *upd.Role)
	}
	args = append(args, id)

	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+", updated_at=NOW() WHERE id=? AND deleted_at IS NULL",
		args...)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks a user deleted by stamping deleted_at. The row stays in
// storage; it just stops matching every lookup. Deleting an already-deleted
// or unknown id yields ErrNotFound.
func (r *UserRepo) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET deleted_at=NOW() WHERE id=? AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
