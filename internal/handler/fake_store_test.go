package handler

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/naruebet/account-portal/internal/model"
	"github.com/naruebet/account-portal/internal/repository"
)

// fakeStore is an in-memory UserStore with the same visibility semantics as
// the MySQL repository: soft-deleted rows exist in storage but never match
// a lookup or uniqueness check.
type fakeStore struct {
	users  map[int64]model.User
	nextID int64
	err    error // when set, every call fails with it
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[int64]model.User), nextID: 1}
}

func (f *fakeStore) add(u model.User) model.User {
	if u.ID == 0 {
		u.ID = f.nextID
	}
	if u.ID >= f.nextID {
		f.nextID = u.ID + 1
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.DeletedAt == nil && u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeStore) FindByID(_ context.Context, id int64) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok || u.DeletedAt != nil {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.DeletedAt == nil && u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Insert(ctx context.Context, name, email, digest, role string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	taken, _ := f.EmailTaken(ctx, email, 0)
	if taken {
		return 0, repository.ErrEmailExists
	}
	now := time.Now()
	u := f.add(model.User{
		Name:           name,
		Email:          strings.ToLower(strings.TrimSpace(email)),
		PasswordDigest: digest,
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	return u.ID, nil
}

func (f *fakeStore) List(_ context.Context, excludeID int64) ([]model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.User
	for _, u := range f.users {
		if u.DeletedAt == nil && u.ID != excludeID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, id int64, upd repository.UserUpdate) error {
	if f.err != nil {
		return f.err
	}
	if upd.Empty() {
		return repository.ErrEmptyUpdate
	}
	u, ok := f.users[id]
	if !ok || u.DeletedAt != nil {
		return repository.ErrNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*upd.Email))
	}
	if upd.PasswordDigest != nil {
		u.PasswordDigest = *upd.PasswordDigest
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	u.UpdatedAt = time.Now()
	f.users[id] = u
	return nil
}

func (f *fakeStore) SoftDelete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	u, ok := f.users[id]
	if !ok || u.DeletedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	u.DeletedAt = &now
	f.users[id] = u
	return nil
}
