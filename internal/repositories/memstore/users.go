package memstore

import (
	"context"
	"slices"
	"time"

	"gestionale/internal/models"
	"gestionale/internal/repositories"

	"github.com/google/uuid"
)

type UserStore struct{ s *Store }

func (st *UserStore) Create(ctx context.Context, user *models.User) error {
	if err := st.s.wait(ctx); err != nil {
		return err
	}
	user.Prepare()
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	return st.insert(user)
}

func (st *UserStore) CreateFirst(ctx context.Context, user *models.User) (bool, error) {
	if err := st.s.wait(ctx); err != nil {
		return false, err
	}
	user.Prepare()
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if len(st.s.users) > 0 {
		return false, nil
	}
	return true, st.insert(user)
}

// insert must be called with the write lock held.
func (st *UserStore) insert(user *models.User) error {
	for _, u := range st.s.users {
		if u.ID == user.ID || u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	saved := *user
	saved.Password = ""
	st.s.users[user.ID] = saved
	return nil
}

func (st *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if err := st.s.wait(ctx); err != nil {
		return nil, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	u, ok := st.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (st *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := st.s.wait(ctx); err != nil {
		return nil, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	for _, u := range st.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (st *UserStore) List(ctx context.Context) ([]models.User, error) {
	if err := st.s.wait(ctx); err != nil {
		return nil, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	out := make([]models.User, 0, len(st.s.users))
	for _, u := range st.s.users {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b models.User) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (st *UserStore) Count(ctx context.Context) (int, error) {
	if err := st.s.wait(ctx); err != nil {
		return 0, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	return len(st.s.users), nil
}

func (st *UserStore) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if err := st.s.wait(ctx); err != nil {
		return err
	}
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	u, ok := st.s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.LastLoginAt = &at
	st.s.users[id] = u
	return nil
}

// RevocationStore is the in-process replacement for the redis blacklist.
// Expired entries are dropped lazily.
type RevocationStore struct{ s *Store }

func (st *RevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	now := st.s.now()
	for id, exp := range st.s.revoked {
		if !exp.After(now) {
			delete(st.s.revoked, id)
		}
	}
	if _, ok := st.s.revoked[jti]; ok {
		return false, nil
	}
	st.s.revoked[jti] = now.Add(ttl)
	return true, nil
}

func (st *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	exp, ok := st.s.revoked[jti]
	return ok && exp.After(st.s.now()), nil
}
