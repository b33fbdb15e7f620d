package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/filter"
)

// UserRepository is seeded with Add; users are provisioned elsewhere.
type UserRepository struct {
	rows *store[model.User]
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository(users ...*model.User) *UserRepository {
	r := &UserRepository{rows: newStore(
		func(u *model.User) *int64 { return &u.ID },
		nil,
		map[string]field[model.User]{},
	)}
	for _, u := range users {
		r.Add(u)
	}
	return r
}

// Add stores u under its own id, or the next free id when u.ID is zero.
func (r *UserRepository) Add(u *model.User) {
	r.rows.mu.Lock()
	defer r.rows.mu.Unlock()

	if u.ID == 0 {
		r.rows.seq++
		u.ID = r.rows.seq
	}
	r.rows.seq = max(r.rows.seq, u.ID)
	r.rows.rows[u.ID] = r.rows.clone(u)
}

func (r *UserRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := r.rows.get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	all, err := r.rows.match(ctx, filter.Spec{})
	if err != nil {
		return nil, err
	}
	for _, u := range all {
		if u.Login == strings.ToLower(login) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("failed to get user by login: %w", repository.ErrNotFound)
}
