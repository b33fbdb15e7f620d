package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/pkg/auth"
	"github.com/afpthedev/smyapp/pkg/errors"
)

func actor(id int64, authorities ...string) *auth.Actor {
	return &auth.Actor{ID: &id, Authorities: authorities}
}

func TestResolveOwner(t *testing.T) {
	tests := []struct {
		name      string
		requested *int64
		actor     *auth.Actor
		want      int64
		code      errors.ErrorCode
	}{
		{"defaults to actor", nil, actor(1), 1, 0},
		{"no actor", nil, nil, 0, errors.ErrUnauthorized},
		{"actor without id", nil, &auth.Actor{Login: "ghost"}, 0, errors.ErrUnauthorized},
		{"own id", ptr(1), actor(1), 1, 0},
		{"someone else", ptr(2), actor(1), 0, errors.ErrForbidden},
		{"admin assigns anyone", ptr(2), actor(1, auth.AuthorityAdmin), 2, 0},
		{"anonymous naming owner", ptr(2), nil, 0, errors.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveOwner(tt.requested, tt.actor)
			if tt.code != 0 {
				assert.True(t, errors.Is(err, tt.code), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestResolveOwnerReturnsCopy(t *testing.T) {
	a := actor(1)
	got, err := resolveOwner(nil, a)
	require.NoError(t, err)
	*got = 5
	assert.Equal(t, int64(1), *a.ID)
}

func TestAssertAccessible(t *testing.T) {
	owned := &model.Reservation{UserID: ptr(1)}
	unowned := &model.Reservation{}

	assert.NoError(t, assertAccessible(owned, actor(1)))
	assert.NoError(t, assertAccessible(unowned, actor(9, auth.AuthorityAdmin)))

	for _, tc := range []struct {
		r *model.Reservation
		a *auth.Actor
	}{
		{owned, actor(2)},
		{owned, nil},
		{unowned, actor(1)},
		{owned, &auth.Actor{Login: "bob"}},
	} {
		assert.True(t, errors.Is(assertAccessible(tc.r, tc.a), errors.ErrForbidden))
	}
}

func ptr(v int64) *int64 { return &v }
