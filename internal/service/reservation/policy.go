package reservation

import (
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/pkg/auth"
	"github.com/afpthedev/smyapp/pkg/errors"
)

// resolveOwner decides which user a reservation is assigned to. Without a
// requested owner the actor owns it; only admins may name someone else.
func resolveOwner(requested *int64, actor *auth.Actor) (*int64, error) {
	if requested == nil {
		if actor == nil || actor.ID == nil {
			return nil, errors.Unauthenticated("current user could not be resolved")
		}
		id := *actor.ID
		return &id, nil
	}

	if actor.IsAdmin() {
		id := *requested
		return &id, nil
	}
	if actor == nil || actor.ID == nil {
		return nil, errors.Unauthenticated("current user could not be resolved")
	}
	if *actor.ID == *requested {
		id := *requested
		return &id, nil
	}
	return nil, errors.PermissionDenied("reservations can only be assigned to your own account")
}

// assertAccessible reports PermissionDenied unless actor is an admin or owns r.
func assertAccessible(r *model.Reservation, actor *auth.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor == nil || actor.ID == nil || r.UserID == nil || *r.UserID != *actor.ID {
		return errors.PermissionDenied("you are not allowed to access this reservation")
	}
	return nil
}
