package model

import (
	"github.com/lib/pq"
)

const (
	AuthorityAdmin = "ROLE_ADMIN"
	AuthorityUser  = "ROLE_USER"
)

// User is an account known to the identity provider. Credentials are not
// stored here; tokens are issued elsewhere and only validated by this API.
type User struct {
	Base
	Login       string         `db:"login" json:"login"`
	Email       string         `db:"email" json:"email"`
	FirstName   *string        `db:"first_name" json:"first_name,omitempty"`
	LastName    *string        `db:"last_name" json:"last_name,omitempty"`
	Activated   bool           `db:"activated" json:"activated"`
	Authorities pq.StringArray `db:"authorities" json:"authorities"`
}

func (u *User) HasAuthority(authority string) bool {
	for _, a := range u.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}
