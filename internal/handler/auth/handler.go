package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/afpthedev/smyapp/internal/handler"
	"github.com/afpthedev/smyapp/pkg/auth"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/httputil"
)

// Account is the caller as resolved from the bearer token.
type Account struct {
	ID          *int64   `json:"id,omitempty"`
	Login       string   `json:"login"`
	Authorities []string `json:"authorities"`
	Admin       bool     `json:"admin"`
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/account", h.GetAccount)
}

func (h *Handler) GetAccount(c *gin.Context) {
	actor := auth.ActorFromContext(c.Request.Context())
	if actor == nil {
		handler.Fail(c, errors.Unauthenticated("current user could not be resolved"))
		return
	}

	authorities := actor.Authorities
	if authorities == nil {
		authorities = []string{}
	}
	httputil.RespondWithSuccess(c, http.StatusOK, Account{
		ID:          actor.ID,
		Login:       actor.Login,
		Authorities: authorities,
		Admin:       actor.IsAdmin(),
	})
}
