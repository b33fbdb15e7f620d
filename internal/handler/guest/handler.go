package guest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/afpthedev/smyapp/internal/handler"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/service/guest"
	"github.com/afpthedev/smyapp/pkg/httputil"
)

type Handler struct {
	service *guest.Service
}

func NewHandler(service *guest.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the unauthenticated booking endpoint.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/public/reservations", h.Create)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.GuestReservationRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}

	r, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, r)
}
