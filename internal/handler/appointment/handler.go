package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/handler"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/service/appointment"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/httputil"
)

type Handler struct {
	handler.BaseHandler
	service *appointment.Service
}

func NewHandler(base handler.BaseHandler, service *appointment.Service) *Handler {
	return &Handler{BaseHandler: base, service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/count", h.CountAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.PATCH("/:id", h.PartialUpdateAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.AppointmentRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}
	if req.ID != nil {
		handler.Fail(c, errors.BadRequest("a new appointment cannot already have an id", nil))
		return
	}

	apt, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, apt)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}

	apt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, apt)
}

// ListAppointments accepts field.operator filters such as title.contains=Doe
// or participantsId.in=1,2 next to the paging parameters.
func (h *Handler) ListAppointments(c *gin.Context) {
	filters, err := criteria.AppointmentCriteriaFromQuery(c.Request.URL.Query())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	page, err := h.Page(c)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	rows, err := h.service.FindByCriteria(c.Request.Context(), filters, page)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	total, err := h.service.CountByCriteria(c.Request.Context(), filters)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithList(c, rows, total)
}

func (h *Handler) CountAppointments(c *gin.Context) {
	filters, err := criteria.AppointmentCriteriaFromQuery(c.Request.URL.Query())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	n, err := h.service.CountByCriteria(c.Request.Context(), filters)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, n)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	var req model.AppointmentRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}
	if err := handler.CheckBodyID(id, req.ID); err != nil {
		handler.Fail(c, err)
		return
	}

	apt, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, apt)
}

func (h *Handler) PartialUpdateAppointment(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	var patch model.AppointmentPatch
	if err := handler.BindJSON(c, &patch); err != nil {
		handler.Fail(c, err)
		return
	}
	if err := handler.CheckBodyID(id, patch.ID); err != nil {
		handler.Fail(c, err)
		return
	}

	apt, err := h.service.PartialUpdate(c.Request.Context(), id, &patch)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, apt)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
