package appointmenttype

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/handler"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/service/appointmenttype"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/httputil"
)

type Handler struct {
	handler.BaseHandler
	service *appointmenttype.Service
}

func NewHandler(base handler.BaseHandler, service *appointmenttype.Service) *Handler {
	return &Handler{BaseHandler: base, service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	types := r.Group("/appointment-types")
	{
		types.POST("", h.Create)
		types.GET("", h.List)
		types.GET("/count", h.Count)
		types.GET("/:id", h.Get)
		types.PUT("/:id", h.Update)
		types.PATCH("/:id", h.PartialUpdate)
		types.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.AppointmentTypeRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}
	if req.ID != nil {
		handler.Fail(c, errors.BadRequest("a new appointment type cannot already have an id", nil))
		return
	}

	t, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, t)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	t, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, t)
}

func (h *Handler) List(c *gin.Context) {
	filters, err := criteria.AppointmentTypeCriteriaFromQuery(c.Request.URL.Query())
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

func (h *Handler) Count(c *gin.Context) {
	filters, err := criteria.AppointmentTypeCriteriaFromQuery(c.Request.URL.Query())
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

func (h *Handler) Update(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	var req model.AppointmentTypeRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}
	if err := handler.CheckBodyID(id, req.ID); err != nil {
		handler.Fail(c, err)
		return
	}

	t, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, t)
}

func (h *Handler) PartialUpdate(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	var patch model.AppointmentTypePatch
	if err := handler.BindJSON(c, &patch); err != nil {
		handler.Fail(c, err)
		return
	}
	if err := handler.CheckBodyID(id, patch.ID); err != nil {
		handler.Fail(c, err)
		return
	}

	t, err := h.service.PartialUpdate(c.Request.Context(), id, &patch)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, t)
}

func (h *Handler) Delete(c *gin.Context) {
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
