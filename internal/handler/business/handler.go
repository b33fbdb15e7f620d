package business

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/afpthedev/smyapp/internal/handler"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/service/business"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/httputil"
)

type Handler struct {
	handler.BaseHandler
	service *business.Service
}

func NewHandler(base handler.BaseHandler, service *business.Service) *Handler {
	return &Handler{BaseHandler: base, service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	businesses := r.Group("/businesses")
	{
		businesses.POST("", h.Create)
		businesses.GET("", h.List)
		businesses.GET("/:id", h.Get)
		businesses.PUT("/:id", h.Update)
		businesses.PATCH("/:id", h.PartialUpdate)
		businesses.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.BusinessRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}
	if req.ID != nil {
		handler.Fail(c, errors.BadRequest("a new business cannot already have an id", nil))
		return
	}

	b, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, b)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	b, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, b)
}

func (h *Handler) List(c *gin.Context) {
	page, err := h.Page(c)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	rows, total, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithList(c, rows, total)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	var req model.BusinessRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}
	if err := handler.CheckBodyID(id, req.ID); err != nil {
		handler.Fail(c, err)
		return
	}

	b, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, b)
}

func (h *Handler) PartialUpdate(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	var patch model.BusinessPatch
	if err := handler.BindJSON(c, &patch); err != nil {
		handler.Fail(c, err)
		return
	}
	if err := handler.CheckBodyID(id, patch.ID); err != nil {
		handler.Fail(c, err)
		return
	}

	b, err := h.service.PartialUpdate(c.Request.Context(), id, &patch)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, b)
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
