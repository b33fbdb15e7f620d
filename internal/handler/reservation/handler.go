package reservation

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/handler"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/service/reservation"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/httputil"
)

const (
	defaultUpcomingSize = 5
	xlsxContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Handler struct {
	handler.BaseHandler
	service *reservation.Service
}

func NewHandler(base handler.BaseHandler, service *reservation.Service) *Handler {
	return &Handler{BaseHandler: base, service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, admin gin.HandlerFunc) {
	reservations := r.Group("/reservations")
	{
		reservations.POST("", h.Create)
		reservations.GET("", admin, h.List)
		reservations.GET("/my", h.ListMine)
		reservations.GET("/report", admin, h.Report)
		reservations.GET("/report/export", admin, h.ExportReport)
		reservations.GET("/upcoming", admin, h.Upcoming)
		reservations.GET("/customer/:customerId", admin, h.ListByCustomer)
		reservations.GET("/:id", h.Get)
		reservations.PUT("/:id", h.Update)
		reservations.PATCH("/:id", h.PartialUpdate)
		reservations.POST("/:id/approve", h.Approve)
		reservations.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.ReservationRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}
	if req.ID != nil {
		handler.Fail(c, errors.BadRequest("a new reservation cannot already have an id", nil))
		return
	}

	r, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.Header("Location", "/api/reservations/"+strconv.FormatInt(r.ID, 10))
	httputil.RespondWithSuccess(c, http.StatusCreated, r)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	var req model.ReservationRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}
	if err := handler.CheckBodyID(id, req.ID); err != nil {
		handler.Fail(c, err)
		return
	}

	r, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, r)
}

func (h *Handler) PartialUpdate(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	var patch model.ReservationPatch
	if err := handler.BindJSON(c, &patch); err != nil {
		handler.Fail(c, err)
		return
	}
	if err := handler.CheckBodyID(id, patch.ID); err != nil {
		handler.Fail(c, err)
		return
	}

	r, err := h.service.PartialUpdate(c.Request.Context(), id, &patch)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, r)
}

func (h *Handler) Approve(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	var req model.ApproveReservationRequest
	if c.Request.ContentLength != 0 {
		if err := handler.BindJSON(c, &req); err != nil {
			handler.Fail(c, err)
			return
		}
	}

	r, err := h.service.Approve(c.Request.Context(), id, req.Notes)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, r)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	r, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, r)
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

func (h *Handler) ListMine(c *gin.Context) {
	page, err := h.Page(c)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	filters, err := criteria.ReservationFilterFromQuery(c.Request.URL.Query())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	// Scoping is by owner; a customer filter does not apply here.
	rows, total, err := h.service.ListForCurrentUser(c.Request.Context(), filters.WithoutCustomer(), page)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithList(c, rows, total)
}

func (h *Handler) ListByCustomer(c *gin.Context) {
	customerID, err := handler.ParseID(c, "customerId")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	page, err := h.Page(c)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	filters, err := criteria.ReservationFilterFromQuery(c.Request.URL.Query())
	if err != nil {
		handler.Fail(c, err)
		return
	}

	rows, total, err := h.service.ListByCustomer(c.Request.Context(), customerID, filters, page)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithList(c, rows, total)
}

func (h *Handler) Upcoming(c *gin.Context) {
	size := defaultUpcomingSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			handler.Fail(c, errors.BadRequest("size must be a positive integer", err))
			return
		}
		size = min(n, h.MaxPageSize)
	}

	rows, err := h.service.Upcoming(c.Request.Context(), size)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, rows)
}

func (h *Handler) Report(c *gin.Context) {
	filters, err := criteria.ReservationFilterFromQuery(c.Request.URL.Query())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	report, err := h.service.Report(c.Request.Context(), filters)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, report)
}

func (h *Handler) ExportReport(c *gin.Context) {
	filters, err := criteria.ReservationFilterFromQuery(c.Request.URL.Query())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	data, err := h.service.ExportReport(c.Request.Context(), filters)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="reservation-report.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
