package customer

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/afpthedev/smyapp/internal/handler"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/service/customer"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/httputil"
)

// SummaryProvider serves the cached reservation summary of a customer.
type SummaryProvider interface {
	CustomerSummary(ctx context.Context, customerID int64) (*model.CustomerReservationSummary, error)
}

type Handler struct {
	handler.BaseHandler
	service   *customer.Service
	summaries SummaryProvider
}

func NewHandler(base handler.BaseHandler, service *customer.Service, summaries SummaryProvider) *Handler {
	return &Handler{BaseHandler: base, service: service, summaries: summaries}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, admin gin.HandlerFunc) {
	customers := r.Group("/customers")
	{
		customers.POST("", h.Create)
		customers.GET("", h.List)
		customers.GET("/:id", h.Get)
		customers.GET("/:id/reservation-summary", admin, h.ReservationSummary)
		customers.PUT("/:id", h.Update)
		customers.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CustomerRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}
	if req.ID != nil {
		handler.Fail(c, errors.BadRequest("a new customer cannot already have an id", nil))
		return
	}

	cust, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, cust)
}

// List pages customers, or looks one up when ?email= is given.
func (h *Handler) List(c *gin.Context) {
	if email := c.Query("email"); email != "" {
		cust, err := h.service.FindByEmail(c.Request.Context(), email)
		if err != nil {
			handler.Fail(c, err)
			return
		}
		httputil.RespondWithList(c, []*model.Customer{cust}, 1)
		return
	}

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

func (h *Handler) Get(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	cust, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, cust)
}

func (h *Handler) ReservationSummary(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	summary, err := h.summaries.CustomerSummary(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, summary)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	var req model.CustomerRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}
	if err := handler.CheckBodyID(id, req.ID); err != nil {
		handler.Fail(c, err)
		return
	}

	cust, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, cust)
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
