package finance

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/afpthedev/smyapp/internal/handler"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/service/finance"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/httputil"
)

type Handler struct {
	handler.BaseHandler
	service *finance.Service
}

func NewHandler(base handler.BaseHandler, service *finance.Service) *Handler {
	return &Handler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts the ledger and document routes. upload guards the
// multipart endpoint, typically with a body size limit.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, upload gin.HandlerFunc) {
	entries := r.Group("/finance-entries")
	{
		entries.POST("", h.CreateEntry)
		entries.GET("", h.ListEntries)
		entries.GET("/:id", h.GetEntry)
		entries.PUT("/:id", h.UpdateEntry)
		entries.PATCH("/:id", h.PartialUpdateEntry)
		entries.DELETE("/:id", h.DeleteEntry)
	}

	documents := r.Group("/finance-documents")
	{
		documents.POST("", upload, h.UploadDocument)
		documents.GET("/:id", h.GetDocument)
		documents.GET("/:id/download", h.DownloadDocument)
		documents.DELETE("/:id", h.DeleteDocument)
	}
}

func (h *Handler) CreateEntry(c *gin.Context) {
	var req model.FinanceEntryRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}
	if req.ID != nil {
		handler.Fail(c, errors.BadRequest("a new finance entry cannot already have an id", nil))
		return
	}

	e, err := h.service.CreateEntry(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, e)
}

func (h *Handler) ListEntries(c *gin.Context) {
	page, err := h.Page(c)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	rows, total, err := h.service.ListEntries(c.Request.Context(), page)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithList(c, rows, total)
}

func (h *Handler) GetEntry(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	e, err := h.service.GetEntry(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, e)
}

func (h *Handler) UpdateEntry(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	var req model.FinanceEntryRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}
	if err := handler.CheckBodyID(id, req.ID); err != nil {
		handler.Fail(c, err)
		return
	}

	e, err := h.service.UpdateEntry(c.Request.Context(), id, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, e)
}

func (h *Handler) PartialUpdateEntry(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	var patch model.FinanceEntryPatch
	if err := handler.BindJSON(c, &patch); err != nil {
		handler.Fail(c, err)
		return
	}
	if err := handler.CheckBodyID(id, patch.ID); err != nil {
		handler.Fail(c, err)
		return
	}

	e, err := h.service.PartialUpdateEntry(c.Request.Context(), id, &patch)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, e)
}

func (h *Handler) DeleteEntry(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	if err := h.service.DeleteEntry(c.Request.Context(), id); err != nil {
		handler.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadDocument stores the multipart field "file".
func (h *Handler) UploadDocument(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		handler.Fail(c, errors.BadRequest("multipart field \"file\" is required", err))
		return
	}
	f, err := header.Open()
	if err != nil {
		handler.Fail(c, errors.BadRequest("cannot read uploaded file", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		handler.Fail(c, errors.BadRequest("cannot read uploaded file", err))
		return
	}

	doc, err := h.service.StoreDocument(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, doc)
}

func (h *Handler) GetDocument(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	doc, err := h.service.GetDocument(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, doc)
}

func (h *Handler) DownloadDocument(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	doc, err := h.service.DownloadDocument(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

func (h *Handler) DeleteDocument(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}
	if err := h.service.DeleteDocument(c.Request.Context(), id); err != nil {
		handler.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
