// Package handler holds the request helpers shared by the resource handlers.
package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/filter"
	"github.com/afpthedev/smyapp/pkg/validator"
)

const DefaultPageSize = 20

// BaseHandler carries the paging limits every list endpoint shares.
type BaseHandler struct {
	MaxPageSize int
}

func NewBaseHandler(maxPageSize int) BaseHandler {
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return BaseHandler{MaxPageSize: maxPageSize}
}

// ParseID reads a numeric path parameter.
func ParseID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.BadRequest(fmt.Sprintf("invalid %s %q", name, raw), err)
	}
	return id, nil
}

// CheckBodyID rejects a body id that names another row than the path.
func CheckBodyID(pathID int64, bodyID *int64) error {
	if bodyID != nil && *bodyID != pathID {
		return errors.BadRequest(fmt.Sprintf("body id %d does not match path id %d", *bodyID, pathID), nil)
	}
	return nil
}

// BindJSON decodes and validates the body. Malformed JSON is a bad request and
// failed binding rules a validation error with per-field messages.
func BindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		if fields, ok := validator.FieldErrors(err); ok {
			return errors.NewValidation("validation failed", fields)
		}
		return errors.BadRequest("malformed request body", err)
	}
	return nil
}

func (h BaseHandler) Page(c *gin.Context) (filter.Page, error) {
	page, err := filter.ParsePage(c.Request.URL.Query(), DefaultPageSize, h.MaxPageSize)
	if err != nil {
		return filter.Page{}, errors.BadRequest(err.Error(), err)
	}
	return page, nil
}

// Fail records err for the error middleware and stops the chain.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
