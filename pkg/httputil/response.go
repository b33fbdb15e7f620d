package httputil

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/afpthedev/smyapp/pkg/errors"
)

// TotalCountHeader carries the unpaged row count of list responses.
const TotalCountHeader = "X-Total-Count"

// Response wraps all successful API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	TraceID string            `json:"trace_id,omitempty"`
}

// RespondWithSuccess sends data in the success envelope
func RespondWithSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Status: "success",
		Data:   data,
	})
}

// RespondWithList sends one page of data and the total row count
func RespondWithList(c *gin.Context, data interface{}, total int64) {
	c.Header(TotalCountHeader, strconv.FormatInt(total, 10))
	RespondWithSuccess(c, http.StatusOK, data)
}

// RespondWithError sends err in the error envelope. Errors that are not an
// AppError are reported as internal without their message.
func RespondWithError(c *gin.Context, err error, traceID string) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.Internal(err)
	}
	status := appErr.StatusCode()
	message := appErr.Message
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Code:    status,
		Message: message,
		Fields:  appErr.Fields,
		TraceID: traceID,
	})
}
