package middleware

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/filter"
	"github.com/afpthedev/smyapp/pkg/httputil"
	"github.com/afpthedev/smyapp/pkg/validator"
)

// ErrorHandler writes the last error recorded with c.Error as the error
// envelope and logs every recorded error.
func ErrorHandler(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		traceID := c.GetString(ContextRequestID)
		err := translate(c.Errors.Last().Err)
		status := http.StatusInternalServerError
		if appErr, ok := errors.As(err); ok {
			status = appErr.StatusCode()
		}

		event := log.Warn()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Err(err).
			Str("trace_id", traceID).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Msg("Request error")

		if c.Writer.Written() {
			return
		}
		httputil.RespondWithError(c, err, traceID)
	}
}

// translate turns binding and query parsing failures into client errors.
func translate(err error) error {
	if _, ok := errors.As(err); ok {
		return err
	}
	if fields, ok := validator.FieldErrors(err); ok {
		return errors.NewValidation("validation failed", fields)
	}
	if stderrors.Is(err, filter.ErrInvalidParam) ||
		stderrors.Is(err, filter.ErrUnknownField) ||
		stderrors.Is(err, filter.ErrTypeMismatch) {
		return errors.BadRequest(err.Error(), err)
	}
	return err
}
