package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gfranca/userhub/internal/apperr"
	"github.com/gin-gonic/gin"
)

// SuccessResponse is the uniform envelope for every successful call.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorResponse is the uniform error envelope; Fields only appears on
// validation failures.
type ErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondSuccess(ctx *gin.Context, status int, message string, data interface{}) {
	ctx.JSON(status, SuccessResponse{
		Message: message,
		Data:    data,
	})
}

// RespondError is the single translation point from business errors to HTTP.
// Handlers hand any error here untouched; unknown errors become a sanitized
// 500 and the cause goes to the log, not the wire.
func RespondError(ctx *gin.Context, err error) {
	if e := apperr.As(err); e != nil {
		if e.Kind == apperr.KindInternal {
			logInternal(ctx, err)

			ctx.JSON(http.StatusInternalServerError, ErrorResponse{
				Message: "Internal server error",
			})
			return
		}

		ctx.JSON(e.Kind.HTTPStatus(), ErrorResponse{
			Message: e.Message,
			Fields:  e.Fields,
		})
		return
	}

	logInternal(ctx, err)

	ctx.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: "Internal server error",
	})
}

func logInternal(ctx *gin.Context, err error) {
	reqID, _ := ctx.Get("request_id")

	slog.Default().ErrorContext(ctx.Request.Context(), "unhandled error",
		"err", err,
		"route", ctx.FullPath(),
		"request_id", reqID,
	)
}
