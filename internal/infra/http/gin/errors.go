package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"aptcatalog/internal/domain/shared/faults"
)

const routeNotFoundMessage = "Route not found"

func statusFor(kind faults.Kind) int {
	switch kind {
	case faults.KindValidation:
		return http.StatusBadRequest
	case faults.KindNotFound:
		return http.StatusNotFound
	case faults.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ...} with the status of its kind.
// Server-side failures are logged here and nowhere else.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	kind := faults.KindOf(err)
	status := statusFor(kind)
	body := gin.H{"error": faults.Public(err)}
	if details := faults.FieldsOf(err); len(details) > 0 {
		body["details"] = details
	}
	if logger != nil {
		attrs := []any{"error", err, "kind", string(kind), "path", c.FullPath(), "request_id", c.GetString("request_id")}
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request.Context(), "request failed", attrs...)
		} else {
			logger.DebugContext(c.Request.Context(), "request rejected", attrs...)
		}
	}
	c.AbortWithStatusJSON(status, body)
}

func routeNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": routeNotFoundMessage})
}
