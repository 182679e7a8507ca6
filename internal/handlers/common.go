package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/RubeldiRubelda/merryweihnachten/internal/models"

	"github.com/gin-gonic/gin"
)

// Type alias so swag can resolve the model in annotations.
type Participant = models.Participant

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type AckResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"operation successful"`
}

// coerceInt converts a loosely typed JSON value to an int. Numbers are
// truncated, numeric strings parsed, everything else is 0 — the same
// tolerance the admin panel has always relied on.
func coerceInt(v interface{}) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func internalError(c *gin.Context, op string, err error) {
	slog.Error("storage failure", "op", op, "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
