package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devstack-id/fullstack-api/internal/domain"
)

// Detail is the error envelope for every failing request.
type Detail struct {
	Detail string `json:"detail"`
}

// List wraps collection responses.
type List[T any] struct {
	Data  []T   `json:"data"`
	Count int64 `json:"count"`
}

func Err(c *gin.Context, status int, detail string) {
	c.JSON(status, Detail{Detail: detail})
}

func AbortErr(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, Detail{Detail: detail})
}

// FromError maps domain sentinel errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic detail so internals never leak.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		Err(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrPermissionDenied):
		Err(c, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		Err(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrInactiveUser):
		Err(c, http.StatusBadRequest, err.Error())
	default:
		Err(c, http.StatusInternalServerError, "internal server error")
	}
}
