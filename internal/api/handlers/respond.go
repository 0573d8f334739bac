package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/mbozhik/pickmy/pkg/errors"
)

// respondError maps typed service errors to HTTP status codes. Anything
// unrecognized is a 500 with the detail kept out of the response body.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *apperrors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
	case *apperrors.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": e.Error()})
	case *apperrors.ErrValidation:
		resp := gin.H{"error": e.Error()}
		if len(e.Fields) > 0 {
			resp["fields"] = e.Fields
		}
		c.JSON(http.StatusBadRequest, resp)
	case *apperrors.ErrMalformedToken:
		c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
	case *apperrors.ErrConflict:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *apperrors.ErrInvalidStateTransition:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *apperrors.ErrInvalidPaymentTransition:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	default:
		logger.Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
