package response

import (
	"github.com/gin-gonic/gin"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"
	domainerrors "ideagraph.backend/internal/domain/errors"
	"ideagraph.backend/pkg/logger"
)

// Success sends data wrapped in the {"data": ...} envelope
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data})
}

// Error maps err onto the error taxonomy and sends it in the {"errors": [...]}
// envelope. Errors outside the taxonomy are logged and replaced by a generic message.
func Error(c *gin.Context, err error) {
	appErr, known := domainerrors.FromError(err)
	if !known {
		logger.Error(c.Request.Context(), "Unhandled error",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
	}

	extensions := map[string]interface{}{"code": appErr.Code}
	if len(appErr.Fields) > 0 {
		extensions["fields"] = appErr.Fields
	}
	ErrorWithError(c, appErr.Status, &gqlerror.Error{Message: appErr.Message, Extensions: extensions})
}

// ErrorWithError sends pre-built envelope entries with a specific status
func ErrorWithError(c *gin.Context, status int, errs ...*gqlerror.Error) {
	c.AbortWithStatusJSON(status, gin.H{"errors": gqlerror.List(errs)})
}

// Coded builds an envelope entry carrying only a code
func Coded(code, message string) *gqlerror.Error {
	return &gqlerror.Error{Message: message, Extensions: map[string]interface{}{"code": code}}
}
