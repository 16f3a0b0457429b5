package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	domainerrors "ideagraph.backend/internal/domain/errors"
	"ideagraph.backend/internal/interfaces/http/middleware"
	"ideagraph.backend/pkg/utils"
)

// bindJSON decodes the request body. Malformed JSON is reported as a body-level validation failure.
func bindJSON(c *gin.Context, out any) error {
	if err := c.ShouldBindJSON(out); err != nil {
		return domainerrors.Validation("body")
	}
	return nil
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.Validation(name)
	}
	return id, nil
}

func pageParams(c *gin.Context) (utils.PageParams, error) {
	var p utils.PageParams
	if err := c.ShouldBindQuery(&p); err != nil {
		return p, domainerrors.Validation("offset", "limit")
	}
	return utils.GetPageParams(p.Offset, p.Limit), nil
}

func page[T any](items []T, p utils.PageParams) gin.H {
	return gin.H{"items": items, "meta": utils.CalculateMeta(p, len(items))}
}

// caller returns the authenticated account and profile. Routes using it sit behind AuthMiddleware.
func caller(c *gin.Context) (accountID, profileID uuid.UUID, err error) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, domainerrors.ErrUnauthenticated
	}
	profileID, _ = middleware.GetProfileID(c)
	return accountID, profileID, nil
}
