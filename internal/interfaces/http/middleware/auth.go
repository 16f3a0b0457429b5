package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	domainerrors "ideagraph.backend/internal/domain/errors"
	"ideagraph.backend/internal/interfaces/http/response"
	"ideagraph.backend/pkg/jwt"
	"ideagraph.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// AccountIDKey is the context key for the account ID
	AccountIDKey = "account_id"
	// ProfileIDKey is the context key for the profile ID
	ProfileIDKey = "profile_id"
	// VerifiedKey is the context key for the verified claim
	VerifiedKey = "verified"
	// BearerKey is the context key for the raw access token
	BearerKey = "bearer"
)

// AuthMiddleware requires a valid access token
func AuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		if !present {
			response.Error(c, domainerrors.ErrUnauthenticated)
			return
		}
		if err := authenticate(c, jwtService, token); err != nil {
			response.Error(c, err)
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the viewer when a token is sent. A token
// that is sent but invalid is still rejected.
func OptionalAuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		if present {
			if err := authenticate(c, jwtService, token); err != nil {
				response.Error(c, err)
				return
			}
		}
		c.Next()
	}
}

// RequireVerified rejects accounts that have not confirmed a contact channel
func RequireVerified() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(VerifiedKey) {
			response.Error(c, domainerrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthorizationHeader)
	if header == "" {
		return "", false
	}
	return strings.TrimPrefix(header, BearerPrefix), true
}

func authenticate(c *gin.Context, jwtService *jwt.JWTService, token string) error {
	claims, err := jwtService.ValidateToken(token)
	if err != nil {
		logger.Debug(c.Request.Context(), "Access token rejected")
		if errors.Is(err, jwt.ErrExpiredToken) {
			return domainerrors.ErrTokenExpired
		}
		return domainerrors.ErrInvalidToken
	}
	accountID, err := claims.AccountID()
	if err != nil {
		return domainerrors.ErrInvalidToken
	}

	c.Set(AccountIDKey, accountID)
	c.Set(ProfileIDKey, claims.ProfileID)
	c.Set(VerifiedKey, claims.Verified)
	c.Set(BearerKey, token)

	ctx := context.WithValue(c.Request.Context(), logger.ProfileIDKey, claims.ProfileID.String())
	c.Request = c.Request.WithContext(ctx)
	return nil
}

// GetAccountID gets the account ID from context
func GetAccountID(c *gin.Context) (uuid.UUID, bool) {
	id, exists := c.Get(AccountIDKey)
	if !exists {
		return uuid.Nil, false
	}
	return id.(uuid.UUID), true
}

// GetProfileID gets the profile ID from context
func GetProfileID(c *gin.Context) (uuid.UUID, bool) {
	id, exists := c.Get(ProfileIDKey)
	if !exists {
		return uuid.Nil, false
	}
	return id.(uuid.UUID), true
}

// Viewer returns the caller's profile ID, or uuid.Nil for anonymous requests
func Viewer(c *gin.Context) uuid.UUID {
	id, _ := GetProfileID(c)
	return id
}

// GetBearer returns the access token the caller authenticated with
func GetBearer(c *gin.Context) string {
	return c.GetString(BearerKey)
}
