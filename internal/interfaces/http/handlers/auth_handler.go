package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"ideagraph.backend/internal/domain/entities"
	domainerrors "ideagraph.backend/internal/domain/errors"
	"ideagraph.backend/internal/interfaces/http/response"
	"ideagraph.backend/pkg/logger"
)

type authService interface {
	CreateUser(ctx context.Context, input *entities.CreateUserInput) (*entities.AuthResponse, error)
	LoginUser(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	RequestVerification(ctx context.Context, accountID uuid.UUID, channel entities.VerificationChannel) error
	Verify(ctx context.Context, accountID uuid.UUID, channel entities.VerificationChannel, input *entities.VerifyInput) (*entities.AuthResponse, error)
	RequestPasswordReset(ctx context.Context, input *entities.PasswordResetRequest) error
	ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) error
	DeactivateAccount(ctx context.Context, accountID uuid.UUID) error
	Me(ctx context.Context, accountID uuid.UUID) (*entities.Account, *entities.Profile, error)
}

type sessionService interface {
	Refresh(ctx context.Context, refreshToken, address string) (*entities.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type cookieSigner interface {
	Sign(refreshToken string, expiresAt time.Time) (string, error)
	Open(value string) (string, error)
}

// CookieOptions configures the refresh token cookie
type CookieOptions struct {
	Name   string
	Domain string
	Secure bool
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase    authService
	sessionUsecase sessionService
	signer         cookieSigner
	cookie         CookieOptions
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase authService, sessionUsecase sessionService, signer cookieSigner, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{
		authUsecase:    authUsecase,
		sessionUsecase: sessionUsecase,
		signer:         signer,
		cookie:         cookie,
	}
}

type refreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

// CreateUser registers an account and logs the device in
// POST /api/v1/auth/createUser
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var input entities.CreateUserInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}
	input.Device.Address = c.ClientIP()

	resp, err := h.authUsecase.CreateUser(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respondWithSession(c, http.StatusCreated, resp)
}

// LoginUser checks credentials and logs the device in
// POST /api/v1/auth/loginUser
func (h *AuthHandler) LoginUser(c *gin.Context) {
	var input entities.LoginInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}
	input.Device.Address = c.ClientIP()

	resp, err := h.authUsecase.LoginUser(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respondWithSession(c, http.StatusOK, resp)
}

// RefreshToken rotates the refresh token. Mobile clients send it in the body,
// web clients in the signed cookie. Any failure clears the cookie.
// POST /api/v1/auth/refreshToken
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, err := h.presentedToken(c)
	if err != nil {
		h.clearCookie(c)
		response.Error(c, err)
		return
	}

	resp, err := h.sessionUsecase.Refresh(c.Request.Context(), token, c.ClientIP())
	if err != nil {
		h.clearCookie(c)
		response.Error(c, err)
		return
	}
	h.respondWithSession(c, http.StatusOK, resp)
}

// LogoutUser revokes the presented session and clears the cookie
// POST /api/v1/auth/logoutUser
func (h *AuthHandler) LogoutUser(c *gin.Context) {
	token, err := h.presentedToken(c)
	h.clearCookie(c)
	if err == nil {
		if err := h.sessionUsecase.Logout(c.Request.Context(), token); err != nil {
			response.Error(c, err)
			return
		}
	}
	response.Success(c, http.StatusOK, true)
}

// VerifyEmail confirms the email channel
// POST /api/v1/auth/verifyEmail
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	h.verify(c, entities.ChannelEmail)
}

// VerifyPhone confirms the phone channel
// POST /api/v1/auth/verifyPhone
func (h *AuthHandler) VerifyPhone(c *gin.Context) {
	h.verify(c, entities.ChannelPhone)
}

func (h *AuthHandler) verify(c *gin.Context, channel entities.VerificationChannel) {
	accountID, _, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var input entities.VerifyInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.authUsecase.Verify(c.Request.Context(), accountID, channel, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// RequestVerification sends a new code to the chosen channel
// POST /api/v1/auth/requestVerification
func (h *AuthHandler) RequestVerification(c *gin.Context) {
	accountID, _, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var input struct {
		Channel entities.VerificationChannel `json:"channel"`
	}
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.authUsecase.RequestVerification(c.Request.Context(), accountID, input.Channel); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, true)
}

// RequestPasswordReset always succeeds for well-formed input
// POST /api/v1/auth/requestPasswordReset
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var input entities.PasswordResetRequest
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.authUsecase.RequestPasswordReset(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, true)
}

// ResetPassword redeems a reset token
// POST /api/v1/auth/resetPassword
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input entities.ResetPasswordInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.authUsecase.ResetPassword(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}
	h.clearCookie(c)
	response.Success(c, http.StatusOK, true)
}

// DeactivateAccount hides the caller's account and ends all sessions
// POST /api/v1/auth/deactivateAccount
func (h *AuthHandler) DeactivateAccount(c *gin.Context) {
	accountID, _, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.authUsecase.DeactivateAccount(c.Request.Context(), accountID); err != nil {
		response.Error(c, err)
		return
	}
	h.clearCookie(c)
	response.Success(c, http.StatusOK, true)
}

// Me returns the caller's account and profile
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	accountID, _, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	account, profile, err := h.authUsecase.Me(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"account": account, "profile": profile})
}

// presentedToken reads the refresh token from the body or, failing that, the cookie
func (h *AuthHandler) presentedToken(c *gin.Context) (string, error) {
	if c.Request.ContentLength > 0 {
		var input refreshInput
		if err := c.ShouldBindJSON(&input); err == nil && input.RefreshToken != "" {
			return input.RefreshToken, nil
		}
	}

	value, err := c.Cookie(h.cookie.Name)
	if err != nil || value == "" {
		return "", domainerrors.ErrUnauthenticated
	}
	token, err := h.signer.Open(value)
	if err != nil {
		logger.Warn(c.Request.Context(), "Refresh cookie rejected", zap.Error(err))
		return "", domainerrors.ErrInvalidToken
	}
	return token, nil
}

// respondWithSession hands the refresh token to web clients as a cookie and to
// mobile clients in the body
func (h *AuthHandler) respondWithSession(c *gin.Context, status int, resp *entities.AuthResponse) {
	if !resp.Platform.Mobile() {
		value, err := h.signer.Sign(resp.RefreshToken, resp.RefreshExpiresAt)
		if err != nil {
			response.Error(c, err)
			return
		}
		maxAge := int(time.Until(resp.RefreshExpiresAt).Seconds())
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.cookie.Name, value, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
		resp.RefreshToken = ""
	}
	response.Success(c, status, resp)
}

func (h *AuthHandler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
}
