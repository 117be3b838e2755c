package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpbaz28/Banking-API/internal/api/dto"
	"github.com/jpbaz28/Banking-API/internal/api/middleware"
	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/service"
)

const (
	grantAuthorizationCode = "authorization_code"
	grantClientCredentials = "client_credentials"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// authFailed answers rejected credentials with 401. Store failures keep their own status.
func authFailed(c *gin.Context, err error, message string) {
	if !domain.IsKind(err, domain.KindInvalidInput) && !domain.IsKind(err, domain.KindNotFound) {
		middleware.AbortWithError(c, err)
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error:   "Unauthorized",
		Message: message,
		Code:    http.StatusUnauthorized,
	})
}

// Authorize handles POST /auth/authorize
//
//	@Summary	Exchange operator credentials for an authorization code
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		credentials	body		dto.AuthorizeRequest	true	"Credentials"
//	@Success	200			{object}	dto.AuthorizeResponse
//	@Failure	401			{object}	dto.ErrorResponse
//	@Router		/auth/authorize [post]
func (h *AuthHandler) Authorize(c *gin.Context) {
	var req dto.AuthorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	authCode, err := h.authService.AuthorizeUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		authFailed(c, err, "Invalid credentials")
		return
	}

	c.JSON(http.StatusOK, dto.AuthorizeResponse{
		Code: authCode.Code,
	})
}

// Token handles POST /auth/token
//
//	@Summary	Issue an access token
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.TokenRequest	true	"Grant"
//	@Success	200		{object}	dto.TokenResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Failure	401		{object}	dto.ErrorResponse
//	@Router		/auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	var token string
	var err error

	switch req.GrantType {
	case grantAuthorizationCode:
		if req.Code == "" {
			badRequest(c, "code is required for authorization_code grant type")
			return
		}

		token, err = h.authService.ExchangeAuthCode(c.Request.Context(), req.Code)
		if err != nil {
			authFailed(c, err, "Invalid or expired authorization code")
			return
		}

	case grantClientCredentials:
		if req.ClientID == "" || req.ClientSecret == "" {
			badRequest(c, "client_id and client_secret are required for client_credentials grant type")
			return
		}

		token, err = h.authService.AuthenticateCredential(c.Request.Context(), req.ClientID, req.ClientSecret)
		if err != nil {
			authFailed(c, err, "Invalid client credentials")
			return
		}

	default:
		badRequest(c, "Invalid grant_type. Must be 'authorization_code' or 'client_credentials'")
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(service.TokenTTL.Seconds()),
	})
}
