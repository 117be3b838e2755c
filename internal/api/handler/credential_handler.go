package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpbaz28/Banking-API/internal/api/dto"
	"github.com/jpbaz28/Banking-API/internal/api/middleware"
	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/service"
)

// CredentialHandler manages the machine identities used by the client_credentials grant
type CredentialHandler struct {
	authService *service.AuthService
}

func NewCredentialHandler(authService *service.AuthService) *CredentialHandler {
	return &CredentialHandler{
		authService: authService,
	}
}

// CreateCredential handles POST /credentials
func (h *CredentialHandler) CreateCredential(c *gin.Context) {
	var req dto.CreateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	credential, secret, err := h.authService.CreateCredential(c.Request.Context(), req.Label, req.Scopes)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CredentialCreateResponse{
		CredentialResponse: toCredentialResponse(credential),
		Secret:             secret, // Only shown on creation!
	})
}

// ListCredentials handles GET /credentials
func (h *CredentialHandler) ListCredentials(c *gin.Context) {
	credentials, err := h.authService.ListCredentials(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	response := dto.CredentialListResponse{
		Items: make([]dto.CredentialResponse, len(credentials)),
	}
	for i, credential := range credentials {
		response.Items[i] = toCredentialResponse(credential)
	}

	c.JSON(http.StatusOK, response)
}

// UpdateCredential handles PUT /credentials/:id
func (h *CredentialHandler) UpdateCredential(c *gin.Context) {
	var req dto.UpdateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	credential, err := h.authService.UpdateCredential(c.Request.Context(), c.Param("id"), req.Label, req.Scopes)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCredentialResponse(credential))
}

// DeleteCredential handles DELETE /credentials/:id
func (h *CredentialHandler) DeleteCredential(c *gin.Context) {
	if err := h.authService.DeleteCredential(c.Request.Context(), c.Param("id")); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func toCredentialResponse(credential *domain.Credential) dto.CredentialResponse {
	return dto.CredentialResponse{
		ID:        credential.ID,
		Label:     credential.Label,
		Scopes:    credential.Scopes,
		CreatedAt: credential.CreatedAt,
		UpdatedAt: credential.UpdatedAt,
	}
}
