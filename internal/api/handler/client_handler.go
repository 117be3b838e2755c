package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jpbaz28/Banking-API/internal/api/dto"
	"github.com/jpbaz28/Banking-API/internal/api/middleware"
	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
	"github.com/jpbaz28/Banking-API/internal/core/service"
)

type ClientHandler struct {
	clientService *service.ClientService
}

func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
	}
}

// CreateClient handles POST /clients
//
//	@Summary	Create a client
//	@Tags		clients
//	@Accept		json
//	@Produce	json
//	@Param		client	body		dto.ClientRequest	true	"Client"
//	@Success	201		{object}	dto.ClientResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Failure	409		{object}	dto.ErrorResponse
//	@Router		/clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req dto.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req.FirstName, req.LastName, toAccounts(req.Accounts))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toClientResponse(client))
}

// ListClients handles GET /clients
//
//	@Summary	List clients
//	@Tags		clients
//	@Produce	json
//	@Param		query		query		string	false	"Filters, e.g. lname|Bono"
//	@Param		order		query		string	false	"Ordering, e.g. fname|asc"
//	@Param		page		query		int		false	"Page"
//	@Param		per_page	query		int		false	"Page size"
//	@Description	Returns a bare array unless page or per_page is given, in which case
//	@Description	the array is wrapped with pagination info (dto.ClientListResponse).
//	@Success		200	{array}		dto.ClientResponse
//	@Header			200	{integer}	X-Total-Count	"Number of matching clients"
//	@Router		/clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	listFilter, ok := parseListFilter(c, repository.ClientFields)
	if !ok {
		return
	}
	filter := repository.ClientFilter{ListFilter: listFilter}

	clients, err := h.clientService.ListClients(c.Request.Context(), filter)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	count, err := h.clientService.CountClients(c.Request.Context(), filter)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	items := make([]dto.ClientResponse, len(clients))
	for i, client := range clients {
		items[i] = toClientResponse(client)
	}

	c.Header(totalCountHeader, strconv.Itoa(count))
	if !listFilter.Paginated() {
		c.JSON(http.StatusOK, items)
		return
	}
	c.JSON(http.StatusOK, dto.ClientListResponse{
		Items:      items,
		Pagination: paginationInfo(listFilter, count),
	})
}

// GetClient handles GET /clients/:id
//
//	@Summary	Get a client
//	@Tags		clients
//	@Produce	json
//	@Param		id	path		string	true	"Client ID"
//	@Success	200	{object}	dto.ClientResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/clients/{id} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.clientService.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toClientResponse(client))
}

// ReplaceClient handles PUT /clients/:id. The path id wins over any id in the body.
//
//	@Summary	Replace a client
//	@Tags		clients
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Client ID"
//	@Param		client	body		dto.ClientRequest	true	"Client"
//	@Success	200		{object}	dto.ClientUpdateResponse
//	@Failure	404		{object}	dto.ErrorResponse
//	@Failure	409		{object}	dto.ErrorResponse
//	@Router		/clients/{id} [put]
func (h *ClientHandler) ReplaceClient(c *gin.Context) {
	id := c.Param("id")

	var req dto.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	client, err := h.clientService.ReplaceClient(c.Request.Context(), id, req.FirstName, req.LastName, toAccounts(req.Accounts), req.Version)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ClientUpdateResponse{
		Message: fmt.Sprintf("Update was successful for: %s", id),
		Client:  toClientResponse(client),
	})
}

// DeleteClient handles DELETE /clients/:id
//
//	@Summary	Delete a client
//	@Tags		clients
//	@Param		id	path	string	true	"Client ID"
//	@Success	205
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	if err := h.clientService.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.Status(http.StatusResetContent)
}

func toAccounts(requests []dto.AccountRequest) []domain.Account {
	accounts := make([]domain.Account, len(requests))
	for i, req := range requests {
		accounts[i] = domain.Account{Name: req.Name, Amount: req.Amount.Decimal()}
	}
	return accounts
}

func toAccountResponses(accounts []domain.Account) []dto.AccountResponse {
	out := make([]dto.AccountResponse, len(accounts))
	for i, account := range accounts {
		out[i] = dto.AccountResponse{Name: account.Name, Amount: account.Amount}
	}
	return out
}

func toClientResponse(client *domain.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:        client.ID,
		FirstName: client.FirstName,
		LastName:  client.LastName,
		Accounts:  toAccountResponses(client.Accounts),
		Version:   client.Version,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}
