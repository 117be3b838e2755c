package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/jpbaz28/Banking-API/internal/api/dto"
	"github.com/jpbaz28/Banking-API/internal/api/middleware"
	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
	"github.com/jpbaz28/Banking-API/internal/core/service"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// ListAccounts handles GET /clients/:id/accounts
//
//	@Summary	List a client's accounts, optionally by balance range
//	@Tags		accounts
//	@Produce	json
//	@Param		id					path		string	true	"Client ID"
//	@Param		amountGreaterThan	query		number	false	"Inclusive lower bound"
//	@Param		amountLessThan		query		number	false	"Inclusive upper bound"
//	@Success	200					{array}		dto.AccountResponse
//	@Failure	404					{object}	dto.ErrorResponse
//	@Router		/clients/{id}/accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	lower, err := decimalQuery(c, "amountGreaterThan")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	upper, err := decimalQuery(c, "amountLessThan")
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	accounts, err := h.accountService.AccountsByBalance(c.Request.Context(), c.Param("id"), lower, upper)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAccountResponses(accounts))
}

// AddAccount handles POST /clients/:id/accounts
//
//	@Summary	Add an account to a client
//	@Tags		accounts
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Client ID"
//	@Param		account	body		dto.AccountRequest	true	"Account"
//	@Success	201		{object}	dto.ClientResponse
//	@Failure	404		{object}	dto.ErrorResponse
//	@Failure	409		{object}	dto.ErrorResponse
//	@Router		/clients/{id}/accounts [post]
func (h *AccountHandler) AddAccount(c *gin.Context) {
	var req dto.AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	client, err := h.accountService.AddAccount(c.Request.Context(), c.Param("id"), domain.Account{
		Name:   req.Name,
		Amount: req.Amount.Decimal(),
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toClientResponse(client))
}

// Deposit handles PATCH /clients/:id/accounts/:name/deposit
//
//	@Summary	Deposit into every account with the given name
//	@Tags		accounts
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Client ID"
//	@Param		name	path		string				true	"Account name"
//	@Param		amount	body		dto.AmountRequest	true	"Amount"
//	@Success	200		{object}	dto.BalanceChangeResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Failure	404		{object}	dto.ErrorResponse
//	@Router		/clients/{id}/accounts/{name}/deposit [patch]
func (h *AccountHandler) Deposit(c *gin.Context) {
	h.changeBalance(c, h.accountService.Deposit, "Client with ID of %s deposited %s to their %s account")
}

// Withdraw handles PATCH /clients/:id/accounts/:name/withdraw
//
//	@Summary	Withdraw from every account with the given name
//	@Tags		accounts
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Client ID"
//	@Param		name	path		string				true	"Account name"
//	@Param		amount	body		dto.AmountRequest	true	"Amount"
//	@Success	200		{object}	dto.BalanceChangeResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Failure	402		{object}	dto.ErrorResponse
//	@Failure	404		{object}	dto.ErrorResponse
//	@Router		/clients/{id}/accounts/{name}/withdraw [patch]
func (h *AccountHandler) Withdraw(c *gin.Context) {
	h.changeBalance(c, h.accountService.Withdraw, "Client with ID of %s withdrew %s from their %s account")
}

type balanceFunc func(ctx context.Context, clientID, accountName string, amount decimal.Decimal) (*service.BalanceChange, error)

func (h *AccountHandler) changeBalance(c *gin.Context, apply balanceFunc, message string) {
	id, name := c.Param("id"), c.Param("name")

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	change, err := apply(c.Request.Context(), id, name, req.Amount.Decimal())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceChangeResponse{
		Message: fmt.Sprintf(message, id, req.Amount.Decimal().String(), name),
		Matched: change.Matched,
		Client:  toClientResponse(change.Client),
	})
}

// ListLedger handles GET /clients/:id/ledger
//
//	@Summary	List a client's ledger entries
//	@Tags		accounts
//	@Produce	json
//	@Param		id			path		string	true	"Client ID"
//	@Param		query		query		string	false	"Filters, e.g. type|deposit"
//	@Param		order		query		string	false	"Ordering, e.g. created_at|desc"
//	@Param		page		query		int		false	"Page"
//	@Param		per_page	query		int		false	"Page size"
//	@Success	200			{object}	dto.LedgerListResponse
//	@Failure	404			{object}	dto.ErrorResponse
//	@Router		/clients/{id}/ledger [get]
func (h *AccountHandler) ListLedger(c *gin.Context) {
	listFilter, ok := parseListFilter(c, repository.LedgerFields)
	if !ok {
		return
	}
	filter := repository.LedgerFilter{ListFilter: listFilter, ClientID: c.Param("id")}

	entries, err := h.accountService.ListLedger(c.Request.Context(), filter)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	count, err := h.accountService.CountLedger(c.Request.Context(), filter)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	response := dto.LedgerListResponse{
		Items:      make([]dto.LedgerEntryResponse, len(entries)),
		Pagination: paginationInfo(listFilter, count),
	}
	for i, entry := range entries {
		response.Items[i] = dto.LedgerEntryResponse{
			ID:           entry.ID,
			AccountName:  entry.AccountName,
			Type:         string(entry.Type),
			Amount:       entry.Amount,
			BalanceAfter: entry.BalanceAfter,
			CreatedAt:    entry.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, response)
}

func decimalQuery(c *gin.Context, key string) (*decimal.Decimal, error) {
	value := c.Query(key)
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &d, nil
}
