package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zignal-platform/zignal-api/internal/domain/wallet"
)

// WalletHandler defines the interface for the member wallet
type WalletHandler interface {
	RequestDeposit(ctx *gin.Context)
	ListDeposits(ctx *gin.Context)
	Balances(ctx *gin.Context)
}

type walletHandler struct {
	walletService wallet.Service
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService wallet.Service) WalletHandler {
	return &walletHandler{walletService: walletService}
}

// RequestDeposit records a pending deposit for the caller
// @Summary Request a deposit
// @Tags Wallet
// @Accept json
// @Produce json
// @Param requestBody body DepositRequest true "Deposit"
// @Success 201 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Router /deposits [post]
func (handler *walletHandler) RequestDeposit(ctx *gin.Context) {
	var request DepositRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondBadRequest(ctx, "Invalid request body", err)
		return
	}

	tx, err := handler.walletService.RequestDeposit(ctx.Request.Context(), actorID(ctx), request.ToDomain())
	if err != nil {
		respondError(ctx, err, "Failed to create deposit")
		return
	}

	ctx.JSON(http.StatusCreated, DataResponse{Success: true, Data: tx})
}

// ListDeposits pages through the caller's deposits
// @Summary List deposits
// @Tags Wallet
// @Produce json
// @Param page query int false "Page, starting at 1"
// @Param limit query int false "Page size"
// @Success 200 {object} DataResponse
// @Router /deposits [get]
func (handler *walletHandler) ListDeposits(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(wallet.DefaultPageSize)))

	result, err := handler.walletService.ListDeposits(ctx.Request.Context(), actorID(ctx), page, limit)
	if err != nil {
		respondError(ctx, err, "Failed to fetch deposits")
		return
	}
	result.Items = nonNil(result.Items)

	ctx.JSON(http.StatusOK, DataResponse{Success: true, Data: result})
}

// Balances returns the caller's per-currency balances
// @Summary Wallet balances
// @Tags Wallet
// @Produce json
// @Success 200 {object} DataResponse
// @Router /wallet/balance [get]
func (handler *walletHandler) Balances(ctx *gin.Context) {
	balances, err := handler.walletService.Balances(ctx.Request.Context(), actorID(ctx))
	if err != nil {
		respondError(ctx, err, "Failed to compute balances")
		return
	}
	ctx.JSON(http.StatusOK, DataResponse{Success: true, Data: nonNil(balances)})
}
