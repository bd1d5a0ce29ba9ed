//go:build unit
// +build unit

package v1

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zignal-platform/zignal-api/internal/domain/wallet"
	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
)

func TestWalletHandler_RequestDeposit(t *testing.T) {
	service := new(MockWalletService)
	handler := NewWalletHandler(service)

	service.On("RequestDeposit", mock.Anything, "user_1", &wallet.DepositRequest{
		Amount: 250, Currency: "eur", ReferenceNumber: "REF-1", PaymentMethod: "bank_transfer",
	}).Return(&wallet.Transaction{ID: "tx1", UserID: "user_1", Type: wallet.TypeDeposit, Amount: 250, Currency: "EUR", Status: wallet.StatusPending}, nil)

	c, w := newTestContext(t, http.MethodPost, "/api/deposits",
		`{"amount":250,"currency":"eur","reference_number":"REF-1","payment_method":"bank_transfer"}`, memberPrincipal)
	handler.RequestDeposit(c)

	require.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Success bool               `json:"success"`
		Data    wallet.Transaction `json:"data"`
	}
	decodeBody(t, w, &body)
	assert.True(t, body.Success)
	assert.Equal(t, wallet.StatusPending, body.Data.Status)
	service.AssertExpectations(t)
}

func TestWalletHandler_RequestDeposit_Incomplete(t *testing.T) {
	service := new(MockWalletService)
	handler := NewWalletHandler(service)
	service.On("RequestDeposit", mock.Anything, "user_1", mock.Anything).
		Return(nil, &apperr.Error{Kind: apperr.ErrValidation, Message: "ReferenceNumber is required"})

	c, w := newTestContext(t, http.MethodPost, "/api/deposits", `{"amount":250,"payment_method":"card"}`, memberPrincipal)
	handler.RequestDeposit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ReferenceNumber is required")
}

func TestWalletHandler_ListDeposits(t *testing.T) {
	service := new(MockWalletService)
	handler := NewWalletHandler(service)
	service.On("ListDeposits", mock.Anything, "user_1", 2, 5).Return(wallet.NewPage(nil, 7, 2, 5), nil)

	c, w := newTestContext(t, http.MethodGet, "/api/deposits?page=2&limit=5", nil, memberPrincipal)
	handler.ListDeposits(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"items":[],"total":7,"page":2,"limit":5,"totalPages":2}}`, w.Body.String())
}

func TestWalletHandler_ListDeposits_Defaults(t *testing.T) {
	service := new(MockWalletService)
	handler := NewWalletHandler(service)
	service.On("ListDeposits", mock.Anything, "user_1", 1, wallet.DefaultPageSize).Return(wallet.NewPage(nil, 0, 1, wallet.DefaultPageSize), nil)

	c, w := newTestContext(t, http.MethodGet, "/api/deposits", nil, memberPrincipal)
	handler.ListDeposits(c)

	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}

func TestWalletHandler_Balances(t *testing.T) {
	service := new(MockWalletService)
	handler := NewWalletHandler(service)
	service.On("Balances", mock.Anything, "user_1").Return([]*wallet.Balance{
		{Currency: "USD", TotalDeposits: 300, TotalWithdrawal: 50, Available: 250},
	}, nil)

	c, w := newTestContext(t, http.MethodGet, "/api/wallet/balance", nil, memberPrincipal)
	handler.Balances(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"available":250`)
}
