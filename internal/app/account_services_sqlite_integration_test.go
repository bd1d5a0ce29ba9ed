//go:build integration
// +build integration

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zignal-platform/zignal-api/internal/domain/notifications"
	"github.com/zignal-platform/zignal-api/internal/domain/packages"
	"github.com/zignal-platform/zignal-api/internal/domain/wallet"
	"github.com/zignal-platform/zignal-api/internal/infrastructure/persistence"
	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
	"github.com/zignal-platform/zignal-api/internal/pkg/config"
)

func TestNotificationService_NotifyListMarkRead(t *testing.T) {
	ts := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	require.NoError(t, ts.DBContext.ProfileRepo.SetAdmin(ctx, "user_1", false))

	n, err := ts.NotificationService.Notify(ctx, "user_1", notifications.TypeSecurityAlert, "Security Alert", "Check your account",
		map[string]interface{}{"source": "monitor"})
	require.NoError(t, err)
	assert.False(t, n.Read)

	_, err = ts.NotificationService.Notify(ctx, "user_1", notifications.TypeAccount, "Welcome", "Thanks for joining", nil)
	require.NoError(t, err)

	inbox, err := ts.NotificationService.List(ctx, "user_1", 500)
	require.NoError(t, err)
	assert.Len(t, inbox, 2)

	err = ts.NotificationService.MarkRead(ctx, "user_2", n.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	require.NoError(t, ts.NotificationService.MarkRead(ctx, "user_1", n.ID))
}

func TestPackageService_Create(t *testing.T) {
	ts := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	created, err := ts.PackageService.Create(ctx, &packages.CreateInput{
		Name:         "  Pro Signals ",
		Description:  "Daily signals",
		Price:        "49.99",
		DurationDays: "30",
	})
	require.NoError(t, err)
	assert.Equal(t, "Pro Signals", created.Name)
	assert.Equal(t, 49.99, created.Price)
	assert.Equal(t, 30, created.DurationDays)
	assert.Equal(t, []string{}, created.Features)
	assert.True(t, created.Active)

	inactive := false
	_, err = ts.PackageService.Create(ctx, &packages.CreateInput{
		Name: "Free", Description: "Starter tier", Price: "0", DurationDays: "7",
		Features: []string{"weekly digest"}, Active: &inactive,
	})
	require.NoError(t, err)

	list, err := ts.PackageService.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Zero(t, list[0].SubscriberCount)

	cases := []struct {
		name  string
		input packages.CreateInput
		msg   string
	}{
		{"missing name", packages.CreateInput{Description: "d", Price: "1", DurationDays: "1"}, "Missing required fields: name, description, price, duration_days"},
		{"negative price", packages.CreateInput{Name: "n", Description: "d", Price: "-1", DurationDays: "1"}, "Price must be greater than or equal to 0"},
		{"zero duration", packages.CreateInput{Name: "n", Description: "d", Price: "1", DurationDays: "0"}, "Duration must be greater than 0 days"},
		{"fractional duration", packages.CreateInput{Name: "n", Description: "d", Price: "1", DurationDays: "1.5"}, "Duration must be a whole number of days"},
		{"infinite price", packages.CreateInput{Name: "n", Description: "d", Price: "Infinity", DurationDays: "1"}, "Price must be a number"},
		{"nan price", packages.CreateInput{Name: "n", Description: "d", Price: "NaN", DurationDays: "1"}, "Price must be a number"},
		{"hex price", packages.CreateInput{Name: "n", Description: "d", Price: "0x1p4", DurationDays: "1"}, "Price must be a number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := tc.input
			_, err := ts.PackageService.Create(ctx, &input)
			require.True(t, errors.Is(err, apperr.ErrValidation))
			assert.Equal(t, tc.msg, apperr.Message(err))
		})
	}
}

func TestWalletService_Deposits(t *testing.T) {
	ts := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	tx, err := ts.WalletService.RequestDeposit(ctx, "user_1", &wallet.DepositRequest{
		Amount: 250, ReferenceNumber: " REF-1 ", PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, wallet.StatusPending, tx.Status)
	assert.Equal(t, wallet.DefaultCurrency, tx.Currency)
	assert.Equal(t, "REF-1", tx.ReferenceNumber)

	_, err = ts.WalletService.RequestDeposit(ctx, "user_1", &wallet.DepositRequest{Amount: 10, PaymentMethod: "card"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	for i := 0; i < 11; i++ {
		_, err := ts.WalletService.RequestDeposit(ctx, "user_1", &wallet.DepositRequest{
			Amount: 5, ReferenceNumber: "BULK", PaymentMethod: "card",
		})
		require.NoError(t, err)
	}

	page, err := ts.WalletService.ListDeposits(ctx, "user_1", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, wallet.DefaultPageSize, page.Limit)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, wallet.DefaultPageSize)

	page, err = ts.WalletService.ListDeposits(ctx, "user_1", 2, 1000)
	require.NoError(t, err)
	assert.Equal(t, wallet.MaxPageSize, page.Limit)
	assert.Empty(t, page.Items)

	page, err = ts.WalletService.ListDeposits(ctx, "user_2", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalPages)
}

func TestWalletService_Balances(t *testing.T) {
	ts := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	now := time.Now().UTC()

	seed := []*wallet.Transaction{
		persistence.CreateTestTransaction(t, "user_1", wallet.TypeDeposit, wallet.StatusCompleted, 100, now),
		persistence.CreateTestTransaction(t, "user_1", wallet.TypeDeposit, wallet.StatusPending, 40, now),
		persistence.CreateTestTransaction(t, "user_1", wallet.TypeWithdrawal, wallet.StatusCompleted, 30, now),
		persistence.CreateTestTransaction(t, "user_1", wallet.TypeWithdrawal, wallet.StatusFailed, 500, now),
	}
	for _, tx := range seed {
		require.NoError(t, ts.DBContext.TransactionRepo.Create(ctx, tx))
	}

	balances, err := ts.WalletService.Balances(ctx, "user_1")
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, wallet.DefaultCurrency, balances[0].Currency)
	assert.Equal(t, 100.0, balances[0].TotalDeposits)
	assert.Equal(t, 30.0, balances[0].TotalWithdrawal)
	assert.Equal(t, 70.0, balances[0].Available)
	assert.Equal(t, 40.0, balances[0].PendingDeposits)

	balances, err = ts.WalletService.Balances(ctx, "user_2")
	require.NoError(t, err)
	assert.Empty(t, balances)
}
