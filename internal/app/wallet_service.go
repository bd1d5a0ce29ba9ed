package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zignal-platform/zignal-api/internal/domain/wallet"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
)

// walletService implements the wallet.Service interface
type walletService struct {
	txRepo wallet.TransactionRepository
	logger logger.Logger
	now    func() time.Time
}

// NewWalletService creates a new walletService instance
func NewWalletService(txRepo wallet.TransactionRepository, logger logger.Logger) (wallet.Service, error) {
	return &walletService{txRepo: txRepo, logger: logger, now: utcNow}, nil
}

// RequestDeposit records a PENDING deposit awaiting confirmation of the payment
func (s *walletService) RequestDeposit(ctx context.Context, userID string, req *wallet.DepositRequest) (*wallet.Transaction, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx := &wallet.Transaction{
		ID:              uuid.NewString(),
		UserID:          userID,
		Type:            wallet.TypeDeposit,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Status:          wallet.StatusPending,
		Method:          req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		CreatedAt:       s.now(),
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *walletService) ListDeposits(ctx context.Context, userID string, page, limit int) (*wallet.Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = wallet.DefaultPageSize
	}
	if limit > wallet.MaxPageSize {
		limit = wallet.MaxPageSize
	}

	items, total, err := s.txRepo.ListDeposits(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return wallet.NewPage(items, total, page, limit), nil
}

func (s *walletService) Balances(ctx context.Context, userID string) ([]*wallet.Balance, error) {
	txs, err := s.txRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return wallet.ComputeBalances(txs), nil
}
