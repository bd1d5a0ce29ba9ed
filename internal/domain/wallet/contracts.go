package wallet

import "context"

// TransactionRepository persists wallet transactions
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	// ListDeposits returns one page of the user's deposits, newest first, and the total count.
	ListDeposits(ctx context.Context, userID string, offset, limit int) ([]*Transaction, int64, error)
	ListByUser(ctx context.Context, userID string) ([]*Transaction, error)
}

// Service is the member wallet API
type Service interface {
	RequestDeposit(ctx context.Context, userID string, req *DepositRequest) (*Transaction, error)
	ListDeposits(ctx context.Context, userID string, page, limit int) (*Page, error)
	// Balances recomputes balances from the transaction history on every call.
	Balances(ctx context.Context, userID string) ([]*Balance, error)
}
