package wallet

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
	"github.com/zignal-platform/zignal-api/internal/pkg/validators"
)

// Transaction types
const (
	TypeDeposit    = "DEPOSIT"
	TypeWithdrawal = "WITHDRAWAL"
)

// Transaction states
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// DefaultCurrency is applied when a deposit omits one
const DefaultCurrency = "USD"

// Paging defaults for deposit listings
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Transaction entity
type Transaction struct {
	ID              string     `json:"id" validate:"required,uuid4"`
	UserID          string     `json:"user_id" validate:"required"`
	Type            string     `json:"type" validate:"required,oneof=DEPOSIT WITHDRAWAL"`
	Amount          float64    `json:"amount" validate:"gt=0"`
	Currency        string     `json:"currency" validate:"required,currency"`
	Status          string     `json:"status" validate:"required,oneof=PENDING COMPLETED FAILED"`
	Method          string     `json:"method,omitempty"`
	ReferenceNumber string     `json:"reference_number,omitempty"`
	Destination     string     `json:"destination,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Validate for validating Transaction struct
func (t *Transaction) Validate() error {
	return validators.Struct(t)
}

// DepositRequest is what a member submits from the deposit form.
// Amount, reference number and payment method must all be present.
type DepositRequest struct {
	Amount          float64 `validate:"gt=0"`
	Currency        string  `validate:"omitempty,currency"`
	ReferenceNumber string  `validate:"required,notblank,max=100"`
	PaymentMethod   string  `validate:"required,notblank,max=50"`
}

// Normalize trims input and applies DefaultCurrency
func (r *DepositRequest) Normalize() {
	r.ReferenceNumber = strings.TrimSpace(r.ReferenceNumber)
	r.PaymentMethod = strings.TrimSpace(r.PaymentMethod)
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if r.Currency == "" {
		r.Currency = DefaultCurrency
	}
}

// Validate rejects a deposit unless amount, reference number and payment method are all set
func (r *DepositRequest) Validate() error {
	if err := validators.Struct(r); err != nil {
		return &apperr.Error{Kind: apperr.ErrValidation, Message: err.Error()}
	}
	return nil
}

// Page is one page of a user's deposits
type Page struct {
	Items      []*Transaction `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

// NewPage computes the page count, never reporting fewer than one page
func NewPage(items []*Transaction, total int64, page, limit int) *Page {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	if totalPages < 1 {
		totalPages = 1
	}
	return &Page{Items: items, Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}

// Balance is the per-currency result of completed deposits minus completed withdrawals
type Balance struct {
	Currency        string  `json:"currency"`
	TotalDeposits   float64 `json:"total_deposits"`
	TotalWithdrawal float64 `json:"total_withdrawals"`
	Available       float64 `json:"available"`
	PendingDeposits float64 `json:"pending_deposits"`
}

// ComputeBalances folds a user's transactions into per-currency balances, sorted by currency
func ComputeBalances(txs []*Transaction) []*Balance {
	byCurrency := map[string]*Balance{}
	var order []string

	for _, tx := range txs {
		b, ok := byCurrency[tx.Currency]
		if !ok {
			b = &Balance{Currency: tx.Currency}
			byCurrency[tx.Currency] = b
			order = append(order, tx.Currency)
		}

		switch {
		case tx.Type == TypeDeposit && tx.Status == StatusCompleted:
			b.TotalDeposits += tx.Amount
		case tx.Type == TypeDeposit && tx.Status == StatusPending:
			b.PendingDeposits += tx.Amount
		case tx.Type == TypeWithdrawal && tx.Status == StatusCompleted:
			b.TotalWithdrawal += tx.Amount
		}
	}

	sort.Strings(order)
	balances := make([]*Balance, 0, len(order))
	for _, c := range order {
		b := byCurrency[c]
		b.Available = b.TotalDeposits - b.TotalWithdrawal
		balances = append(balances, b)
	}
	return balances
}
