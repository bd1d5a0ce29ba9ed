package members

import (
	"strings"
	"time"

	"github.com/zignal-platform/zignal-api/internal/domain/wallet"
	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
)

// Roles stored in the identity provider's public metadata
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// TradeStatusOpen marks trades counted as active
const TradeStatusOpen = "OPEN"

// IdentityUser is the identity provider's view of a member
type IdentityUser struct {
	ID             string
	FirstName      string
	LastName       string
	Username       string
	ImageURL       string
	Email          string
	EmailVerified  bool
	Phone          string
	PublicMetadata map[string]interface{}
	Banned         bool
	Locked         bool
	CreatedAt      time.Time
	LastSignInAt   *time.Time
}

// FullName joins first and last name
func (u *IdentityUser) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName prefers the first name and falls back to the email address
func (u *IdentityUser) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Email
}

// IsAdmin reads the isAdmin flag from public metadata
func (u *IdentityUser) IsAdmin() bool {
	v, _ := u.PublicMetadata["isAdmin"].(bool)
	return v
}

// Role reads the role from public metadata, deriving it from isAdmin when unset
func (u *IdentityUser) Role() string {
	if role, ok := u.PublicMetadata["role"].(string); ok && role != "" {
		return role
	}
	if u.IsAdmin() {
		return RoleAdmin
	}
	return RoleMember
}

// IsSuspended reads the suspended flag from public metadata
func (u *IdentityUser) IsSuspended() bool {
	v, _ := u.PublicMetadata["suspended"].(bool)
	return v
}

// UserProfile is the locally stored profile of a member
type UserProfile struct {
	UserID                     string
	Email                      string
	FirstName                  string
	IsAdmin                    bool
	EmailSecurityNotifications bool
	UpdatedAt                  time.Time
}

// Trade is a member's position
type Trade struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Symbol    string    `json:"symbol"`
	Side      string    `json:"side"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	PnL       float64   `json:"pnl"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Signal is a trading signal delivered to a member
type Signal struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Symbol    string    `json:"symbol"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats aggregates a member's activity
type Stats struct {
	TotalTrades       int     `json:"total_trades"`
	ActiveTrades      int     `json:"active_trades"`
	TotalVolume       float64 `json:"total_volume"`
	TotalPnL          float64 `json:"total_pnl"`
	TotalTransactions int     `json:"total_transactions"`
	TotalDeposits     float64 `json:"total_deposits"`
	TotalWithdrawals  float64 `json:"total_withdrawals"`
	SignalsReceived   int     `json:"signals_received"`
}

// ComputeStats folds trades, transactions and signals into Stats
func ComputeStats(trades []*Trade, txs []*wallet.Transaction, signals []*Signal) Stats {
	stats := Stats{
		TotalTrades:       len(trades),
		TotalTransactions: len(txs),
		SignalsReceived:   len(signals),
	}

	for _, t := range trades {
		if t.Status == TradeStatusOpen {
			stats.ActiveTrades++
		}
		stats.TotalVolume += t.Amount * t.Price
		stats.TotalPnL += t.PnL
	}

	for _, tx := range txs {
		switch tx.Type {
		case wallet.TypeDeposit:
			stats.TotalDeposits += tx.Amount
		case wallet.TypeWithdrawal:
			stats.TotalWithdrawals += tx.Amount
		}
	}

	return stats
}

// Detail is everything an admin sees about one member
type Detail struct {
	User         *IdentityUser
	Profile      *UserProfile
	Trades       []*Trade
	Transactions []*wallet.Transaction
	Signals      []*Signal
	Stats        Stats
}

// Action names an admin modification of a member
type Action string

// Member actions
const (
	ActionSuspend  Action = "suspend"
	ActionActivate Action = "activate"
	ActionPromote  Action = "promote"
	ActionDemote   Action = "demote"
	ActionUpdate   Action = "update"
)

// UpdateRequest is an admin action on a member
type UpdateRequest struct {
	Action    Action
	FirstName string
	LastName  string
	Username  string
}

// UserUpdate carries the name fields forwarded to the identity provider; empty fields are left unchanged
type UserUpdate struct {
	FirstName string
	LastName  string
	Username  string
}

// IsEmpty reports whether no field is set
func (u UserUpdate) IsEmpty() bool {
	return u.FirstName == "" && u.LastName == "" && u.Username == ""
}

// MetadataPatch returns the public metadata changes an action applies at now
func MetadataPatch(action Action, now time.Time) (map[string]interface{}, error) {
	stamp := now.UTC().Format(time.RFC3339)

	switch action {
	case ActionSuspend:
		return map[string]interface{}{"suspended": true, "suspendedAt": stamp, "suspendedBy": RoleAdmin}, nil
	case ActionActivate:
		return map[string]interface{}{"suspended": false, "activatedAt": stamp, "activatedBy": RoleAdmin}, nil
	case ActionPromote:
		return map[string]interface{}{"isAdmin": true, "role": RoleAdmin, "promotedAt": stamp, "promotedBy": RoleAdmin}, nil
	case ActionDemote:
		return map[string]interface{}{"isAdmin": false, "role": RoleMember, "demotedAt": stamp, "demotedBy": RoleAdmin}, nil
	default:
		return nil, apperr.Validation("Invalid action")
	}
}

// SuccessMessage is returned to the admin after an action completes
func SuccessMessage(action Action) string {
	switch action {
	case ActionSuspend:
		return "User suspended successfully"
	case ActionActivate:
		return "User activated successfully"
	case ActionPromote:
		return "User promoted to admin successfully"
	case ActionDemote:
		return "User demoted to member successfully"
	default:
		return "User updated successfully"
	}
}

// ErrUserNotFound is returned when the identity provider has no such user
var ErrUserNotFound = &apperr.Error{Kind: apperr.ErrNotFound, Message: "User not found"}
