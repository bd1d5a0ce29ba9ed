package app

import (
	"context"
	"time"

	"github.com/zignal-platform/zignal-api/internal/domain/members"
	"github.com/zignal-platform/zignal-api/internal/domain/security"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/domain/wallet"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
)

// memberService implements the members.Service interface
type memberService struct {
	identity    members.IdentityProvider
	profileRepo members.ProfileRepository
	tradeRepo   members.TradeRepository
	signalRepo  members.SignalRepository
	txRepo      wallet.TransactionRepository
	triggers    sessions.TriggerHandler
	recorder    security.Recorder
	logger      logger.Logger
	now         func() time.Time
}

// NewMemberService creates a new memberService instance. recorder may be nil.
func NewMemberService(
	identity members.IdentityProvider,
	profileRepo members.ProfileRepository,
	tradeRepo members.TradeRepository,
	signalRepo members.SignalRepository,
	txRepo wallet.TransactionRepository,
	triggers sessions.TriggerHandler,
	recorder security.Recorder,
	logger logger.Logger,
) (members.Service, error) {
	return &memberService{
		identity:    identity,
		profileRepo: profileRepo,
		tradeRepo:   tradeRepo,
		signalRepo:  signalRepo,
		txRepo:      txRepo,
		triggers:    triggers,
		recorder:    recorder,
		logger:      logger,
		now:         utcNow,
	}, nil
}

// Get merges the identity provider record with the member's activity
func (s *memberService) Get(ctx context.Context, userID string) (*members.Detail, error) {
	user, err := s.identity.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	trades, err := s.tradeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs, err := s.txRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	signals, err := s.signalRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &members.Detail{
		User:         user,
		Profile:      profile,
		Trades:       trades,
		Transactions: txs,
		Signals:      signals,
		Stats:        members.ComputeStats(trades, txs, signals),
	}, nil
}

// Update applies an admin action and returns the message shown to the admin.
// Promotion and demotion also end the member's sessions so that new tokens
// carry the changed role.
func (s *memberService) Update(ctx context.Context, actorID, userID string, req *members.UpdateRequest) (string, error) {
	if req.Action == members.ActionUpdate {
		update := members.UserUpdate{FirstName: req.FirstName, LastName: req.LastName, Username: req.Username}
		if !update.IsEmpty() {
			if _, err := s.identity.UpdateUser(ctx, userID, update); err != nil {
				return "", err
			}
		}
		s.audit(ctx, actorID, userID, req.Action)
		return members.SuccessMessage(req.Action), nil
	}

	patch, err := members.MetadataPatch(req.Action, s.now())
	if err != nil {
		return "", err
	}
	if _, err := s.identity.MergePublicMetadata(ctx, userID, patch); err != nil {
		return "", err
	}

	if req.Action == members.ActionPromote || req.Action == members.ActionDemote {
		if err := s.profileRepo.SetAdmin(ctx, userID, req.Action == members.ActionPromote); err != nil {
			return "", err
		}

		opts := sessions.TriggerOptions{Graceful: true, Notify: true, Metadata: map[string]interface{}{"action": string(req.Action)}}
		if _, err := s.triggers.TriggerInvalidation(ctx, userID, sessions.TriggerPermissionsChange, actorID, opts); err != nil {
			s.logger.Warn("Failed to invalidate sessions of user ", userID, " after ", req.Action, ": ", err)
		}
	}

	s.audit(ctx, actorID, userID, req.Action)
	return members.SuccessMessage(req.Action), nil
}

func (s *memberService) Delete(ctx context.Context, actorID, userID string) error {
	if err := s.identity.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.audit(ctx, actorID, userID, "delete")
	return nil
}

func (s *memberService) audit(ctx context.Context, actorID, userID string, action members.Action) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.Record(ctx, security.EventAdminSystemModification, security.SeverityMedium,
		"Admin "+string(action)+" on member "+userID,
		security.WithUser(actorID),
		security.WithMetadata(map[string]interface{}{"targetUserId": userID, "action": string(action)}))
	if err != nil {
		s.logger.Warn("Failed to audit member ", action, ": ", err)
	}
}
