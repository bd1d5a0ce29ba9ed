package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/zignal-platform/zignal-api/internal/domain/members"
	"github.com/zignal-platform/zignal-api/internal/pkg/config"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
)

// userAPI is the subset of the Clerk user client the provider calls
type userAPI interface {
	Get(ctx context.Context, id string) (*clerk.User, error)
	Update(ctx context.Context, id string, params *user.UpdateParams) (*clerk.User, error)
	UpdateMetadata(ctx context.Context, id string, params *user.UpdateMetadataParams) (*clerk.User, error)
	Delete(ctx context.Context, id string) (*clerk.DeletedResource, error)
}

type clerkProvider struct {
	users  userAPI
	logger logger.Logger
}

// NewIdentityProvider creates the IdentityProvider selected by settings.
// It returns nil without error when no provider is configured.
func NewIdentityProvider(settings *config.IdentitySettings, logger logger.Logger) (members.IdentityProvider, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	switch settings.Provider {
	case config.IdentityProviderClerk:
		cfg := &clerk.ClientConfig{}
		cfg.Key = clerk.String(settings.SecretKey)
		if settings.APIURL != "" {
			cfg.URL = clerk.String(settings.APIURL)
		}
		return &clerkProvider{users: user.NewClient(cfg), logger: logger}, nil
	case config.IdentityProviderNone:
		logger.Warn("No identity provider configured, member administration is disabled")
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported identity provider: %s", settings.Provider)
	}
}

func (p *clerkProvider) GetUser(ctx context.Context, userID string) (*members.IdentityUser, error) {
	u, err := p.users.Get(ctx, userID)
	if err != nil {
		return nil, p.mapError("fetch user", err)
	}
	return toIdentityUser(u)
}

func (p *clerkProvider) UpdateUser(ctx context.Context, userID string, update members.UserUpdate) (*members.IdentityUser, error) {
	params := &user.UpdateParams{}
	if update.FirstName != "" {
		params.FirstName = clerk.String(update.FirstName)
	}
	if update.LastName != "" {
		params.LastName = clerk.String(update.LastName)
	}
	if update.Username != "" {
		params.Username = clerk.String(update.Username)
	}

	u, err := p.users.Update(ctx, userID, params)
	if err != nil {
		return nil, p.mapError("update user", err)
	}

	p.logger.Info("Updated profile of user ", userID)
	return toIdentityUser(u)
}

func (p *clerkProvider) MergePublicMetadata(ctx context.Context, userID string, patch map[string]interface{}) (*members.IdentityUser, error) {
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode public metadata: %w", err)
	}
	metadata := json.RawMessage(raw)

	u, err := p.users.UpdateMetadata(ctx, userID, &user.UpdateMetadataParams{PublicMetadata: &metadata})
	if err != nil {
		return nil, p.mapError("update user metadata", err)
	}

	p.logger.Info("Merged public metadata of user ", userID)
	return toIdentityUser(u)
}

func (p *clerkProvider) DeleteUser(ctx context.Context, userID string) error {
	if _, err := p.users.Delete(ctx, userID); err != nil {
		return p.mapError("delete user", err)
	}

	p.logger.Info("Deleted user ", userID, " from identity provider")
	return nil
}

func (p *clerkProvider) mapError(op string, err error) error {
	var apiErr *clerk.APIErrorResponse
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusNotFound {
		return members.ErrUserNotFound
	}
	p.logger.Error("Identity provider failed to ", op, ": ", err)
	return fmt.Errorf("failed to %s: %w", op, err)
}

func toIdentityUser(u *clerk.User) (*members.IdentityUser, error) {
	result := &members.IdentityUser{
		ID:             u.ID,
		FirstName:      deref(u.FirstName),
		LastName:       deref(u.LastName),
		Username:       deref(u.Username),
		ImageURL:       deref(u.ImageURL),
		PublicMetadata: map[string]interface{}{},
		Banned:         u.Banned,
		Locked:         u.Locked,
		CreatedAt:      time.UnixMilli(u.CreatedAt).UTC(),
	}

	if len(u.PublicMetadata) > 0 {
		if err := json.Unmarshal(u.PublicMetadata, &result.PublicMetadata); err != nil {
			return nil, fmt.Errorf("failed to decode public metadata: %w", err)
		}
	}

	primaryEmail := deref(u.PrimaryEmailAddressID)
	for _, email := range u.EmailAddresses {
		if email == nil {
			continue
		}
		if email.ID == primaryEmail || result.Email == "" {
			result.Email = email.EmailAddress
			result.EmailVerified = email.Verification != nil && email.Verification.Status == "verified"
		}
	}

	primaryPhone := deref(u.PrimaryPhoneNumberID)
	for _, phone := range u.PhoneNumbers {
		if phone != nil && (phone.ID == primaryPhone || result.Phone == "") {
			result.Phone = phone.PhoneNumber
		}
	}

	if u.LastSignInAt != nil {
		t := time.UnixMilli(*u.LastSignInAt).UTC()
		result.LastSignInAt = &t
	}
	return result, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
