package kbase

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/searchapi/internal/domain"
	"github.com/kailas-cloud/searchapi/internal/domain/workspace"
	"github.com/kailas-cloud/searchapi/internal/metrics"
)

// UserProfile is a client of the user profile service.
type UserProfile struct {
	rpc *rpcClient
}

// NewUserProfile creates a user profile service client.
func NewUserProfile(cfg Config) *UserProfile {
	return &UserProfile{rpc: newRPCClient(cfg, metrics.ServiceUserProfile)}
}

type profileRecord struct {
	User struct {
		Username string `json:"username"`
		RealName string `json:"realname"`
	} `json:"user"`
}

// GetUserProfiles fetches profiles in one call. The result is aligned with
// usernames; an entry is nil when the user has no profile.
func (u *UserProfile) GetUserProfiles(
	ctx context.Context, token string, usernames []string,
) ([]*workspace.UserProfile, error) {
	if len(usernames) == 0 {
		return nil, nil
	}

	var result [][]*profileRecord
	err := u.rpc.call(ctx, token, "UserProfile.get_user_profile", []any{usernames}, &result)
	if err != nil {
		var ce *callError
		if errors.As(err, &ce) {
			return nil, &domain.UserProfileServiceError{URL: u.rpc.url, Response: ce.detail()}
		}
		return nil, &domain.UserProfileServiceError{URL: u.rpc.url, Response: err.Error()}
	}
	if len(result) == 0 || len(result[0]) != len(usernames) {
		got := 0
		if len(result) > 0 {
			got = len(result[0])
		}
		return nil, &domain.UserProfileServiceError{
			URL:      u.rpc.url,
			Response: fmt.Sprintf("expected %d profiles, got %d", len(usernames), got),
		}
	}

	out := make([]*workspace.UserProfile, len(usernames))
	for i, rec := range result[0] {
		if rec == nil {
			continue
		}
		out[i] = &workspace.UserProfile{Username: rec.User.Username, RealName: rec.User.RealName}
	}
	return out, nil
}
