package enrich

import (
	"context"

	"github.com/kailas-cloud/searchapi/internal/domain/search/query"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	"github.com/kailas-cloud/searchapi/internal/domain/workspace"
)

// WorkspaceInfoGetter fetches one workspace info tuple. A nil info means the
// service had nothing for the ID.
type WorkspaceInfoGetter interface {
	GetWorkspaceInfo(ctx context.Context, token string, id int64) (workspace.Info, error)
}

// ProfileGetter fetches user profiles in one batch, aligned with usernames.
type ProfileGetter interface {
	GetUserProfiles(ctx context.Context, token string, usernames []string) ([]*workspace.UserProfile, error)
}

// Searcher runs a compiled engine query.
type Searcher interface {
	Search(ctx context.Context, q query.Query) (result.Raw, error)
}
