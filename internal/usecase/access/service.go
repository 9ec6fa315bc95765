// Package access resolves the workspaces a caller may search.
package access

import (
	"context"

	"go.uber.org/zap"

	domaccess "github.com/kailas-cloud/searchapi/internal/domain/search/access"
	"github.com/kailas-cloud/searchapi/internal/logger"
)

// Service is the access resolver.
type Service struct {
	workspaces WorkspaceLister
}

// New creates an access resolver.
func New(workspaces WorkspaceLister) *Service {
	return &Service{workspaces: workspaces}
}

// Resolve returns the scope for token and mode. A caller without a token
// gets the anonymous, public-only scope without calling the workspace
// service. Workspace failures surface as domain.ErrAuth.
func (s *Service) Resolve(ctx context.Context, token string, mode domaccess.Mode) (domaccess.Scope, error) {
	if token == "" {
		return domaccess.Anonymous(), nil
	}

	onlyGlobal := mode == domaccess.PublicOnly
	excludeGlobal := mode == domaccess.PrivateOnly

	ids, err := s.workspaces.ListWorkspaceIDs(ctx, token, onlyGlobal, excludeGlobal)
	if err != nil {
		return domaccess.Scope{}, err
	}

	logger.FromContext(ctx).Debug("access resolved",
		zap.Stringer("mode", mode),
		zap.Int("workspaces", len(ids)),
	)
	return domaccess.NewScope(ids, mode), nil
}
