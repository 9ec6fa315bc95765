package access

import "context"

// WorkspaceLister lists the workspace IDs a credential may read.
type WorkspaceLister interface {
	ListWorkspaceIDs(ctx context.Context, token string, onlyGlobal, excludeGlobal bool) ([]int64, error)
}
