package kbase

import (
	"context"
	"errors"

	"github.com/kailas-cloud/searchapi/internal/domain"
	"github.com/kailas-cloud/searchapi/internal/domain/workspace"
	"github.com/kailas-cloud/searchapi/internal/metrics"
)

// Workspace is a client of the workspace service.
type Workspace struct {
	rpc *rpcClient
}

// NewWorkspace creates a workspace service client.
func NewWorkspace(cfg Config) *Workspace {
	return &Workspace{rpc: newRPCClient(cfg, metrics.ServiceWorkspace)}
}

// ListWorkspaceIDs returns the IDs the token may read: private workspaces
// and, unless excluded, public ones. onlyGlobal restricts to public ones.
func (w *Workspace) ListWorkspaceIDs(
	ctx context.Context, token string, onlyGlobal, excludeGlobal bool,
) ([]int64, error) {
	params := map[string]any{"perm": "r"}
	if onlyGlobal {
		params["onlyGlobal"] = 1
	}
	if excludeGlobal {
		params["excludeGlobal"] = 1
	}

	var result []struct {
		Workspaces []int64 `json:"workspaces"`
		Pub        []int64 `json:"pub"`
	}
	if err := w.rpc.call(ctx, token, "Workspace.list_workspace_ids", []any{params}, &result); err != nil {
		return nil, authError(err)
	}
	if len(result) == 0 {
		return nil, domain.NewError(domain.ErrAuth, "workspace service returned an empty result")
	}

	ids := make([]int64, 0, len(result[0].Workspaces)+len(result[0].Pub))
	ids = append(ids, result[0].Workspaces...)
	ids = append(ids, result[0].Pub...)
	return ids, nil
}

// GetWorkspaceInfo returns the info tuple of one workspace, or nil when the
// service answers with an empty result.
func (w *Workspace) GetWorkspaceInfo(ctx context.Context, token string, id int64) (workspace.Info, error) {
	var result []workspace.Info
	params := []any{map[string]any{"id": id}}
	if err := w.rpc.call(ctx, token, "Workspace.get_workspace_info", params, &result); err != nil {
		return nil, authError(err)
	}
	if len(result) == 0 {
		return nil, nil
	}
	return result[0], nil
}

// Version returns the workspace service version; used as a health probe.
func (w *Workspace) Version(ctx context.Context) (string, error) {
	var result []string
	if err := w.rpc.call(ctx, "", "Workspace.ver", []any{}, &result); err != nil {
		return "", err
	}
	if len(result) == 0 {
		return "", errors.New("workspace ver: empty result")
	}
	return result[0], nil
}

func authError(err error) error {
	var ce *callError
	if errors.As(err, &ce) {
		return domain.NewError(domain.ErrAuth, ce.detail())
	}
	return domain.NewError(domain.ErrAuth, err.Error())
}
