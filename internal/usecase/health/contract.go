package health

import "context"

// EnginePinger checks search engine availability.
type EnginePinger interface {
	Ping(ctx context.Context) error
}

// WorkspaceChecker checks workspace service availability.
type WorkspaceChecker interface {
	Version(ctx context.Context) (string, error)
}
