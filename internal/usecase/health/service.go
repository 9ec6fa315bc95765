package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates that only anonymous searches can be served.
	Degraded Status = "degraded"
	// Unhealthy indicates the search engine is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names used as Report.Checks keys.
const (
	ComponentElasticsearch = "elasticsearch"
	ComponentWorkspace     = "workspace"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	// WorkspaceVersion is set when the workspace service answered.
	WorkspaceVersion string
}

// Service coordinates health checks.
type Service struct {
	engine    EnginePinger
	workspace WorkspaceChecker
}

// New creates a Service. workspace can be nil.
func New(engine EnginePinger, workspace WorkspaceChecker) *Service {
	return &Service{engine: engine, workspace: workspace}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Status: Healthy, Checks: make(map[string]CheckResult, 2)}

	if s.workspace != nil {
		v, err := s.workspace.Version(ctx)
		if err != nil {
			r.Checks[ComponentWorkspace] = CheckError
			r.Status = Degraded
		} else {
			r.Checks[ComponentWorkspace] = CheckOK
			r.WorkspaceVersion = v
		}
	}

	if err := s.engine.Ping(ctx); err != nil {
		r.Checks[ComponentElasticsearch] = CheckError
		r.Status = Unhealthy
	} else {
		r.Checks[ComponentElasticsearch] = CheckOK
	}

	return r
}
