package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the service answers from the fallback store or the backend fails.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckFallback marks a backend that was never initialised; it is not pinged.
	CheckFallback CheckResult = "fallback"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// ServiceStatus is the externally visible service state.
type ServiceStatus struct {
	BackendReady     bool
	FallbackDocCount int
	PipelineReady    bool
	Driver           string
}

// Service coordinates status and health checks.
type Service struct {
	store         StoreInspector
	backend       BackendPinger
	pipelineReady bool
}

// New creates a Service. backend can be nil when the driver has nothing to ping.
func New(store StoreInspector, backend BackendPinger, pipelineReady bool) *Service {
	return &Service{store: store, backend: backend, pipelineReady: pipelineReady}
}

// Status returns the store snapshot plus pipeline readiness. It never fails.
func (s *Service) Status() ServiceStatus {
	st := s.store.Status()
	return ServiceStatus{
		BackendReady:     st.BackendReady,
		FallbackDocCount: st.FallbackDocCount,
		PipelineReady:    s.pipelineReady,
		Driver:           s.store.Driver(),
	}
}

// Check pings the backend when the store latched onto it. A fallback store
// reports degraded without contacting the backend.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	switch {
	case !s.store.Status().BackendReady:
		checks["backend"] = CheckFallback
	case s.backend == nil:
		checks["backend"] = CheckOK
	default:
		if err := s.backend.Ping(ctx); err != nil {
			checks["backend"] = CheckError
		} else {
			checks["backend"] = CheckOK
		}
	}

	if s.pipelineReady {
		checks["pipeline"] = CheckOK
	} else {
		checks["pipeline"] = CheckError
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
