package health

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// StoreInspector reports the document store state.
type StoreInspector interface {
	Status() domain.StoreStatus
	Driver() string
}

// BackendPinger checks vector backend availability.
type BackendPinger interface {
	Ping(ctx context.Context) error
}
