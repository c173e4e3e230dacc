package presence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// StatsPort exposes the presence summary to other modules.
type StatsPort interface {
	Snapshot(ctx context.Context) (*Summary, error)
}

// StatsAdapter implements StatsPort over the service container.
type StatsAdapter struct {
	container mono.ServiceContainer
}

// NewStatsAdapter creates a new StatsAdapter.
func NewStatsAdapter(container mono.ServiceContainer) StatsPort {
	if container == nil {
		panic("presence: ServiceContainer is nil")
	}
	return &StatsAdapter{container: container}
}

// Snapshot fetches the current activity summary.
func (a *StatsAdapter) Snapshot(ctx context.Context) (*Summary, error) {
	req := SnapshotRequest{}
	var resp Summary
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceSnapshot,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("failed to fetch presence snapshot: %w", err)
	}
	return &resp, nil
}
