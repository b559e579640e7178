package notifier

import (
	"context"
	"lockdown-service/internal/repository/model"
)

// Notifier publishes lockdown lifecycle events for downstream consumers
// (audit log, dashboards). Failures to notify never fail the operation.
type Notifier interface {
	LockdownApplied(ctx context.Context, lockdown *model.Lockdown) error
	LockdownRemoved(ctx context.Context, lockdown *model.Lockdown) error
	LockdownsCleared(ctx context.Context, communityId string, count int) error
}
