package repository

import (
	"context"
	"github.com/google/uuid"
	"lockdown-service/internal/repository/model"
)

type Repository interface {
	// GetLockdowns returns every active lockdown for the community,
	// oldest first.
	GetLockdowns(ctx context.Context, communityId string) ([]*model.Lockdown, error)
	CreateLockdown(ctx context.Context, lockdown *model.Lockdown) error
	DeleteLockdown(ctx context.Context, id uuid.UUID) error

	GetLockdownSettings(ctx context.Context, communityId string) (*model.LockdownSettings, error)
}
