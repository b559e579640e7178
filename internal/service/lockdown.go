package service

import (
	"context"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"lockdown-service/internal/directory"
	"lockdown-service/internal/lockdown"
	"lockdown-service/internal/messaging/notifier"
	"lockdown-service/internal/repository"
	"lockdown-service/internal/repository/model"
)

// lockdownService is the engine facade the command layer calls. Every
// operation loads the community's lockdown set fresh from the repository,
// delegates to it, and publishes a lifecycle event.
type lockdownService struct {
	logger   *zap.SugaredLogger
	repo     repository.Repository
	dir      directory.Directory
	notif    notifier.Notifier
	registry *lockdown.Registry
}

func newLockdownService(logger *zap.SugaredLogger, repo repository.Repository, dir directory.Directory,
	notif notifier.Notifier, registry *lockdown.Registry) *lockdownService {

	return &lockdownService{
		logger:   logger,
		repo:     repo,
		dir:      dir,
		notif:    notif,
		registry: registry,
	}
}

func (s *lockdownService) load(ctx context.Context, communityId string) (*lockdown.Set, error) {
	return lockdown.Load(ctx, s.logger, s.repo, s.dir, s.registry, communityId)
}

func (s *lockdownService) Apply(ctx context.Context, communityId string, modeString string, reason string) (uuid.UUID, error) {
	mode, err := s.registry.Parse(modeString)
	if err != nil {
		return uuid.Nil, err
	}

	set, err := s.load(ctx, communityId)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := set.Apply(ctx, mode, reason)
	if err != nil {
		return uuid.Nil, err
	}

	err = s.notif.LockdownApplied(ctx, &model.Lockdown{
		Id:          id,
		CommunityId: communityId,
		Type:        mode.String(),
		Reason:      reason,
	})
	if err != nil {
		s.logger.Errorw("error sending lockdown applied notification", "error", err)
	}

	return id, nil
}

func (s *lockdownService) Remove(ctx context.Context, communityId string, index int) error {
	set, err := s.load(ctx, communityId)
	if err != nil {
		return err
	}

	var removed *lockdown.Lockdown
	if lockdowns := set.Lockdowns(); index >= 0 && index < len(lockdowns) {
		removed = lockdowns[index]
	}

	if err := set.Remove(ctx, index); err != nil {
		return err
	}

	err = s.notif.LockdownRemoved(ctx, &model.Lockdown{
		Id:          removed.Id,
		CommunityId: communityId,
		Type:        removed.Mode.String(),
		Reason:      removed.Reason,
	})
	if err != nil {
		s.logger.Errorw("error sending lockdown removed notification", "error", err)
	}

	return nil
}

func (s *lockdownService) RemoveAll(ctx context.Context, communityId string) error {
	set, err := s.load(ctx, communityId)
	if err != nil {
		return err
	}
	count := len(set.Lockdowns())

	if err := set.RemoveAll(ctx); err != nil {
		return err
	}

	if err := s.notif.LockdownsCleared(ctx, communityId, count); err != nil {
		s.logger.Errorw("error sending lockdowns cleared notification", "error", err)
	}

	return nil
}

func (s *lockdownService) List(ctx context.Context, communityId string) ([]*lockdown.Lockdown, error) {
	set, err := s.load(ctx, communityId)
	if err != nil {
		return nil, err
	}
	return set.Lockdowns(), nil
}

func (s *lockdownService) GetHandles(ctx context.Context, communityId string) (*lockdown.Handles, error) {
	set, err := s.load(ctx, communityId)
	if err != nil {
		return nil, err
	}
	return set.GetHandles(ctx)
}
