package lockdown

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"lockdown-service/internal/directory"
	"lockdown-service/internal/repository"
	"lockdown-service/internal/repository/model"
	"sort"
	"time"
)

// Lockdown is one active lockdown: a concrete mode paired with the opaque
// snapshot its Setup captured, plus record metadata.
type Lockdown struct {
	Id        uuid.UUID
	Reason    string
	CreatedAt time.Time
	Mode      Mode
	Data      bson.Raw
}

func (l *Lockdown) toModel(communityId string) *model.Lockdown {
	return &model.Lockdown{
		Id:          l.Id,
		CommunityId: communityId,
		Type:        l.Mode.String(),
		Data:        l.Data,
		Reason:      l.Reason,
		CreatedAt:   l.CreatedAt,
	}
}

// Set is the full collection of active lockdowns for one community. It is
// loaded fresh from the repository at the start of every engine operation;
// the persisted rows stay the durable source of truth.
//
// There is no cross-call mutual exclusion: two racing operations on the
// same community each work from their own load and their writes are not
// serialized against each other.
type Set struct {
	logger *zap.SugaredLogger
	repo   repository.Repository
	dir    directory.Directory

	communityId string
	settings    *model.LockdownSettings
	lockdowns   []*Lockdown
}

// Load reads the community's active lockdowns and settings, reconstructing
// each mode from its persisted string form via the registry.
func Load(ctx context.Context, logger *zap.SugaredLogger, repo repository.Repository, dir directory.Directory,
	registry *Registry, communityId string) (*Set, error) {

	rows, err := repo.GetLockdowns(ctx, communityId)
	if err != nil {
		return nil, fmt.Errorf("failed to load lockdowns: %w", err)
	}

	lockdowns := make([]*Lockdown, 0, len(rows))
	for _, row := range rows {
		mode, err := registry.Parse(row.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored lockdown %s: %w", row.Id, err)
		}
		lockdowns = append(lockdowns, &Lockdown{
			Id:        row.Id,
			Reason:    row.Reason,
			CreatedAt: row.CreatedAt,
			Mode:      mode,
			Data:      row.Data,
		})
	}

	settings, err := repo.GetLockdownSettings(ctx, communityId)
	if err != nil {
		return nil, fmt.Errorf("failed to load lockdown settings: %w", err)
	}

	return &Set{
		logger:      logger,
		repo:        repo,
		dir:         dir,
		communityId: communityId,
		settings:    settings,
		lockdowns:   lockdowns,
	}, nil
}

// Lockdowns returns the active lockdowns in creation order. The slice
// index is the position Remove expects.
func (s *Set) Lockdowns() []*Lockdown {
	return s.lockdowns
}

// Sort orders the lockdowns most specific first, so bulk removal undoes
// the most targeted restrictions before the broad ones.
func (s *Set) Sort() {
	sort.SliceStable(s.lockdowns, func(i, j int) bool {
		return s.lockdowns[i].Mode.Specificity() > s.lockdowns[j].Mode.Specificity()
	})
}

// Handles folds every active lockdown's claims into the aggregate view.
func (s *Set) Handles(snapshot *directory.Community, critical map[string]directory.Role) *Handles {
	handles := NewHandles()
	for _, ld := range s.lockdowns {
		handles.Add(ld.Mode.Handles(snapshot, critical), ld.Mode.Specificity())
	}
	return handles
}

// GetHandles fetches a fresh snapshot and returns the aggregate claims,
// for display and debugging.
func (s *Set) GetHandles(ctx context.Context) (*Handles, error) {
	snapshot, err := s.dir.GetCommunity(ctx, s.communityId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch community: %w", err)
	}

	critical, err := s.criticalRoles(snapshot)
	if err != nil {
		return nil, err
	}

	return s.Handles(snapshot, critical), nil
}

// Apply runs the full apply pipeline for a new lockdown and returns the
// persisted record's id.
//
// The record is persisted before the directory edits are issued. A create
// that fails partway leaves a record claiming more than was applied;
// reverting that record later restores the untouched resources to their
// own prior state, which is a no-op.
func (s *Set) Apply(ctx context.Context, mode Mode, reason string) (uuid.UUID, error) {
	snapshot, err := s.dir.GetCommunity(ctx, s.communityId)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to fetch community: %w", err)
	}

	critical, err := s.criticalRoles(snapshot)
	if err != nil {
		return uuid.Nil, err
	}

	if s.settings.RequireCorrectLayout {
		result := mode.Test(snapshot, critical)
		if !result.CanApplyPerfectly() {
			return uuid.Nil, &TestFailedError{Mode: mode, Diff: result.DisplayResult(snapshot)}
		}
	}

	data, err := mode.Setup(snapshot, critical, s.lockdowns)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to capture pre-lockdown state: %w", err)
	}

	handles := s.Handles(snapshot, critical)
	// A new lockdown whose entire effect is already claimed at a higher
	// specificity is still accepted; rejecting it needs a per-mode
	// redundancy predicate the capability set does not expose.
	s.logger.Debugw("computed lockdown handles",
		"community", s.communityId, "mode", mode.String(),
		"claimedRoles", handles.Roles.Len(), "claimedChannels", handles.Channels.Len())

	lockdown := &Lockdown{
		Id:        uuid.New(),
		Reason:    reason,
		CreatedAt: time.Now(),
		Mode:      mode,
		Data:      data,
	}

	if err := s.repo.CreateLockdown(ctx, lockdown.toModel(s.communityId)); err != nil {
		return uuid.Nil, fmt.Errorf("failed to persist lockdown: %w", err)
	}

	if _, err := mode.Create(ctx, s.dir, snapshot, critical, handles); err != nil {
		return uuid.Nil, fmt.Errorf("failed to apply %s lockdown: %w", mode, err)
	}

	s.lockdowns = append(s.lockdowns, lockdown)
	s.logger.Infow("applied lockdown",
		"community", s.communityId, "mode", mode.String(), "id", lockdown.Id, "reason", reason)
	return lockdown.Id, nil
}

// Remove reverts and deletes the lockdown at the given position.
func (s *Set) Remove(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.lockdowns) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfBounds, index)
	}
	target := s.lockdowns[index]

	snapshot, err := s.dir.GetCommunity(ctx, s.communityId)
	if err != nil {
		return fmt.Errorf("failed to fetch community: %w", err)
	}

	critical, err := s.criticalRoles(snapshot)
	if err != nil {
		return err
	}

	if err := s.revert(ctx, target, snapshot, critical); err != nil {
		return err
	}

	if err := s.repo.DeleteLockdown(ctx, target.Id); err != nil {
		return fmt.Errorf("failed to delete lockdown record: %w", err)
	}

	s.lockdowns = append(s.lockdowns[:index], s.lockdowns[index+1:]...)
	s.logger.Infow("removed lockdown",
		"community", s.communityId, "mode", target.Mode.String(), "id", target.Id)
	return nil
}

// RemoveAll reverts every active lockdown, most specific first. Handles
// are recomputed from scratch after each revert: undoing one lockdown
// changes what the next revert must treat as claimed by someone else.
func (s *Set) RemoveAll(ctx context.Context) error {
	s.Sort()

	snapshot, err := s.dir.GetCommunity(ctx, s.communityId)
	if err != nil {
		return fmt.Errorf("failed to fetch community: %w", err)
	}

	critical, err := s.criticalRoles(snapshot)
	if err != nil {
		return err
	}

	for len(s.lockdowns) > 0 {
		target := s.lockdowns[0]

		if err := s.revert(ctx, target, snapshot, critical); err != nil {
			return err
		}

		if err := s.repo.DeleteLockdown(ctx, target.Id); err != nil {
			return fmt.Errorf("failed to delete lockdown record: %w", err)
		}

		s.lockdowns = s.lockdowns[1:]
	}

	s.logger.Infow("removed all lockdowns", "community", s.communityId)
	return nil
}

// revert runs the target's revert with the aggregate handles of every
// other active lockdown (the target's own claim subtracted out first).
func (s *Set) revert(ctx context.Context, target *Lockdown, snapshot *directory.Community, critical map[string]directory.Role) error {
	handles := s.Handles(snapshot, critical)
	handles.Remove(target.Mode.Handles(snapshot, critical), target.Mode.Specificity())

	if _, err := target.Mode.Revert(ctx, s.dir, snapshot, critical, target.Data, handles); err != nil {
		return fmt.Errorf("failed to revert %s lockdown: %w", target.Mode, err)
	}
	return nil
}

// criticalRoles resolves the member-facing role set for the snapshot. The
// set is never empty: when the configured member roles are missing or the
// configuration is empty, the community's default role stands in.
func (s *Set) criticalRoles(snapshot *directory.Community) (map[string]directory.Role, error) {
	critical := make(map[string]directory.Role, len(s.settings.MemberRoles))
	for _, roleId := range s.settings.MemberRoles {
		if role, ok := snapshot.Role(roleId); ok {
			critical[roleId] = *role
		}
	}

	if len(critical) == 0 {
		role, ok := snapshot.DefaultRole()
		if !ok {
			return nil, ErrNoDefaultRole
		}
		critical[role.Id] = *role
	}

	return critical, nil
}
