package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// GroupService handles group CRUD and membership checks.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// Create creates a group. The currency is required and fixed for the
// group's lifetime; the creator is always a member.
func (s *GroupService) Create(ctx context.Context, userID, name, currency string, members []string) (*models.Group, error) {
	if name == "" {
		return nil, &ledger.ValidationError{Reason: "group name is required"}
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return nil, &ledger.ValidationError{Reason: "currency must be a 3-letter ISO code"}
	}

	group := &models.Group{
		Name:      name,
		Currency:  currency,
		Members:   withMember(members, userID),
		CreatedBy: userID,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "currency", group.Currency)
	return group, nil
}

// Get retrieves a group the user belongs to.
func (s *GroupService) Get(ctx context.Context, userID, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, ErrForbidden
	}
	return group, nil
}

// List retrieves all groups the user belongs to.
func (s *GroupService) List(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsByMember(ctx, userID)
}

// Update renames a group and replaces its member list. The acting user
// must be a member and stays one; currency is immutable.
func (s *GroupService) Update(ctx context.Context, userID, groupID, name string, members []string) (*models.Group, error) {
	group, err := s.Get(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, &ledger.ValidationError{Reason: "group name is required"}
	}

	group.Name = name
	group.Members = withMember(members, userID)
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "group_id", groupID, "error", err)
		return nil, err
	}

	slog.Info("Group updated", "group_id", group.ID)
	return group, nil
}

// Delete removes a group and everything in it.
func (s *GroupService) Delete(ctx context.Context, userID, groupID string) error {
	if _, err := s.Get(ctx, userID, groupID); err != nil {
		return err
	}
	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", groupID, "error", err)
		return err
	}
	slog.Info("Group deleted", "group_id", groupID)
	return nil
}

// withMember returns members with userID appended if absent.
func withMember(members []string, userID string) []string {
	for _, m := range members {
		if m == userID {
			return members
		}
	}
	return append(members, userID)
}
